package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/syoh89/lipcoding-competition/internal/model"
	"github.com/syoh89/lipcoding-competition/internal/utils"
)

// UserRepo provides data access to the users table. It owns credential
// material exclusively: password hashes never leave this package except
// inside model.User rows consumed by the auth handler.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,email,password_hash,name,role,bio,image_data,image_type,skills,created_at,updated_at"

// Create inserts a user and returns its ID. The email is normalized to
// lower case before the insert so the unique index applies to the
// case-folded form. Skills are stored in canonical JSON form and only
// kept for mentors; a mentee's skills are always empty.
func (r *UserRepo) Create(ctx context.Context, email, password, name, role, bio string, skills []string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	stored := "[]"
	if role == model.RoleMentor {
		stored = utils.EncodeSkills(skills)
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, role, bio, skills) VALUES (?,?,?,?,?,?)",
		email, hash, name, role, bio, stored)
	if err != nil {
		if isDupKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		bio       sql.NullString
		imageType sql.NullString
		skills    sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&bio, &u.ImageData, &imageType, &skills, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Bio = bio.String
	u.ImageType = imageType.String
	u.Skills = skills.String
	return u, nil
}

// UpdateProfile overwrites the caller-owned profile fields of a user.
// Role and email are deliberately not part of the statement: the role is
// immutable after signup and the email is the login identifier. Avatar
// bytes are only touched when image is non-nil, so a profile update
// without an upload keeps the existing blob. Skills are persisted only
// for mentors. Concurrent updates from the same user are last-writer-wins.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, role, name, bio string, skills []string, image []byte, imageType string) error {
	stored := "[]"
	if role == model.RoleMentor {
		stored = utils.EncodeSkills(skills)
	}
	// RowsAffected cannot distinguish a missing row from a no-op update,
	// so existence is checked by the caller via GetByID beforehand.
	var err error
	if image != nil {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET name=?, bio=?, skills=?, image_data=?, image_type=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
			name, bio, stored, image, imageType, id)
	} else {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET name=?, bio=?, skills=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
			name, bio, stored, id)
	}
	return err
}

// GetAvatar returns the stored avatar bytes and content type for a user
// of the given role. sql.ErrNoRows is returned when the user does not
// exist or has no avatar set.
func (r *UserRepo) GetAvatar(ctx context.Context, id uint64, role string) ([]byte, string, error) {
	var (
		data      []byte
		imageType sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT image_data, image_type FROM users WHERE id=? AND role=? LIMIT 1",
		id, role).Scan(&data, &imageType)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", sql.ErrNoRows
	}
	return data, imageType.String, nil
}
