package model

import "time"

// Role names stored in users.role.  Roles are assigned once at signup and
// never change afterwards; there is no promotion or demotion path.
const (
	RoleMentor = "mentor"
	RoleMentee = "mentee"
)

// ValidRole reports whether s is one of the two supported roles.
func ValidRole(s string) bool { return s == RoleMentor || s == RoleMentee }

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address (stored lower-cased).
//  PasswordHash – bcrypt hashed password.
//  Name         – display name.
//  Role         – "mentor" or "mentee"; immutable after creation.
//  Bio          – free-form profile text.
//  ImageData    – optional avatar bytes (JPEG or PNG, at most 1 MiB).
//  ImageType    – MIME type of ImageData; empty when no avatar is set.
//  Skills       – canonical JSON array of skill strings; meaningful only
//                 for mentors, empty for mentees.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Name         string    // users.name
	Role         string    // users.role
	Bio          string    // users.bio
	ImageData    []byte    // users.image_data (nullable)
	ImageType    string    // users.image_type (nullable)
	Skills       string    // users.skills (JSON array text)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
