package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/syoh89/lipcoding-competition/internal/model"
	"github.com/syoh89/lipcoding-competition/internal/utils"
)

// Mentor directory sort keys accepted by ListMentors. The handler
// rejects anything else before it reaches the repository.
const (
	OrderByName  = "name"
	OrderBySkill = "skill"
)

// ValidOrderBy reports whether s is a supported directory sort key.
// The empty string is valid and means registration order.
func ValidOrderBy(s string) bool {
	return s == "" || s == OrderByName || s == OrderBySkill
}

// MentorRow is one entry of the public mentor directory. It carries no
// credential or contact material beyond the display name.
type MentorRow struct {
	ID       uint64
	Name     string
	Bio      string
	Skills   []string
	HasImage bool
}

// ListMentors returns the mentor directory, optionally filtered to
// mentors holding an exact skill and sorted by the given key. The skill
// filter compares whole tokens case-insensitively, so filtering for
// "Java" never matches a mentor who only lists "JavaScript"; that rules
// out pushing the filter into a SQL LIKE clause, which is why rows are
// filtered here after decoding the skill list.
func (r *UserRepo) ListMentors(ctx context.Context, skill, orderBy string) ([]MentorRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, bio, skills, image_data IS NOT NULL AND LENGTH(image_data) > 0 FROM users WHERE role=? ORDER BY id ASC",
		model.RoleMentor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MentorRow, 0)
	for rows.Next() {
		var (
			m      MentorRow
			bio    sql.NullString
			stored sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Name, &bio, &stored, &m.HasImage); err != nil {
			return nil, err
		}
		m.Bio = bio.String
		skills, err := utils.DecodeSkills(stored.String)
		if err != nil {
			// A malformed row should not take down the whole directory.
			skills = []string{}
		}
		m.Skills = skills
		if skill != "" && !utils.HasSkill(m.Skills, skill) {
			continue
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch orderBy {
	case OrderByName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case OrderBySkill:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(strings.Join(out[i].Skills, ",")) <
				strings.ToLower(strings.Join(out[j].Skills, ","))
		})
	}
	return out, nil
}
