package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/syoh89/lipcoding-competition/internal/utils"
)

// Step is one named schema migration. Steps run in declaration order and
// the runner aborts on the first failure, so the schema is either fully
// migrated or the process refuses to start.
type Step struct {
	Name string
	Run  func(ctx context.Context, db *sql.DB) error
}

func ddl(name, stmt string) Step {
	return Step{Name: name, Run: func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	}}
}

// steps is the ordered schema history. New migrations are appended, never
// inserted or reordered.
var steps = []Step{
	ddl("create_users", `
		CREATE TABLE IF NOT EXISTS users (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			email         VARCHAR(255)    NOT NULL,
			password_hash VARCHAR(255)    NOT NULL,
			name          VARCHAR(255)    NOT NULL,
			role          ENUM('mentor','mentee') NOT NULL,
			bio           TEXT            NULL,
			image_data    MEDIUMBLOB      NULL,
			image_type    VARCHAR(64)     NULL,
			skills        TEXT            NULL,
			created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`),

	ddl("create_refresh_tokens", `
		CREATE TABLE IF NOT EXISTS refresh_tokens (
			id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id    BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64)        NOT NULL,
			expires_at DATETIME        NOT NULL,
			revoked_at DATETIME        NULL,
			created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_refresh_token_hash (token_hash),
			KEY idx_refresh_user (user_id),
			CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`),

	// pending_mentee mirrors mentee_id only while the row is pending, so
	// the unique index enforces "at most one pending request per mentee"
	// without blocking terminal rows. One pending per mentee also bounds
	// pending rows per (mentor, mentee) pair to one.
	ddl("create_match_requests", `
		CREATE TABLE IF NOT EXISTS match_requests (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			mentor_id     BIGINT UNSIGNED NOT NULL,
			mentee_id     BIGINT UNSIGNED NOT NULL,
			message       TEXT            NOT NULL,
			status        ENUM('pending','accepted','rejected','cancelled') NOT NULL DEFAULT 'pending',
			pending_mentee BIGINT UNSIGNED GENERATED ALWAYS AS (IF(status='pending', mentee_id, NULL)) STORED,
			created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_match_pending_mentee (pending_mentee),
			KEY idx_match_mentor (mentor_id, created_at),
			KEY idx_match_mentee (mentee_id, created_at),
			CONSTRAINT fk_match_mentor FOREIGN KEY (mentor_id) REFERENCES users(id),
			CONSTRAINT fk_match_mentee FOREIGN KEY (mentee_id) REFERENCES users(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`),

	ddl("create_feedback", `
		CREATE TABLE IF NOT EXISTS feedback (
			id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			match_request_id BIGINT UNSIGNED NOT NULL,
			reviewer_id      BIGINT UNSIGNED NOT NULL,
			reviewee_id      BIGINT UNSIGNED NOT NULL,
			rating           TINYINT         NOT NULL,
			comment          VARCHAR(1000)   NULL,
			created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_feedback_reviewer (match_request_id, reviewer_id),
			KEY idx_feedback_reviewee (reviewee_id, created_at),
			CONSTRAINT fk_feedback_match FOREIGN KEY (match_request_id) REFERENCES match_requests(id),
			CONSTRAINT fk_feedback_reviewer FOREIGN KEY (reviewer_id) REFERENCES users(id),
			CONSTRAINT fk_feedback_reviewee FOREIGN KEY (reviewee_id) REFERENCES users(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`),

	// Older deployments stored skills as a comma-delimited string. Rewrite
	// any non-JSON value to the canonical JSON array form so runtime reads
	// never have to guess the shape.
	{Name: "normalize_legacy_skills", Run: normalizeLegacySkills},
}

// Migrate runs every schema step in order. A failing step aborts the
// whole run with an error naming the step, leaving earlier steps applied.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range steps {
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("migration %q: %w", s.Name, err)
		}
		log.Printf("migration applied: %s", s.Name)
	}
	return nil
}

func normalizeLegacySkills(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx,
		"SELECT id, skills FROM users WHERE skills IS NOT NULL AND skills <> '' AND skills NOT LIKE '[%'")
	if err != nil {
		return err
	}
	defer rows.Close()

	type fix struct {
		id     uint64
		skills string
	}
	var fixes []fix
	for rows.Next() {
		var f fix
		if err := rows.Scan(&f.id, &f.skills); err != nil {
			return err
		}
		f.skills = utils.NormalizeLegacySkills(f.skills)
		fixes = append(fixes, f)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, f := range fixes {
		if _, err := db.ExecContext(ctx, "UPDATE users SET skills=? WHERE id=?", f.skills, f.id); err != nil {
			return err
		}
	}
	return nil
}
