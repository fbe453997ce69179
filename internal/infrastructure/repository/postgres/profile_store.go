package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

// Document-type profiles live in the config_entries key-value table, one
// JSONB value per profile under a "doctype#" key prefix.
const docTypeKeyPrefix = "doctype#"

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func profileKey(name string) string {
	return docTypeKeyPrefix + strings.ToLower(strings.TrimSpace(name))
}

func (s *ProfileStore) Put(ctx context.Context, profile *domain.DocTypeProfile) error {
	value, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO config_entries (key, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`, profileKey(profile.Name), value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) Get(ctx context.Context, name string) (*domain.DocTypeProfile, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT value FROM config_entries WHERE key = $1
`, profileKey(name))

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrProfileNotFound, "get profile", fmt.Errorf("name=%s", name))
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	var profile domain.DocTypeProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (s *ProfileStore) List(ctx context.Context) ([]domain.DocTypeProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT value FROM config_entries
WHERE key LIKE $1
ORDER BY key
`, docTypeKeyPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DocTypeProfile, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		var profile domain.DocTypeProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("unmarshal profile row: %w", err)
		}
		out = append(out, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}

func (s *ProfileStore) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `
DELETE FROM config_entries WHERE key = $1
`, profileKey(name))
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrProfileNotFound, "delete profile", fmt.Errorf("name=%s", name))
	}
	return nil
}
