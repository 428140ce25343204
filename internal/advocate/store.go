package advocate

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/advocate-directory/search-service/pkg/postgres"
)

// schema creates the advocates table and the indexes backing the common
// filter and sort patterns.
const schema = `
CREATE TABLE IF NOT EXISTS advocates (
	id                  SERIAL PRIMARY KEY,
	first_name          TEXT NOT NULL,
	last_name           TEXT NOT NULL,
	city                TEXT NOT NULL,
	degree              TEXT NOT NULL,
	specialties         JSONB NOT NULL DEFAULT '[]',
	years_of_experience INTEGER NOT NULL,
	phone_number        TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS advocates_first_name_idx ON advocates (first_name);
CREATE INDEX IF NOT EXISTS advocates_last_name_idx ON advocates (last_name);
CREATE INDEX IF NOT EXISTS advocates_city_idx ON advocates (city);
CREATE INDEX IF NOT EXISTS advocates_degree_idx ON advocates (degree);
CREATE INDEX IF NOT EXISTS advocates_experience_idx ON advocates (years_of_experience);
CREATE INDEX IF NOT EXISTS advocates_specialties_gin_idx ON advocates USING GIN (specialties);
`

// Store provides the write and maintenance operations on the advocates
// table. The search read path lives in internal/search/source.
type Store struct {
	db *postgres.Client
}

// NewStore creates a Store over the given PostgreSQL client.
func NewStore(db *postgres.Client) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the advocates table and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensuring advocates schema: %w", err)
	}
	return nil
}

// Seed inserts the given records in one transaction and returns the number
// inserted.
func (s *Store) Seed(ctx context.Context, records []Advocate) (int, error) {
	inserted := 0
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		for _, a := range records {
			specialties, err := json.Marshal(a.Specialties)
			if err != nil {
				return fmt.Errorf("marshaling specialties: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO advocates
				 (first_name, last_name, city, degree, specialties, years_of_experience, phone_number)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				a.FirstName, a.LastName, a.City, a.Degree,
				string(specialties), a.YearsOfExperience, a.PhoneNumber,
			); err != nil {
				return fmt.Errorf("inserting advocate %s %s: %w", a.FirstName, a.LastName, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Count returns the number of advocate rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM advocates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting advocates: %w", err)
	}
	return n, nil
}
