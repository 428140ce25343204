package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/search/params"
	"github.com/advocate-directory/search-service/pkg/postgres"
)

// sortColumns whitelists the sortBy values against their column names.
// Anything else has already been rejected by the validator.
var sortColumns = map[string]string{
	"firstName":         "first_name",
	"lastName":          "last_name",
	"yearsOfExperience": "years_of_experience",
	"city":              "city",
}

// Postgres is the primary store. Queries are composed dynamically with $n
// placeholders; user input only ever reaches the database as bind arguments.
type Postgres struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewPostgres creates the primary advocate source.
func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{
		db:     db,
		logger: slog.Default().With("component", "postgres-source"),
	}
}

// Search runs the filtered, sorted, paginated select in a single round trip
// using a windowed count. When the requested page lies beyond the result set
// the count is recovered with a plain COUNT over the same conditions.
func (s *Postgres) Search(ctx context.Context, p *params.Params) ([]advocate.Advocate, int, error) {
	where, args := buildConditions(p)

	orderBy := sortColumns[p.SortBy]
	direction := "ASC"
	if p.SortOrder == "desc" {
		direction = "DESC"
	}

	offset := (p.Page - 1) * p.Limit
	query := fmt.Sprintf(
		`SELECT id, first_name, last_name, city, degree, specialties,
		        years_of_experience, phone_number, created_at,
		        COUNT(*) OVER() AS total_count
		 FROM advocates%s
		 ORDER BY %s %s, id ASC
		 LIMIT $%d OFFSET $%d`,
		where, orderBy, direction, len(args)+1, len(args)+2,
	)
	args = append(args, p.Limit, offset)

	rows, err := s.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying advocates: %w", err)
	}
	defer rows.Close()

	advocates := make([]advocate.Advocate, 0, p.Limit)
	total := 0
	for rows.Next() {
		var a advocate.Advocate
		var specialties []byte
		if err := rows.Scan(
			&a.ID, &a.FirstName, &a.LastName, &a.City, &a.Degree,
			&specialties, &a.YearsOfExperience, &a.PhoneNumber, &a.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning advocate row: %w", err)
		}
		if err := json.Unmarshal(specialties, &a.Specialties); err != nil {
			s.logger.Warn("malformed specialties payload", "id", a.ID, "error", err)
			a.Specialties = []string{}
		}
		if a.Specialties == nil {
			a.Specialties = []string{}
		}
		advocates = append(advocates, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating advocate rows: %w", err)
	}

	// The windowed count only appears on returned rows; an empty page past
	// the end of the result set still needs an accurate total.
	if len(advocates) == 0 {
		condWhere, condArgs := buildConditions(p)
		countQuery := "SELECT COUNT(*) FROM advocates" + condWhere
		if err := s.db.DB.QueryRowContext(ctx, countQuery, condArgs...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("counting advocates: %w", err)
		}
	}

	return advocates, total, nil
}

// buildConditions translates the validated parameters into a WHERE clause
// and its bind arguments. Filters are conjunctive; within the free-text
// query the matched columns are disjunctive.
func buildConditions(p *params.Params) (string, []any) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if p.Query != "" {
		term := arg("%" + strings.ToLower(p.Query) + "%")
		conditions = append(conditions, fmt.Sprintf(
			`(LOWER(first_name) LIKE %[1]s
			  OR LOWER(last_name) LIKE %[1]s
			  OR LOWER(city) LIKE %[1]s
			  OR LOWER(degree) LIKE %[1]s
			  OR LOWER(specialties::text) LIKE %[1]s
			  OR years_of_experience::text LIKE %[1]s)`, term))
	}
	if p.City != "" {
		conditions = append(conditions,
			fmt.Sprintf("LOWER(city) LIKE %s", arg("%"+strings.ToLower(p.City)+"%")))
	}
	if p.Degree != "" {
		conditions = append(conditions,
			fmt.Sprintf("LOWER(degree) LIKE %s", arg("%"+strings.ToLower(p.Degree)+"%")))
	}
	if p.Specialties != "" {
		conditions = append(conditions,
			fmt.Sprintf("LOWER(specialties::text) LIKE %s", arg("%"+strings.ToLower(p.Specialties)+"%")))
	}
	if p.MinExperience != nil {
		conditions = append(conditions,
			fmt.Sprintf("years_of_experience >= %s", arg(*p.MinExperience)))
	}
	if p.MaxExperience != nil {
		conditions = append(conditions,
			fmt.Sprintf("years_of_experience <= %s", arg(*p.MaxExperience)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
