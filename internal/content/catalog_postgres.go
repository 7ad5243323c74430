package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresCatalog reads the shared template catalog from PostgreSQL.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) FetchByRefs(ctx context.Context, refIDs []string) ([]Template, error) {
	if len(refIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ref_id, category, title, body, active, updated_at
		FROM content_templates
		WHERE ref_id = ANY($1)
	`
	rows, err := c.db.QueryContext(ctx, query, pq.Array(refIDs))
	if err != nil {
		return nil, fmt.Errorf("query content templates: %w", err)
	}
	defer rows.Close()

	byRef := make(map[string]Template, len(refIDs))
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.RefID, &t.Category, &t.Title, &t.Body, &t.Active, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan content template: %w", err)
		}
		byRef[t.RefID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content templates: %w", err)
	}

	// Preserve input order; skip unknown refs.
	out := make([]Template, 0, len(byRef))
	for _, ref := range refIDs {
		if t, ok := byRef[ref]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *PostgresCatalog) CountActive(ctx context.Context, refIDs []string) (int, error) {
	if len(refIDs) == 0 {
		return 0, nil
	}

	var count int
	query := `SELECT COUNT(*) FROM content_templates WHERE ref_id = ANY($1) AND active`
	if err := c.db.QueryRowContext(ctx, query, pq.Array(refIDs)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active templates: %w", err)
	}
	return count, nil
}
