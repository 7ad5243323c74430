package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"answerwire/internal/tenant/models"
	id "answerwire/pkg/domain"
	"answerwire/pkg/platform/sentinel"
)

// PostgresStore persists tenant records in PostgreSQL. The settings, legacy,
// and content_links documents live in jsonb columns so their nested shapes
// round-trip without a relational mapping.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed tenant store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, record *models.Record) error {
	settings, legacy, links, err := marshalDocuments(record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tenant_records (id, name, category, settings, legacy, content_links, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		record.Name,
		record.Category,
		settings,
		legacy,
		links,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tenant record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert tenant record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Record, error) {
	query := `
		SELECT id, name, category, settings, legacy, content_links, created_at, updated_at
		FROM tenant_records
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID))

	var (
		record   models.Record
		rawID    uuid.UUID
		settings []byte
		legacy   []byte
		links    []byte
	)
	err := row.Scan(&rawID, &record.Name, &record.Category,
		&settings, &legacy, &links, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant record: %w", err)
	}
	record.ID = id.TenantID(rawID)

	if err := unmarshalDocuments(&record, settings, legacy, links); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *PostgresStore) Update(ctx context.Context, record *models.Record) error {
	settings, legacy, links, err := marshalDocuments(record)
	if err != nil {
		return err
	}

	query := `
		UPDATE tenant_records
		SET name = $2, category = $3, settings = $4, legacy = $5, content_links = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		record.Name,
		record.Category,
		settings,
		legacy,
		links,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tenant record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tenant record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenant_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tenant records: %w", err)
	}
	return count, nil
}

func marshalDocuments(record *models.Record) (settings, legacy, links []byte, err error) {
	if settings, err = json.Marshal(record.Settings); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal settings: %w", err)
	}
	if legacy, err = json.Marshal(record.Legacy); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal legacy: %w", err)
	}
	if links, err = json.Marshal(record.ContentLinks); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal content links: %w", err)
	}
	return settings, legacy, links, nil
}

func unmarshalDocuments(record *models.Record, settings, legacy, links []byte) error {
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &record.Settings); err != nil {
			return fmt.Errorf("unmarshal settings: %w", err)
		}
	}
	if record.Settings == nil {
		record.Settings = map[string]any{}
	}
	if len(legacy) > 0 {
		if err := json.Unmarshal(legacy, &record.Legacy); err != nil {
			return fmt.Errorf("unmarshal legacy: %w", err)
		}
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &record.ContentLinks); err != nil {
			return fmt.Errorf("unmarshal content links: %w", err)
		}
	}
	return nil
}
