package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/firehallhq/cadintel/internal/domain"
)

// BundleRepository persists comment bundles as one JSON document per
// incident. The bundle is the unit of consistency; partial updates go
// through load-modify-save.
type BundleRepository struct {
	db *sqlx.DB
}

// NewBundleRepository creates a bundle repository.
func NewBundleRepository(db *sqlx.DB) *BundleRepository {
	return &BundleRepository{db: db}
}

// Get loads the bundle for an incident. Returns
// domain.ErrBundleNotFound when the incident was never parsed.
func (r *BundleRepository) Get(ctx context.Context, incidentID string) (*domain.CommentBundle, error) {
	query := r.db.Rebind(`SELECT bundle FROM comment_bundles WHERE incident_id = ?`)

	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, incidentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBundleNotFound
		}
		return nil, fmt.Errorf("failed to load bundle: %w", err)
	}

	var bundle domain.CommentBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	return &bundle, nil
}

// Save upserts the bundle. The denormalized columns exist for
// operational queries; the JSON document stays authoritative.
func (r *BundleRepository) Save(ctx context.Context, bundle *domain.CommentBundle) error {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO comment_bundles (incident_id, bundle, parsed_at, parser_version, reviewed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (incident_id) DO UPDATE SET
			bundle = excluded.bundle,
			parsed_at = excluded.parsed_at,
			parser_version = excluded.parser_version,
			reviewed_at = excluded.reviewed_at`)

	_, err = r.db.ExecContext(ctx, query,
		bundle.IncidentID, raw, bundle.ParsedAt, bundle.ParserVersion, bundle.OfficerReviewedAt)
	if err != nil {
		return fmt.Errorf("failed to save bundle: %w", err)
	}
	return nil
}
