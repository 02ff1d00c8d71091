package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// FiltersRepository handles filters table operations
type FiltersRepository struct {
	pool *pgxpool.Pool
}

// NewFiltersRepository creates a new filters repository
func NewFiltersRepository(pool *pgxpool.Pool) *FiltersRepository {
	return &FiltersRepository{pool: pool}
}

const filterColumns = `id, name, pattern, prompt, include_sources, exclude_sources, created_at, updated_at`

func scanFilter(row pgx.Row) (*models.Filter, error) {
	var f models.Filter
	err := row.Scan(
		&f.ID, &f.Name, &f.Pattern, &f.Prompt,
		&f.IncludeSources, &f.ExcludeSources,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if f.IncludeSources == nil {
		f.IncludeSources = []string{}
	}
	if f.ExcludeSources == nil {
		f.ExcludeSources = []string{}
	}
	return &f, nil
}

// Create inserts a new filter
func (r *FiltersRepository) Create(ctx context.Context, f *models.Filter) error {
	if f.IncludeSources == nil {
		f.IncludeSources = []string{}
	}
	if f.ExcludeSources == nil {
		f.ExcludeSources = []string{}
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO filters (name, pattern, prompt, include_sources, exclude_sources)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, f.Name, f.Pattern, f.Prompt, f.IncludeSources, f.ExcludeSources,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create filter: %w", err)
	}
	return nil
}

// GetByID returns a filter by id, nil when not found
func (r *FiltersRepository) GetByID(ctx context.Context, id int64) (*models.Filter, error) {
	f, err := scanFilter(r.pool.QueryRow(ctx,
		`SELECT `+filterColumns+` FROM filters WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get filter by id: %w", err)
	}
	return f, nil
}

// GetAll returns all filters ordered by id
func (r *FiltersRepository) GetAll(ctx context.Context) ([]models.Filter, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+filterColumns+` FROM filters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("get filters: %w", err)
	}
	defer rows.Close()

	var filters []models.Filter
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		filters = append(filters, *f)
	}
	return filters, rows.Err()
}

// Update replaces the mutable fields of a filter. Returns false when the
// filter does not exist.
func (r *FiltersRepository) Update(ctx context.Context, f *models.Filter) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE filters
		SET name = $2, pattern = $3, prompt = $4,
		    include_sources = $5, exclude_sources = $6,
		    updated_at = now()
		WHERE id = $1
	`, f.ID, f.Name, f.Pattern, f.Prompt, f.IncludeSources, f.ExcludeSources)
	if err != nil {
		return false, fmt.Errorf("update filter: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateSources replaces only the include/exclude source lists.
func (r *FiltersRepository) UpdateSources(ctx context.Context, id int64, include, exclude []string) (bool, error) {
	if include == nil {
		include = []string{}
	}
	if exclude == nil {
		exclude = []string{}
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE filters
		SET include_sources = $2, exclude_sources = $3, updated_at = now()
		WHERE id = $1
	`, id, include, exclude)
	if err != nil {
		return false, fmt.Errorf("update filter sources: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a filter and cascades to its messages.
func (r *FiltersRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM filters WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete filter: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
