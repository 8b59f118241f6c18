package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rpsoft/puntualidad-api/internal/models"
)

// InternRepository reads the intern roster.
type InternRepository struct {
	db *sqlx.DB
}

// NewInternRepository constructs the repository.
func NewInternRepository(db *sqlx.DB) *InternRepository {
	return &InternRepository{db: db}
}

// ListActive returns all active interns ordered by name.
func (r *InternRepository) ListActive(ctx context.Context) ([]models.Intern, error) {
	query := `SELECT id, full_name, team, active, created_at FROM interns WHERE active ORDER BY full_name`
	var rows []models.Intern
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list active interns: %w", err)
	}
	return rows, nil
}

// GetByID returns one intern, or nil when absent.
func (r *InternRepository) GetByID(ctx context.Context, id string) (*models.Intern, error) {
	query := `SELECT id, full_name, team, active, created_at FROM interns WHERE id = $1`
	var intern models.Intern
	if err := r.db.GetContext(ctx, &intern, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get intern: %w", err)
	}
	return &intern, nil
}
