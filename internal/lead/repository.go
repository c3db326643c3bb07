package lead

import (
	"context"
	"fmt"

	"github.com/canvasspace/canvasaem/internal/database"
)

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// Insert stores l and fills in its ID and CreatedAt.
func (r *Repository) Insert(ctx context.Context, l *Lead) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO leads (session_id, name, email, company, country, city, browser, device)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		l.SessionID, l.Name, l.Email, l.Company, l.Country, l.City, l.Browser, l.Device,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// List returns leads newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Lead, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, name, email, company, country, city, browser, device, created_at
		 FROM leads ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Name, &l.Email, &l.Company, &l.Country, &l.City, &l.Browser, &l.Device, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM leads").Scan(&count); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return count, nil
}
