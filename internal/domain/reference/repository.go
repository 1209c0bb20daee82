package reference

import (
	"context"
	"fmt"

	"github.com/FACorreiaa/warehouse-assistant/pkg/db"
)

// Repository reads reference data from the warehouse master store.
type Repository struct {
	db *db.DB
}

// NewRepository creates a new reference repository.
func NewRepository(db *db.DB) *Repository {
	return &Repository{db: db}
}

// ListWarehouseCodes fetches every warehouse code from master data.
func (r *Repository) ListWarehouseCodes(ctx context.Context) ([]string, error) {
	query := `SELECT warehouse_code FROM warehouse_info ORDER BY warehouse_code`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch warehouse codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}
