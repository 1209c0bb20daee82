package expenses

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/warehouse-assistant/pkg/db"
)

// Repository reads the invoice store.
type Repository struct {
	db *db.DB
}

// NewRepository creates a new invoice repository.
func NewRepository(db *db.DB) *Repository {
	return &Repository{db: db}
}

// SumForWarehouseIDs returns the invoice total over the given warehouse
// identifiers. The sum travels as text and is parsed into a decimal so no
// precision is lost on large totals.
func (r *Repository) SumForWarehouseIDs(ctx context.Context, ids []string) (decimal.Decimal, error) {
	if len(ids) == 0 {
		return decimal.Zero, fmt.Errorf("no warehouse identifiers given")
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(total_amount), 0)::text
		FROM invoice_info
		WHERE warehouse_id IN (%s)`, strings.Join(placeholders, ", "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum invoices: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("invoice sum returned no rows")
	}

	var raw string
	if err := rows.Scan(&raw); err != nil {
		return decimal.Zero, err
	}

	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid invoice total %q: %w", raw, err)
	}
	return total, nil
}
