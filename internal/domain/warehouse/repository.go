// Package warehouse provides typed, read-only access to the warehouse master
// store. Rows come back as structs at the boundary; nothing round-trips
// through display strings.
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/FACorreiaa/warehouse-assistant/pkg/db"
)

// IDCode pairs a warehouse's numeric identifier with its code. The id is
// what invoice rows reference.
type IDCode struct {
	ID   string
	Code string
}

// Row is a warehouse master record.
type Row struct {
	Code          string
	Name          string
	Address1      string
	Address2      string
	Landmark      string
	PinCode       string
	GoogleMapLink string
}

// Repository reads the warehouse master store.
type Repository struct {
	db *db.DB
}

// NewRepository creates a new warehouse repository.
func NewRepository(db *db.DB) *Repository {
	return &Repository{db: db}
}

// ListIDCodes fetches the id-to-code mapping for every warehouse.
func (r *Repository) ListIDCodes(ctx context.Context) ([]IDCode, error) {
	query := `SELECT id, warehouse_code FROM warehouse_info`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve warehouse data: %w", err)
	}
	defer rows.Close()

	var result []IDCode
	for rows.Next() {
		var wc IDCode
		if err := rows.Scan(&wc.ID, &wc.Code); err != nil {
			return nil, err
		}
		wc.ID = strings.TrimSpace(wc.ID)
		wc.Code = strings.TrimSpace(wc.Code)
		result = append(result, wc)
	}

	return result, rows.Err()
}

// ListByCodes fetches listing rows for the given codes, ordered by code.
func (r *Repository) ListByCodes(ctx context.Context, codes []string) ([]Row, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	placeholders, args := inClause(codes, 1)
	query := fmt.Sprintf(`
		SELECT warehouse_code, warehouse_name, address_1, pin_code
		FROM warehouse_info
		WHERE warehouse_code IN %s
		ORDER BY warehouse_code`, placeholders)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var w Row
		if err := rows.Scan(&w.Code, &w.Name, &w.Address1, &w.PinCode); err != nil {
			return nil, err
		}
		result = append(result, w)
	}

	return result, rows.Err()
}

// DetailsByCode fetches the full detail row for an exact warehouse code.
func (r *Repository) DetailsByCode(ctx context.Context, code string) ([]Row, error) {
	query := `
		SELECT warehouse_code, warehouse_name, address_1, address_2, pin_code, google_map_link
		FROM warehouse_info
		WHERE warehouse_code = $1`

	return r.queryDetails(ctx, query, code)
}

// DetailsByNameLike fetches detail rows whose name contains the given
// fragment, case-insensitively.
func (r *Repository) DetailsByNameLike(ctx context.Context, nameFragment string) ([]Row, error) {
	query := `
		SELECT warehouse_code, warehouse_name, address_1, address_2, pin_code, google_map_link
		FROM warehouse_info
		WHERE warehouse_name ILIKE $1`

	return r.queryDetails(ctx, query, "%"+nameFragment+"%")
}

// SearchByAddress fetches rows whose address fields contain the keyword.
func (r *Repository) SearchByAddress(ctx context.Context, keyword string) ([]Row, error) {
	pattern := "%" + keyword + "%"
	query := `
		SELECT warehouse_code, warehouse_name, address_1, address_2, landmark, pin_code
		FROM warehouse_info
		WHERE address_1 ILIKE $1 OR address_2 ILIKE $2 OR landmark ILIKE $3
		ORDER BY warehouse_code`

	rows, err := r.db.Query(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search addresses: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var w Row
		if err := rows.Scan(&w.Code, &w.Name, &w.Address1, &w.Address2, &w.Landmark, &w.PinCode); err != nil {
			return nil, err
		}
		result = append(result, w)
	}

	return result, rows.Err()
}

func (r *Repository) queryDetails(ctx context.Context, query string, arg any) ([]Row, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch warehouse details: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var w Row
		if err := rows.Scan(&w.Code, &w.Name, &w.Address1, &w.Address2, &w.PinCode, &w.GoogleMapLink); err != nil {
			return nil, err
		}
		result = append(result, w)
	}

	return result, rows.Err()
}

// inClause builds a parameterized IN clause starting at the given positional
// index.
func inClause(values []string, start int) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("$%d", start+i)
		args[i] = v
	}
	return "(" + strings.Join(placeholders, ", ") + ")", args
}
