// Package expenses executes validated filter commands: expense aggregation,
// warehouse listings, detail lookups and address search. Results are
// human-readable strings; recoverable conditions carry a leading sentinel
// token so the caller can route them without string-sniffing error types.
package expenses

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/FACorreiaa/warehouse-assistant/internal/domain/reference"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/refiner"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/warehouse"
)

// Sentinel prefixes for recoverable outcomes.
const (
	SentinelError = "ERROR:"
	SentinelInfo  = "INFO:"
)

// Service runs the tools over the two stores. Aggregations are recomputed
// per call; the master set is small enough that a full scan per query beats
// maintaining an incremental index.
type Service struct {
	snapshot   *reference.Snapshot
	warehouses *warehouse.Repository
	invoices   *Repository
	logger     *slog.Logger
}

// NewService creates the tool executor.
func NewService(snapshot *reference.Snapshot, warehouses *warehouse.Repository, invoices *Repository, logger *slog.Logger) *Service {
	return &Service{
		snapshot:   snapshot,
		warehouses: warehouses,
		invoices:   invoices,
		logger:     logger,
	}
}

// Execute routes a refined command to its tool.
func (s *Service) Execute(ctx context.Context, cmd *refiner.Command) string {
	if cmd == nil || len(cmd.FilterValues) == 0 {
		return SentinelError + " empty command."
	}

	switch cmd.ToolName {
	case refiner.ToolCalculateExpenses:
		return s.CalculateExpenses(ctx, cmd.FilterType, cmd.FilterValues)
	case refiner.ToolListWarehouses:
		return s.ListWarehousesByLocation(ctx, cmd.FilterType, cmd.FilterValues)
	case refiner.ToolWarehouseDetails:
		return s.GetWarehouseDetails(ctx, cmd.FilterValues[0])
	case refiner.ToolFindByAddress:
		return s.FindWarehouseByAddress(ctx, cmd.FilterValues[0])
	default:
		return fmt.Sprintf("%s unknown tool %q.", SentinelError, cmd.ToolName)
	}
}

// CalculateExpenses sums invoice totals over warehouses matching any of the
// filter values. A warehouse matching several values is counted once.
func (s *Service) CalculateExpenses(ctx context.Context, filterType string, filterValues []string) string {
	filterType = strings.ToUpper(strings.TrimSpace(filterType))
	values := normalizeValues(filterValues)

	s.logger.Info("calculating expenses", "filter_type", filterType, "filter_values", values)

	if filterType != refiner.FilterRegion && filterType != refiner.FilterCity && filterType != refiner.FilterWarehouse {
		return SentinelError + " invalid filter_type. Must be 'REGION', 'CITY', or 'WAREHOUSE'."
	}

	idCodes, err := s.warehouses.ListIDCodes(ctx)
	if err != nil {
		return fmt.Sprintf("%s failed to retrieve warehouse data: %v", SentinelError, err)
	}
	if len(idCodes) == 0 {
		return SentinelError + " no warehouse data found in master store."
	}

	matchedIDs := s.matchWarehouseIDs(idCodes, filterType, values)
	if len(matchedIDs) == 0 {
		s.logger.Warn("no warehouses matched filter", "filter_type", filterType, "filter_values", values)
		return fmt.Sprintf("%s No warehouses found matching %s for '%s'. Please verify the filter values are correct.",
			SentinelInfo, filterType, strings.Join(values, ", "))
	}

	// Identifiers come from the trusted master store; the numeric check is a
	// structural invariant before they reach the invoice query.
	if bad, ok := allNumeric(matchedIDs); !ok {
		s.logger.Error("non-numeric warehouse identifier", "id", bad)
		return SentinelError + " invalid warehouse identifiers detected. Query aborted."
	}

	total, err := s.invoices.SumForWarehouseIDs(ctx, matchedIDs)
	if err != nil {
		return fmt.Sprintf("%s failed to calculate expenses: %v", SentinelError, err)
	}

	return fmt.Sprintf("Total expenses (including GST) for %s '%s':\nWarehouses matched: %d\nTotal: %s",
		filterType, strings.Join(values, ", "), len(matchedIDs), total.String())
}

// ListWarehousesByLocation lists warehouses in the given cities or regions.
func (s *Service) ListWarehousesByLocation(ctx context.Context, filterType string, filterValues []string) string {
	filterType = strings.ToUpper(strings.TrimSpace(filterType))
	values := normalizeValues(filterValues)

	s.logger.Info("listing warehouses", "filter_type", filterType, "filter_values", values)

	if filterType != refiner.FilterCity && filterType != refiner.FilterRegion {
		return SentinelError + " invalid filter_type. Must be 'CITY' or 'REGION'."
	}

	matched := make(map[string]struct{})
	for _, code := range s.snapshot.Warehouses() {
		city := s.snapshot.CityForWarehouse(code)
		if city == "" {
			continue
		}
		for _, value := range values {
			if filterType == refiner.FilterCity && city == value {
				matched[code] = struct{}{}
				break
			}
			if filterType == refiner.FilterRegion && s.snapshot.RegionForCity(city) == value {
				matched[code] = struct{}{}
				break
			}
		}
	}

	if len(matched) == 0 {
		return fmt.Sprintf("%s No warehouses found for %s in %s.", SentinelInfo, filterType, strings.Join(values, ", "))
	}

	codes := make([]string, 0, len(matched))
	for code := range matched {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows, err := s.warehouses.ListByCodes(ctx, codes)
	if err != nil {
		return fmt.Sprintf("%s failed to list warehouses: %v", SentinelError, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d warehouses for %s in %s:\n", len(codes), filterType, strings.Join(values, ", "))
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s | %s | %s | %s\n", row.Code, row.Name, row.Address1, row.PinCode)
	}
	return strings.TrimRight(b.String(), "\n")
}

// GetWarehouseDetails returns address and pin code for a warehouse code, or
// falls back to a name-contains search when the identifier is not a
// recognized code.
func (s *Service) GetWarehouseDetails(ctx context.Context, identifier string) string {
	identifier = strings.TrimSpace(identifier)
	s.logger.Info("fetching warehouse details", "identifier", identifier)

	var (
		rows []warehouse.Row
		err  error
	)
	if s.snapshot.ValidateWarehouse(identifier) {
		rows, err = s.warehouses.DetailsByCode(ctx, strings.ToUpper(identifier))
	} else {
		rows, err = s.warehouses.DetailsByNameLike(ctx, identifier)
	}
	if err != nil {
		return fmt.Sprintf("%s failed to fetch details: %v", SentinelError, err)
	}
	if len(rows) == 0 {
		return fmt.Sprintf("%s No warehouse found for '%s'.", SentinelInfo, identifier)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Details for warehouse '%s':\n", identifier)
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s | %s\n  Address: %s %s\n  Pin code: %s\n  Map: %s\n",
			row.Code, row.Name, row.Address1, row.Address2, row.PinCode, row.GoogleMapLink)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FindWarehouseByAddress searches address fields for a keyword.
func (s *Service) FindWarehouseByAddress(ctx context.Context, keyword string) string {
	keyword = strings.TrimSpace(keyword)
	s.logger.Info("searching warehouses by address", "keyword", keyword)

	rows, err := s.warehouses.SearchByAddress(ctx, keyword)
	if err != nil {
		return fmt.Sprintf("%s address search failed: %v", SentinelError, err)
	}
	if len(rows) == 0 {
		return fmt.Sprintf("%s No warehouses matched address keyword '%s'.", SentinelInfo, keyword)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for address keyword '%s':\n", keyword)
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s | %s | %s %s | %s | %s\n",
			row.Code, row.Name, row.Address1, row.Address2, row.Landmark, row.PinCode)
	}
	return strings.TrimRight(b.String(), "\n")
}

// matchWarehouseIDs applies the filter with set semantics: each warehouse is
// included at most once, via short-circuit break on its first matching
// value. Result order is deterministic.
func (s *Service) matchWarehouseIDs(idCodes []warehouse.IDCode, filterType string, values []string) []string {
	matched := make(map[string]struct{})

	for _, wc := range idCodes {
		code := strings.ToUpper(strings.TrimSpace(wc.Code))
		city := reference.ExtractCity(code)

		for _, value := range values {
			var isMatch bool
			switch filterType {
			case refiner.FilterWarehouse:
				isMatch = code == value
			case refiner.FilterCity:
				isMatch = city == value
			case refiner.FilterRegion:
				isMatch = s.snapshot.RegionForCity(city) == value
			}
			if isMatch {
				matched[wc.ID] = struct{}{}
				break
			}
		}
	}

	ids := make([]string, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func normalizeValues(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		normalized = append(normalized, strings.ToUpper(strings.TrimSpace(v)))
	}
	return normalized
}

// allNumeric returns the first offending identifier and false when any id is
// not purely digits.
func allNumeric(ids []string) (string, bool) {
	for _, id := range ids {
		if id == "" {
			return id, false
		}
		for _, r := range id {
			if r < '0' || r > '9' {
				return id, false
			}
		}
	}
	return "", true
}

// IsInfo reports whether a tool result is the informational no-match
// outcome.
func IsInfo(result string) bool {
	return strings.HasPrefix(result, SentinelInfo)
}

// IsError reports whether a tool result is a recoverable error outcome.
func IsError(result string) bool {
	return strings.HasPrefix(result, SentinelError)
}
