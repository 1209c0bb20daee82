// Package reference indexes the finite universe of valid regions, cities and
// warehouse codes. The Snapshot is built once at startup and read-only
// afterward; components receive it by injection rather than through a global.
package reference

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// CodeLister provides the warehouse codes the snapshot is built from.
type CodeLister interface {
	ListWarehouseCodes(ctx context.Context) ([]string, error)
}

// Snapshot is the immutable reference index. Every key of warehouseToCity is
// a member of warehouses and every value a member of cities.
type Snapshot struct {
	regions         map[string]struct{}
	cities          map[string]struct{}
	warehouses      map[string]struct{}
	warehouseToCity map[string]string
	regionMap       *RegionMap
}

// ExtractCity derives the city from a warehouse code by splitting on the
// last hyphen, so multi-word cities like "CHARKHI DADRI-65" survive. A code
// without a hyphen is its own city.
func ExtractCity(code string) string {
	code = strings.TrimSpace(code)
	idx := strings.LastIndex(code, "-")
	if idx < 0 {
		return strings.ToUpper(code)
	}
	return strings.ToUpper(strings.TrimSpace(code[:idx]))
}

// Load builds the snapshot from master data and the region map. It fails when
// the store is unreachable or returns zero warehouses; cities without a
// region mapping are logged, never fatal.
func Load(ctx context.Context, repo CodeLister, regionMap *RegionMap, logger *slog.Logger) (*Snapshot, error) {
	codes, err := repo.ListWarehouseCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("failed to load reference data: no warehouses in master data")
	}

	s := &Snapshot{
		regions:         regionMap.Regions(),
		cities:          make(map[string]struct{}),
		warehouses:      make(map[string]struct{}, len(codes)),
		warehouseToCity: make(map[string]string, len(codes)),
		regionMap:       regionMap,
	}

	for _, raw := range codes {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" {
			continue
		}
		if !strings.Contains(code, "-") {
			logger.Warn("warehouse code missing hyphen", "code", code)
		}

		city := ExtractCity(code)
		s.warehouses[code] = struct{}{}
		s.cities[city] = struct{}{}
		s.warehouseToCity[code] = city
	}

	var unmapped []string
	for city := range s.cities {
		if regionMap.RegionFor(city) == RegionUnknown {
			unmapped = append(unmapped, city)
		}
	}
	if len(unmapped) > 0 {
		sort.Strings(unmapped)
		logger.Warn("cities without region mapping", "count", len(unmapped), "cities", unmapped)
	}

	logger.Info("reference snapshot loaded",
		"regions", len(s.regions), "cities", len(s.cities), "warehouses", len(s.warehouses))

	return s, nil
}

// ValidateRegion reports whether value is a known region (case-insensitive).
func (s *Snapshot) ValidateRegion(value string) bool {
	_, ok := s.regions[normalize(value)]
	return ok
}

// ValidateCity reports whether value is a known city (case-insensitive).
func (s *Snapshot) ValidateCity(value string) bool {
	_, ok := s.cities[normalize(value)]
	return ok
}

// ValidateWarehouse reports whether value is a known warehouse code
// (case-insensitive).
func (s *Snapshot) ValidateWarehouse(value string) bool {
	_, ok := s.warehouses[normalize(value)]
	return ok
}

// CityForWarehouse returns the city of a warehouse code, or "" when unknown.
func (s *Snapshot) CityForWarehouse(code string) string {
	return s.warehouseToCity[normalize(code)]
}

// RegionForCity resolves a city to its region, or RegionUnknown.
func (s *Snapshot) RegionForCity(city string) string {
	return s.regionMap.RegionFor(city)
}

// WarehousesInCity returns every warehouse code located in the given city.
func (s *Snapshot) WarehousesInCity(city string) []string {
	target := normalize(city)
	var codes []string
	for code, c := range s.warehouseToCity {
		if c == target {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// Regions returns the sorted list of known regions.
func (s *Snapshot) Regions() []string {
	return sortedKeys(s.regions)
}

// Cities returns the sorted list of known cities.
func (s *Snapshot) Cities() []string {
	return sortedKeys(s.cities)
}

// Warehouses returns the sorted list of known warehouse codes.
func (s *Snapshot) Warehouses() []string {
	return sortedKeys(s.warehouses)
}

// Report renders a human-readable summary for the interactive `report` verb.
func (s *Snapshot) Report() string {
	var b strings.Builder
	line := strings.Repeat("=", 70)

	fmt.Fprintf(&b, "%s\n  REFERENCE DATA REPORT\n%s\n", line, line)
	fmt.Fprintf(&b, "Regions: %d\nCities: %d\nWarehouses: %d\n", len(s.regions), len(s.cities), len(s.warehouses))

	b.WriteString("\nRegions:\n")
	for _, region := range s.Regions() {
		fmt.Fprintf(&b, "  - %s\n", region)
	}

	b.WriteString("\nSample cities (first 10):\n")
	for _, city := range firstN(s.Cities(), 10) {
		fmt.Fprintf(&b, "  - %s\n", city)
	}

	b.WriteString("\nSample warehouses (first 10):\n")
	for _, code := range firstN(s.Warehouses(), 10) {
		fmt.Fprintf(&b, "  - %s (%s)\n", code, s.warehouseToCity[code])
	}

	b.WriteString(line + "\n")
	return b.String()
}

func normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstN(values []string, n int) []string {
	if len(values) < n {
		return values
	}
	return values[:n]
}
