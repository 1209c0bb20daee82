package reference

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// defaultRegionTable maps city names to their region. It ships with the
// binary and documents the known universe; a CSV override file can extend or
// correct it at startup.
var defaultRegionTable = map[string]string{
	// NORTH
	"ALWAR": "NORTH", "AMBALA": "NORTH", "BAHADURGARH": "NORTH",
	"BAMNOLI": "NORTH", "BAREILLY": "NORTH", "BAWAL": "NORTH",
	"CHARKHI DADRI": "NORTH", "DHARUHERA": "NORTH", "FARIDABAD": "NORTH",
	"FAROOQNAGAR": "NORTH", "GHAZIABAD": "NORTH", "GREATER NOIDA": "NORTH",
	"GURGAON": "NORTH", "GURUGRAM": "NORTH", "HAPUR": "NORTH",
	"HARIDWAR": "NORTH", "JAIPUR": "NORTH", "JHAJJAR": "NORTH",
	"KARNAL": "NORTH", "LUCKNOW": "NORTH", "MANESAR": "NORTH",
	"MERTA CITY": "NORTH", "MOHALI": "NORTH", "PATAUDI": "NORTH",
	"RAJPURA": "NORTH", "REWARI": "NORTH", "SHRI GANGA NAGAR": "NORTH",
	"SONIPAT": "NORTH", "UDAIPURI": "NORTH",

	// EAST
	"ASANSOL": "EAST", "BHUBANESWAR": "EAST", "GUWAHATI": "EAST",
	"KOLKATA": "EAST", "PATNA": "EAST", "RANCHI": "EAST",

	// WEST
	"AHMEDABAD": "WEST", "BHIWANDI": "WEST", "INDORE": "WEST",
	"KOHLAPUR": "WEST", "RAJKOT": "WEST", "SURAT": "WEST",

	// SOUTH
	"BANGALORE": "SOUTH", "CHENNAI": "SOUTH", "COIMBATORE": "SOUTH",
	"HYDERABAD": "SOUTH", "MADURAI": "SOUTH", "TIRUPATI": "SOUTH",
	"TRICHY": "SOUTH",
}

// RegionUnknown is returned for cities with no region mapping.
const RegionUnknown = "REGION_UNKNOWN"

// RegionMap resolves cities to regions. Built once at startup, read-only
// afterward.
type RegionMap struct {
	cityToRegion map[string]string
}

type regionOverrideRow struct {
	City   string `csv:"city"`
	Region string `csv:"region"`
}

// LoadRegionMap builds the map from the built-in table, merged with an
// optional CSV override file of city,region rows. Override entries win. A
// missing or malformed file is logged and never fatal.
func LoadRegionMap(overridePath string, logger *slog.Logger) *RegionMap {
	m := make(map[string]string, len(defaultRegionTable))
	for city, region := range defaultRegionTable {
		m[city] = region
	}

	if overridePath != "" {
		if err := mergeOverrideFile(m, overridePath); err != nil {
			logger.Warn("region map override not loaded, using defaults", "path", overridePath, "error", err)
		} else {
			logger.Info("merged region map override", "path", overridePath)
		}
	}

	return &RegionMap{cityToRegion: m}
}

func mergeOverrideFile(m map[string]string, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var rows []regionOverrideRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return fmt.Errorf("failed to parse region map CSV: %w", err)
	}

	for _, row := range rows {
		city := strings.ToUpper(strings.TrimSpace(row.City))
		region := strings.ToUpper(strings.TrimSpace(row.Region))
		if city == "" || region == "" {
			continue
		}
		m[city] = region
	}
	return nil
}

// RegionFor returns the region of a city, or RegionUnknown.
func (rm *RegionMap) RegionFor(city string) string {
	if city == "" {
		return RegionUnknown
	}
	if region, ok := rm.cityToRegion[strings.ToUpper(strings.TrimSpace(city))]; ok {
		return region
	}
	return RegionUnknown
}

// Regions returns the set of distinct region names.
func (rm *RegionMap) Regions() map[string]struct{} {
	regions := make(map[string]struct{})
	for _, region := range rm.cityToRegion {
		regions[region] = struct{}{}
	}
	return regions
}

// CitiesIn returns every mapped city belonging to a region.
func (rm *RegionMap) CitiesIn(region string) []string {
	normalized := strings.ToUpper(strings.TrimSpace(region))
	var cities []string
	for city, r := range rm.cityToRegion {
		if r == normalized {
			cities = append(cities, city)
		}
	}
	return cities
}
