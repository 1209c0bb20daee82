package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLister struct {
	codes []string
	err   error
}

func (l *staticLister) ListWarehouseCodes(_ context.Context) ([]string, error) {
	return l.codes, l.err
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func loadTestSnapshot(t *testing.T, codes ...string) *Snapshot {
	t.Helper()
	s, err := Load(context.Background(), &staticLister{codes: codes}, LoadRegionMap("", testLogger()), testLogger())
	require.NoError(t, err)
	return s
}

func TestExtractCity(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"DELHI-1", "DELHI"},
		{"GREATER NOIDA-62", "GREATER NOIDA"},
		{"CHARKHI DADRI-65", "CHARKHI DADRI"},
		{"  chennai-16  ", "CHENNAI"},
		{"NOHYPHEN", "NOHYPHEN"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCity(tt.code))
		})
	}
}

// City extraction must invert code formation under the last-hyphen rule for
// any city without a hyphen, including multi-word ones.
func TestExtractCity_InvertsCodeFormation(t *testing.T) {
	gofakeit.Seed(11)

	cities := []string{"CHARKHI DADRI", "GREATER NOIDA", "KOLKATA", "SHRI GANGA NAGAR"}
	for i := 0; i < 20; i++ {
		cities = append(cities, strings.ToUpper(gofakeit.City()))
	}

	for _, city := range cities {
		if strings.Contains(city, "-") {
			continue
		}
		n := gofakeit.Number(1, 99)
		code := fmt.Sprintf("%s-%d", city, n)
		assert.Equal(t, strings.ToUpper(city), ExtractCity(code), "code %q", code)
	}
}

func TestLoad_BuildsSets(t *testing.T) {
	s := loadTestSnapshot(t, "GURGAON-9", "greater noida-62 ", "KOLKATA-74", "KOLKATA-73")

	assert.True(t, s.ValidateWarehouse("GREATER NOIDA-62"))
	assert.True(t, s.ValidateCity("KOLKATA"))
	assert.True(t, s.ValidateRegion("NORTH"))
	assert.Equal(t, "GREATER NOIDA", s.CityForWarehouse("greater noida-62"))
	assert.Equal(t, []string{"KOLKATA-73", "KOLKATA-74"}, s.WarehousesInCity("kolkata"))
}

func TestLoad_FailsOnEmptyMasterData(t *testing.T) {
	_, err := Load(context.Background(), &staticLister{}, LoadRegionMap("", testLogger()), testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no warehouses")
}

func TestLoad_FailsOnStoreError(t *testing.T) {
	lister := &staticLister{err: fmt.Errorf("connection refused")}
	_, err := Load(context.Background(), lister, LoadRegionMap("", testLogger()), testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidate_CaseInsensitive(t *testing.T) {
	s := loadTestSnapshot(t, "CHENNAI-16", "JAIPUR-58")

	// Every value present in the snapshot validates regardless of case.
	for _, region := range s.Regions() {
		assert.True(t, s.ValidateRegion(strings.ToLower(region)))
	}
	for _, city := range s.Cities() {
		assert.True(t, s.ValidateCity(strings.ToLower(city)))
	}
	for _, code := range s.Warehouses() {
		assert.True(t, s.ValidateWarehouse(strings.ToLower(code)))
	}

	assert.False(t, s.ValidateCity("ATLANTIS"))
	assert.False(t, s.ValidateWarehouse("CHENNAI-99"))
	assert.False(t, s.ValidateRegion("CENTRAL"))
}

func TestRegionForCity(t *testing.T) {
	s := loadTestSnapshot(t, "CHENNAI-16", "KOLKATA-74")

	assert.Equal(t, "SOUTH", s.RegionForCity("chennai"))
	assert.Equal(t, "EAST", s.RegionForCity("KOLKATA"))
	assert.Equal(t, RegionUnknown, s.RegionForCity("ATLANTIS"))
}

func TestReport(t *testing.T) {
	s := loadTestSnapshot(t, "CHENNAI-16", "JAIPUR-58")

	report := s.Report()
	assert.Contains(t, report, "REFERENCE DATA REPORT")
	assert.Contains(t, report, "Warehouses: 2")
	assert.Contains(t, report, "CHENNAI-16 (CHENNAI)")
}
