package crops

import (
	"errors"
	"testing"

	"github.com/devaki001/HillTech-Growers/internal/models"
)

func TestRecommendAbsentSoil(t *testing.T) {
	catalog := writeTestCatalog(t)

	_, err := catalog.Recommend(nil, "")
	if !errors.Is(err, ErrNoSoilData) {
		t.Fatalf("err = %v, want ErrNoSoilData", err)
	}
}

func TestRecommendMatchesByMoistureBucket(t *testing.T) {
	catalog := writeTestCatalog(t)

	// 35% moisture buckets as "low": Maize (Low/Medium) should match,
	// Paddy (High/Flooded) should not.
	soil := &models.SoilReading{Moisture: 35, Temperature: 22, Humidity: 70}
	matches, err := catalog.Recommend(soil, "")
	if err != nil {
		t.Fatal(err)
	}

	if !hasCrop(matches, "Maize") {
		t.Error("Maize should match low-moisture soil")
	}
	if hasCrop(matches, "Paddy") {
		t.Error("Paddy requires high/flooded moisture")
	}
}

func TestRecommendExcludesByMoistureBucket(t *testing.T) {
	catalog := writeTestCatalog(t)

	// 80% moisture buckets as "high": Maize must drop out, Paddy comes in
	// (its humidity band 60-95 covers 70).
	soil := &models.SoilReading{Moisture: 80, Temperature: 22, Humidity: 70}
	matches, err := catalog.Recommend(soil, "")
	if err != nil {
		t.Fatal(err)
	}

	if hasCrop(matches, "Maize") {
		t.Error("Maize should not match high-moisture soil")
	}
	if !hasCrop(matches, "Paddy") {
		t.Error("Paddy should match high-moisture soil")
	}
}

func TestRecommendTemperatureBand(t *testing.T) {
	catalog := writeTestCatalog(t)

	// 5°C is below every crop's minimum.
	soil := &models.SoilReading{Moisture: 50, Temperature: 5, Humidity: 70}
	matches, err := catalog.Recommend(soil, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %v, want none at 5°C", cropNames(matches))
	}
}

func TestRecommendSoilTypeFilter(t *testing.T) {
	catalog := writeTestCatalog(t)

	soil := &models.SoilReading{Moisture: 50, Temperature: 22, Humidity: 70}

	matches, err := catalog.Recommend(soil, "loamy")
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range matches {
		if rec.SoilType != "Loamy" {
			t.Errorf("soil type filter leaked %q", rec.SoilType)
		}
	}

	// Unknown soil type matches nothing.
	matches, _ = catalog.Recommend(soil, "volcanic")
	if len(matches) != 0 {
		t.Errorf("matches = %v, want none for volcanic", cropNames(matches))
	}
}

func TestRecommendSkipsRowsWithUnparseableCells(t *testing.T) {
	catalog := writeTestCatalog(t)

	// Ginger's Min Humidity cell is "na": the humidity predicate exists in
	// the schema, so the row cannot match it.
	soil := &models.SoilReading{Moisture: 35, Temperature: 20, Humidity: 70}
	matches, err := catalog.Recommend(soil, "")
	if err != nil {
		t.Fatal(err)
	}
	if hasCrop(matches, "Ginger") {
		t.Error("row with unparseable humidity must not match the humidity predicate")
	}
}

func TestRecommendDropsUnnamedRows(t *testing.T) {
	catalog := writeTestCatalog(t)

	soil := &models.SoilReading{Moisture: 50, Temperature: 22, Humidity: 70}
	matches, err := catalog.Recommend(soil, "")
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range matches {
		if rec.Crop == "" {
			t.Error("row without a crop name must be excluded")
		}
	}
}

func TestRecommendPreservesCatalogOrder(t *testing.T) {
	catalog := writeTestCatalog(t)

	soil := &models.SoilReading{Moisture: 50, Temperature: 22, Humidity: 70}
	matches, err := catalog.Recommend(soil, "")
	if err != nil {
		t.Fatal(err)
	}

	var last int = -1
	for _, rec := range matches {
		pos := rowIndex(catalog, rec.Crop)
		if pos < last {
			t.Fatalf("matches out of catalog order: %v", cropNames(matches))
		}
		last = pos
	}
}

func TestWaterVolumeLitres(t *testing.T) {
	if got := WaterVolumeLitres(2, 500); got != 2*4046.86*500 {
		t.Errorf("WaterVolumeLitres = %v", got)
	}
	if got := WaterVolumeLitres(0, 500); got != 0 {
		t.Errorf("zero acres should need zero litres, got %v", got)
	}
	if got := WaterVolumeLitres(-1, 500); got != 0 {
		t.Errorf("negative acres should need zero litres, got %v", got)
	}
}

func TestProfitEstimate(t *testing.T) {
	catalog := writeTestCatalog(t)

	rec, _ := catalog.Find("Maize")
	revenue, profit := ProfitEstimate(rec, 2, 5000)
	if revenue != 2*1800*22 {
		t.Errorf("revenue = %v", revenue)
	}
	if profit != revenue-5000 {
		t.Errorf("profit = %v", profit)
	}

	// Missing yield/price columns read as zero rather than failing.
	revenue, profit = ProfitEstimate(Record{}, 2, 100)
	if revenue != 0 || profit != -100 {
		t.Errorf("empty record: revenue=%v profit=%v", revenue, profit)
	}
}

func hasCrop(recs []Record, name string) bool {
	for _, r := range recs {
		if r.Crop == name {
			return true
		}
	}
	return false
}

func cropNames(recs []Record) []string {
	var names []string
	for _, r := range recs {
		names = append(names, r.Crop)
	}
	return names
}

func rowIndex(c *Catalog, name string) int {
	for i, r := range c.Records {
		if r.Crop == name {
			return i
		}
	}
	return -1
}
