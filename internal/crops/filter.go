package crops

import (
	"errors"
	"strings"

	"github.com/devaki001/HillTech-Growers/internal/models"
)

// ErrNoSoilData is returned when no live soil reading exists. It is a
// distinct outcome from an empty match set, so callers can tell "connect the
// sensor" apart from "nothing grows here today".
var ErrNoSoilData = errors.New("no live soil sensor data")

const sqmPerAcre = 4046.86

// Recommend filters the catalog down to crops matching the live soil and
// weather conditions. Predicates are conjunctive and each applies only when
// its column exists in the catalog schema; rows come back in catalog order.
func (c *Catalog) Recommend(soil *models.SoilReading, soilType string) ([]Record, error) {
	if soil == nil {
		return nil, ErrNoSoilData
	}

	bucket := models.BucketForSoil(soil)
	wantSoilType := strings.ToLower(strings.TrimSpace(soilType))

	var matches []Record
	for _, rec := range c.Records {
		if c.Schema.HasCrop && rec.Crop == "" {
			continue
		}
		if c.Schema.HasMinTemp && !atMost(rec.MinTemp, soil.Temperature) {
			continue
		}
		if c.Schema.HasMaxTemp && !atLeast(rec.MaxTemp, soil.Temperature) {
			continue
		}
		if c.Schema.HasMinHumidity && !atMost(rec.MinHumidity, soil.Humidity) {
			continue
		}
		if c.Schema.HasMaxHumidity && !atLeast(rec.MaxHumidity, soil.Humidity) {
			continue
		}
		// Moisture membership is skipped entirely when the live bucket is
		// unknown; with a nil soil check above that only happens for
		// catalogs without the column.
		if c.Schema.HasSoilMoisture && bucket != models.MoistureUnknown &&
			!containsToken(rec.MoistureTokens, string(bucket)) {
			continue
		}
		if wantSoilType != "" && c.Schema.HasSoilType &&
			strings.ToLower(strings.TrimSpace(rec.SoilType)) != wantSoilType {
			continue
		}
		matches = append(matches, rec)
	}
	return matches, nil
}

// atMost reports v != nil && *v <= limit. A missing or unparseable cell in
// an existing column excludes the row from matching.
func atMost(v *float64, limit float64) bool {
	return v != nil && *v <= limit
}

func atLeast(v *float64, limit float64) bool {
	return v != nil && *v >= limit
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// WaterVolumeLitres converts a per-season water requirement in millimetres
// to total litres for a field. 1 mm equals 1 L/m²; 1 acre is 4046.86 m².
func WaterVolumeLitres(acres, waterMM float64) float64 {
	if acres <= 0 {
		return 0
	}
	return acres * sqmPerAcre * waterMM
}

// ProfitEstimate returns expected revenue and profit for growing a crop on
// the given acreage. Missing yield or price columns read as zero.
func ProfitEstimate(rec Record, acres, otherExpenses float64) (revenue, profit float64) {
	var yield, price float64
	if rec.YieldKgPerAcre != nil {
		yield = *rec.YieldKgPerAcre
	}
	if rec.PricePerKg != nil {
		price = *rec.PricePerKg
	}
	revenue = acres * yield * price
	profit = revenue - otherExpenses
	return revenue, profit
}
