package crops

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

var ErrCropNotFound = errors.New("crop not found in catalog")

// Column names as they appear in the catalog CSV, after header
// normalization. The temperature and humidity headers are inconsistent in
// the source data, so lookups go through variant lists.
var (
	colCrop         = "Crop"
	colSoilType     = "Soil Type"
	colSoilMoisture = "Soil Moisture"
	minTempCols     = []string{"Min Temp", "Min temp"}
	maxTempCols     = []string{"Max temp", "Max Temp"}
	minHumidityCols = []string{"Min Humidity"}
	maxHumidityCols = []string{"Max Humidity"}
	totalWaterCols  = []string{"Total Water ( mm )", "Total Water (mm)", "Total Water"}
	yieldCols       = []string{"Yield(Kg)", "Yield (Kg)", "Yield", "Yield_per_acre"}
	priceCols       = []string{"Price", "Prize(Summer)", "Prize", "Price (₹/kg)"}
)

// Record is one row of the crop catalog. Numeric fields are pre-coerced at
// load; a nil pointer means the cell was empty or unparseable, and any
// predicate over it treats the row as non-matching.
type Record struct {
	Crop           string   `json:"crop"`
	SoilType       string   `json:"soil_type"`
	MoistureTokens []string `json:"soil_moisture"`

	MinTemp        *float64 `json:"min_temp,omitempty"`
	MaxTemp        *float64 `json:"max_temp,omitempty"`
	MinHumidity    *float64 `json:"min_humidity,omitempty"`
	MaxHumidity    *float64 `json:"max_humidity,omitempty"`
	TotalWaterMM   *float64 `json:"total_water_mm,omitempty"`
	YieldKgPerAcre *float64 `json:"yield_kg_per_acre,omitempty"`
	PricePerKg     *float64 `json:"price_per_kg,omitempty"`

	// Raw preserves every cell keyed by normalized header, for the crop
	// detail page.
	Raw map[string]string `json:"raw,omitempty"`
}

// Schema is the catalog's optional-field capability set, resolved once at
// load time. A predicate is applied only when its column exists.
type Schema struct {
	HasCrop         bool
	HasSoilType     bool
	HasSoilMoisture bool
	HasMinTemp      bool
	HasMaxTemp      bool
	HasMinHumidity  bool
	HasMaxHumidity  bool
}

// Catalog is the static reference table of crop growth requirements, loaded
// once at process start and read-only afterwards.
type Catalog struct {
	Schema  Schema
	Records []Record
}

// LoadCatalog reads the crop catalog CSV. The source file is Windows-1252
// encoded; headers are trimmed and non-breaking spaces collapsed before
// column resolution.
func LoadCatalog(path string, logger *zap.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(charmap.Windows1252.NewDecoder().Reader(f))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("catalog is empty")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = normalizeHeader(h)
	}

	catalog := &Catalog{}
	index := func(variants ...string) int {
		for _, want := range variants {
			for i, h := range headers {
				if h == want {
					return i
				}
			}
		}
		return -1
	}

	iCrop := index(colCrop)
	iSoilType := index(colSoilType)
	iMoisture := index(colSoilMoisture)
	iMinTemp := index(minTempCols...)
	iMaxTemp := index(maxTempCols...)
	iMinHum := index(minHumidityCols...)
	iMaxHum := index(maxHumidityCols...)
	iWater := index(totalWaterCols...)
	iYield := index(yieldCols...)
	iPrice := index(priceCols...)

	catalog.Schema = Schema{
		HasCrop:         iCrop >= 0,
		HasSoilType:     iSoilType >= 0,
		HasSoilMoisture: iMoisture >= 0,
		HasMinTemp:      iMinTemp >= 0,
		HasMaxTemp:      iMaxTemp >= 0,
		HasMinHumidity:  iMinHum >= 0,
		HasMaxHumidity:  iMaxHum >= 0,
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, row := range rows[1:] {
		rec := Record{
			Crop:           cell(row, iCrop),
			SoilType:       cell(row, iSoilType),
			MoistureTokens: tokenizeCategories(cell(row, iMoisture)),
			MinTemp:        parseNumber(cell(row, iMinTemp)),
			MaxTemp:        parseNumber(cell(row, iMaxTemp)),
			MinHumidity:    parseNumber(cell(row, iMinHum)),
			MaxHumidity:    parseNumber(cell(row, iMaxHum)),
			TotalWaterMM:   parseNumber(cell(row, iWater)),
			YieldKgPerAcre: parseNumber(cell(row, iYield)),
			PricePerKg:     parseNumber(cell(row, iPrice)),
			Raw:            make(map[string]string, len(headers)),
		}
		for i, h := range headers {
			if i < len(row) {
				rec.Raw[h] = strings.TrimSpace(row[i])
			}
		}
		catalog.Records = append(catalog.Records, rec)
	}

	logger.Info("Crop catalog loaded",
		zap.String("path", path),
		zap.Int("rows", len(catalog.Records)),
		zap.Bool("has_moisture_column", catalog.Schema.HasSoilMoisture))
	return catalog, nil
}

// Find returns the first record whose crop name matches, case-insensitively.
func (c *Catalog) Find(name string) (Record, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, rec := range c.Records {
		if strings.ToLower(strings.TrimSpace(rec.Crop)) == want {
			return rec, nil
		}
	}
	return Record{}, ErrCropNotFound
}

// Names returns the distinct crop names in catalog order.
func (c *Catalog) Names() []string {
	seen := make(map[string]struct{}, len(c.Records))
	var names []string
	for _, rec := range c.Records {
		if rec.Crop == "" {
			continue
		}
		if _, ok := seen[rec.Crop]; ok {
			continue
		}
		seen[rec.Crop] = struct{}{}
		names = append(names, rec.Crop)
	}
	return names
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, " ", " ")
	return strings.TrimSpace(h)
}

var rangePattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*[-–]\s*(-?\d+(?:\.\d+)?)\s*$`)

// parseNumber coerces a catalog cell to a float. Cells holding an "a-b"
// range collapse to the range midpoint; anything unparseable reads as
// missing.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if m := rangePattern.FindStringSubmatch(s); m != nil {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA == nil && errB == nil {
			mid := (a + b) / 2
			return &mid
		}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

var categorySeparators = regexp.MustCompile(`[/,;|\-]+`)

// tokenizeCategories splits a categorical cell like "Low / Medium" into
// lowercase tokens.
func tokenizeCategories(cell string) []string {
	var tokens []string
	for _, part := range categorySeparators.Split(cell, -1) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
