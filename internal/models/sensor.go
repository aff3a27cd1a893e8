package models

// SoilReading holds live values from the field sensor. A nil *SoilReading is
// the "absent" sentinel: the device was unreachable and no value may be
// substituted, because a guessed moisture level would silently change
// irrigation and crop decisions.
type SoilReading struct {
	Moisture    float64 `json:"moisture"`    // %
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
}

// TankSnapshot is derived from a single ultrasonic distance reading using
// fixed cylinder geometry. It is computed on demand and never stored.
type TankSnapshot struct {
	UltrasonicCm float64 `json:"ultrasonic_cm"`
	HeightCm     float64 `json:"height_cm"`
	VolumeCm3    int     `json:"volume_cm3"`
	CapacityCm3  int     `json:"capacity_cm3"`
	Percent      int     `json:"percent"` // 0-100, gauge rounding
}

// MoistureBucket is the discretized soil-moisture category used both for
// alerting and crop matching.
type MoistureBucket string

const (
	MoistureLow     MoistureBucket = "low"
	MoistureMedium  MoistureBucket = "medium"
	MoistureHigh    MoistureBucket = "high"
	MoistureFlooded MoistureBucket = "flooded"
	MoistureUnknown MoistureBucket = "unknown"
)

// BucketForSoil maps a soil reading to its moisture bucket. A nil reading
// (sensor absent) is the only way to get MoistureUnknown.
func BucketForSoil(soil *SoilReading) MoistureBucket {
	if soil == nil {
		return MoistureUnknown
	}
	return bucketForPercent(soil.Moisture)
}

func bucketForPercent(pct float64) MoistureBucket {
	switch {
	case pct >= 90:
		return MoistureFlooded
	case pct > 70:
		return MoistureHigh
	case pct >= 40:
		return MoistureMedium
	default:
		return MoistureLow
	}
}
