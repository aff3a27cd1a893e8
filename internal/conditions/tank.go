package conditions

import (
	"math"

	"github.com/devaki001/HillTech-Growers/internal/models"
)

// ComputeTank converts a raw ultrasonic distance reading into a tank
// snapshot using fixed cylinder geometry. heightCm is the internal height of
// the tank, radiusCm its radius.
//
// The distance is measured from the sensor down to the water surface, so
// water height is heightCm - ultrasonicCm, clamped to [0, heightCm]. A
// device reading "emptier than possible" yields an empty tank, never a
// negative height.
func ComputeTank(ultrasonicCm, heightCm, radiusCm float64) models.TankSnapshot {
	h := heightCm - ultrasonicCm
	if h < 0 {
		h = 0
	}
	if h > heightCm {
		h = heightCm
	}

	baseArea := math.Pi * radiusCm * radiusCm // cm²
	volume := baseArea * h
	capacity := baseArea * heightCm
	percent := h / heightCm * 100

	return models.TankSnapshot{
		UltrasonicCm: math.Round(ultrasonicCm*100) / 100,
		HeightCm:     math.Round(h*100) / 100,
		VolumeCm3:    int(math.Round(volume)),
		CapacityCm3:  int(math.Round(capacity)),
		Percent:      int(math.Round(percent)),
	}
}
