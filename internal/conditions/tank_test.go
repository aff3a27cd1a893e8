package conditions

import (
	"math"
	"testing"
)

const (
	testHeightCm = 9.5
	testRadiusCm = 4.85
)

func TestComputeTankPercentBounds(t *testing.T) {
	for _, ultrasonic := range []float64{0, 0.5, 1, 3.3, 4.75, 9.4, 9.5, 12, 100} {
		snap := ComputeTank(ultrasonic, testHeightCm, testRadiusCm)
		if snap.Percent < 0 || snap.Percent > 100 {
			t.Errorf("ultrasonic=%v: percent %d out of [0,100]", ultrasonic, snap.Percent)
		}
		if snap.HeightCm < 0 || snap.HeightCm > testHeightCm {
			t.Errorf("ultrasonic=%v: height %v out of [0,%v]", ultrasonic, snap.HeightCm, testHeightCm)
		}
	}
}

func TestComputeTankFullWhenDistanceZero(t *testing.T) {
	snap := ComputeTank(0, testHeightCm, testRadiusCm)
	if snap.Percent != 100 {
		t.Errorf("expected 100%% at zero distance, got %d", snap.Percent)
	}
	if snap.VolumeCm3 != snap.CapacityCm3 {
		t.Errorf("full tank volume %d != capacity %d", snap.VolumeCm3, snap.CapacityCm3)
	}
}

func TestComputeTankClampsOverrange(t *testing.T) {
	// Device reads emptier than physically possible: clamp to empty, never
	// negative.
	for _, ultrasonic := range []float64{testHeightCm, testHeightCm + 0.1, 50} {
		snap := ComputeTank(ultrasonic, testHeightCm, testRadiusCm)
		if snap.HeightCm != 0 {
			t.Errorf("ultrasonic=%v: expected height 0, got %v", ultrasonic, snap.HeightCm)
		}
		if snap.Percent != 0 {
			t.Errorf("ultrasonic=%v: expected percent 0, got %d", ultrasonic, snap.Percent)
		}
		if snap.VolumeCm3 != 0 {
			t.Errorf("ultrasonic=%v: expected volume 0, got %d", ultrasonic, snap.VolumeCm3)
		}
	}
}

func TestComputeTankGeometry(t *testing.T) {
	snap := ComputeTank(4.75, testHeightCm, testRadiusCm)

	wantHeight := 4.75
	if snap.HeightCm != wantHeight {
		t.Fatalf("height = %v, want %v", snap.HeightCm, wantHeight)
	}
	if snap.Percent != 50 {
		t.Errorf("percent = %d, want 50", snap.Percent)
	}

	wantVolume := int(math.Round(math.Pi * testRadiusCm * testRadiusCm * wantHeight))
	if snap.VolumeCm3 != wantVolume {
		t.Errorf("volume = %d, want %d", snap.VolumeCm3, wantVolume)
	}
	wantCapacity := int(math.Round(math.Pi * testRadiusCm * testRadiusCm * testHeightCm))
	if snap.CapacityCm3 != wantCapacity {
		t.Errorf("capacity = %d, want %d", snap.CapacityCm3, wantCapacity)
	}
}
