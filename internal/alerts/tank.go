package alerts

import (
	"fmt"
	"time"

	"github.com/devaki001/HillTech-Growers/internal/models"
)

type tankRule struct {
	when  func(percent int) bool
	build func(tank models.TankSnapshot, ts time.Time) *models.Alert
}

// The ordered tank decision list. A full tank outranks a low one, and the
// final catch-all means this tree always has something to say once a live
// reading exists.
var tankRules = []tankRule{
	{
		when: func(p int) bool { return p >= 90 },
		build: func(tank models.TankSnapshot, ts time.Time) *models.Alert {
			a := tankStatusAlert(tank, ts)
			a.Title = "Water Tank Full"
			a.Severity = models.SeverityHigh
			a.Recommendation = "Turn off supply; check for leaks."
			return a
		},
	},
	{
		when: func(p int) bool { return p <= 20 },
		build: func(tank models.TankSnapshot, ts time.Time) *models.Alert {
			a := tankStatusAlert(tank, ts)
			a.Title = "Water Tank Low"
			a.Severity = models.SeverityHigh
			a.Recommendation = "Refill immediately."
			return a
		},
	},
	{
		when: func(p int) bool { return p <= 40 },
		build: func(tank models.TankSnapshot, ts time.Time) *models.Alert {
			a := tankStatusAlert(tank, ts)
			a.Title = "Water Tank Getting Low"
			a.Severity = models.SeverityMedium
			a.Recommendation = "Plan a refill soon."
			return a
		},
	},
	{
		when: func(p int) bool { return true },
		build: func(tank models.TankSnapshot, ts time.Time) *models.Alert {
			return tankStatusAlert(tank, ts)
		},
	},
}

// EvaluateTank runs the tank decision list over a live snapshot. It always
// returns exactly one alert; callers with no snapshot (sensor offline) must
// not call this, and must substitute an offline notice instead of fabricating
// tank data.
func EvaluateTank(tank models.TankSnapshot, ts time.Time) *models.Alert {
	for _, rule := range tankRules {
		if rule.when(tank.Percent) {
			return rule.build(tank, ts)
		}
	}
	return nil
}

// tankStatusAlert is the low-severity base every tank branch customizes. The
// message always embeds the live percent, volume and capacity so the alert
// matches the dashboard tank card.
func tankStatusAlert(tank models.TankSnapshot, ts time.Time) *models.Alert {
	return newAlert(ts, models.TypeWaterAlert, models.CategoryWater,
		"Water Tank Status Update", models.SeverityLow,
		fmt.Sprintf("Water tank is at %d%% (%d cm³ / %d cm³).",
			tank.Percent, tank.VolumeCm3, tank.CapacityCm3),
		"No immediate action required.", "💧")
}
