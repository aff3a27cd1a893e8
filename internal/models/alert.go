package models

import "time"

// Alert severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Alert categories.
const (
	CategoryWeather    = "weather"
	CategoryIrrigation = "irrigation"
	CategoryWater      = "water"
)

// Alert types.
const (
	TypeRainAlert                = "rain_alert"
	TypeIrrigationAlert          = "irrigation_alert"
	TypeIrrigationRecommendation = "irrigation_recommendation"
	TypeWeatherUpdate            = "weather_update"
	TypeWaterAlert               = "water_alert"
	TypeWaterStatus              = "water_status"
)

// Alert is a single prioritized, human-readable notification produced by one
// rule branch. Alerts are immutable once created: they are appended to the
// in-memory feed and mirrored into durable history, never mutated or deleted.
type Alert struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Severity       string    `json:"severity"`
	Category       string    `json:"category"`
	Timestamp      time.Time `json:"timestamp"` // UTC
	Recommendation string    `json:"recommendation"`
	Icon           string    `json:"icon,omitempty"`

	// Populated only for crop-tracking alerts.
	CropName         string  `json:"crop_name,omitempty"`
	SoilType         string  `json:"soil_type,omitempty"`
	WaterRequirement float64 `json:"water_requirement,omitempty"`
	StartDate        string  `json:"start_date,omitempty"`
}

// UserCrop is a crop a farmer has put under irrigation tracking.
type UserCrop struct {
	ID               int64     `json:"id"`
	FarmerID         string    `json:"farmer_id"`
	CropName         string    `json:"crop_name"`
	SoilType         string    `json:"soil_type"`
	WaterRequirement float64   `json:"water_requirement"` // mm per cycle
	StartDate        string    `json:"start_date"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}
