package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SensorReading is one ingested measurement set from a station.
// Pollutant fields are pointers so absent values stay absent instead
// of becoming zero.
type SensorReading struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	DeviceID    string         `gorm:"index" json:"device_id"`
	Location    string         `json:"location"` // place name or "lat,lng"
	Status      string         `json:"status"`   // active, inactive
	Temperature *float64       `json:"temperature,omitempty"`
	Humidity    *float64       `json:"humidity,omitempty"`
	CO2         *float64       `json:"CO2,omitempty"`
	TVOC        *float64       `json:"TVOC,omitempty"`
	PM1         *float64       `json:"PM1,omitempty"`
	PM25        *float64       `json:"PM2,omitempty"`
	PM10        *float64       `json:"PM10,omitempty"`
	CO          *float64       `json:"CO,omitempty"`
	AQI         float64        `json:"AQI"`
	AlertSent   bool           `json:"alert_sent"`
	Timestamp   string         `gorm:"index" json:"timestamp"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (r *SensorReading) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if r.Timestamp == "" {
		r.Timestamp = now
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	return
}
