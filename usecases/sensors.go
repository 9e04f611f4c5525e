package usecases

import (
	"errors"
	"fmt"
	"time"

	"clairity-server/aqi"
	"clairity-server/entities"
	"clairity-server/repositories"

	"gorm.io/gorm"
)

const (
	defaultLatestLimit = 100
	defaultRangeLimit  = 1000
)

type SensorUseCase struct {
	Repo repositories.SensorDataRepository
}

func NewSensorUseCase(repo repositories.SensorDataRepository) *SensorUseCase {
	return &SensorUseCase{Repo: repo}
}

// Ingest validates and persists a reading. The submitted AQI is trusted;
// no server-side recomputation from pollutant fields happens.
func (uc *SensorUseCase) Ingest(reading *entities.SensorReading) error {
	if reading.DeviceID == "" || reading.Location == "" || reading.Status == "" {
		return fmt.Errorf("%w: device_id, location, and status are required", ErrValidation)
	}
	return uc.Repo.Create(reading)
}

// Latest returns the most recent readings, newest first.
func (uc *SensorUseCase) Latest(limit int) ([]entities.SensorReading, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	return uc.Repo.Latest(limit)
}

// Range returns readings inside [start, end] in ascending timestamp
// order. No matches is an empty slice, not an error.
func (uc *SensorUseCase) Range(start, end time.Time, limit int) ([]entities.SensorReading, error) {
	if limit <= 0 {
		limit = defaultRangeLimit
	}
	return uc.Repo.Range(start, end, limit)
}

// History returns the raw readings inside the filter's window ending at now.
func (uc *SensorUseCase) History(filter aqi.Filter, now time.Time) ([]entities.SensorReading, error) {
	start, end, err := aqi.Window(filter, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return uc.Repo.Range(start, end, defaultRangeLimit)
}

// HistorySummary returns the averaged series for the filter's window.
// view "month" selects the four 7-day epoch buckets instead.
func (uc *SensorUseCase) HistorySummary(filter aqi.Filter, view string, now time.Time) ([]aqi.Bucket, error) {
	readings, err := uc.History(filter, now)
	if err != nil {
		return nil, err
	}

	points := make([]aqi.Point, 0, len(readings))
	for _, r := range readings {
		ts, perr := time.Parse(time.RFC3339, r.Timestamp)
		if perr != nil {
			continue
		}
		points = append(points, aqi.Point{Timestamp: ts, AQI: r.AQI})
	}

	if view == "month" {
		return aqi.AggregateMonthly(points), nil
	}

	buckets, err := aqi.Aggregate(filter, points)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return buckets, nil
}

// LatestOne returns the single newest reading, or nil when nothing has
// been ingested yet.
func (uc *SensorUseCase) LatestOne() (*entities.SensorReading, error) {
	reading, err := uc.Repo.LatestOne()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return reading, nil
}

// MarkAlertSent flags a reading so the alert job does not renotify for it.
func (uc *SensorUseCase) MarkAlertSent(id string) error {
	return uc.Repo.MarkAlertSent(id)
}
