package repositories

import (
	"time"

	"clairity-server/db"
	"clairity-server/entities"
)

type sensorDataPgRepository struct {
	db db.Database
}

func NewSensorDataPgRepository(database db.Database) SensorDataRepository {
	return &sensorDataPgRepository{db: database}
}

func (r *sensorDataPgRepository) Create(reading *entities.SensorReading) error {
	return r.db.GetDB().Create(reading).Error
}

func (r *sensorDataPgRepository) Latest(limit int) ([]entities.SensorReading, error) {
	var readings []entities.SensorReading
	err := r.db.GetDB().Order("timestamp DESC").Limit(limit).Find(&readings).Error
	return readings, err
}

func (r *sensorDataPgRepository) LatestOne() (*entities.SensorReading, error) {
	var reading entities.SensorReading
	err := r.db.GetDB().Order("timestamp DESC").First(&reading).Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (r *sensorDataPgRepository) Range(start, end time.Time, limit int) ([]entities.SensorReading, error) {
	var readings []entities.SensorReading
	err := r.db.GetDB().
		Where("timestamp >= ? AND timestamp <= ?", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)).
		Order("timestamp ASC").
		Limit(limit).
		Find(&readings).Error
	return readings, err
}

func (r *sensorDataPgRepository) MarkAlertSent(id string) error {
	return r.db.GetDB().
		Model(&entities.SensorReading{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"alert_sent": true,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		}).Error
}
