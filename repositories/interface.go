package repositories

import (
	"time"

	"clairity-server/entities"
)

type SensorDataRepository interface {
	Create(reading *entities.SensorReading) error
	Latest(limit int) ([]entities.SensorReading, error)
	LatestOne() (*entities.SensorReading, error)
	Range(start, end time.Time, limit int) ([]entities.SensorReading, error)
	MarkAlertSent(id string) error
}

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	GetAll() ([]entities.User, error)
	Search(query string) ([]entities.User, error)
	GetSubscribed() ([]entities.User, error)
	Count() (int64, error)
	Update(user *entities.User) error
	Delete(id string) error
}
