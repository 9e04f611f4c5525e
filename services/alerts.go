package services

import (
	"fmt"
	"time"

	"clairity-server/logger"
	"clairity-server/mailer"
	"clairity-server/usecases"

	"go.uber.org/zap"
)

// AlertService watches the newest reading and mails subscribed users
// when its AQI crosses the configured threshold. Each reading alerts at
// most once.
type AlertService struct {
	sensors   *usecases.SensorUseCase
	accounts  *usecases.AccountUseCase
	mail      mailer.Transport
	threshold float64
	interval  time.Duration
}

func NewAlertService(sensors *usecases.SensorUseCase, accounts *usecases.AccountUseCase, mail mailer.Transport, threshold float64, interval time.Duration) *AlertService {
	return &AlertService{
		sensors:   sensors,
		accounts:  accounts,
		mail:      mail,
		threshold: threshold,
		interval:  interval,
	}
}

func (s *AlertService) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		for range ticker.C {
			s.RunOnce()
		}
	}()
}

// RunOnce performs a single threshold check. A failed send to one
// recipient is logged and does not stop the rest.
func (s *AlertService) RunOnce() {
	latest, err := s.sensors.LatestOne()
	if err != nil {
		logger.L().Error("alert check: fetching latest reading failed", zap.Error(err))
		return
	}
	if latest == nil {
		logger.L().Info("alert check: no sensor data yet")
		return
	}

	if latest.AQI <= s.threshold {
		logger.L().Info("alert check: AQI within safe levels", zap.Float64("aqi", latest.AQI))
		return
	}
	if latest.AlertSent {
		logger.L().Info("alert check: AQI still high but alert already sent for this reading",
			zap.Float64("aqi", latest.AQI), zap.String("reading_id", latest.ID))
		return
	}

	subscribers, err := s.accounts.Subscribers()
	if err != nil {
		logger.L().Error("alert check: fetching subscribers failed", zap.Error(err))
		return
	}
	if len(subscribers) == 0 {
		logger.L().Info("alert check: no subscribed users to alert")
		return
	}

	logger.L().Info("alert check: AQI over threshold, sending alerts",
		zap.Float64("aqi", latest.AQI), zap.Float64("threshold", s.threshold), zap.Int("recipients", len(subscribers)))

	body := fmt.Sprintf("Hey, the current AQI level is %.0f, which exceeds healthy limits. Consider taking precautions.", latest.AQI)
	for _, user := range subscribers {
		if err := s.mail.Send(user.Email, "Clarity App - Poor Air Quality Alert", body, false); err != nil {
			logger.L().Error("alert check: sending alert failed", zap.String("email", user.Email), zap.Error(err))
		}
	}

	if err := s.sensors.MarkAlertSent(latest.ID); err != nil {
		logger.L().Error("alert check: marking reading as alerted failed", zap.String("reading_id", latest.ID), zap.Error(err))
	}
}
