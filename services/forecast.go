package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"clairity-server/logger"
	"clairity-server/mailer"
	"clairity-server/usecases"

	"go.uber.org/zap"
)

const forecastFallbackBody = "Could not retrieve air quality forecast data."

// CityForecast is the per-city payload of the external forecast service.
type CityForecast struct {
	Forecast struct {
		Dates    []string  `json:"dates"`
		Combined []float64 `json:"combined"`
	} `json:"forecast"`
}

// ForecastService mails a daily digest of predicted PM2.5 per city to
// every alert-subscribed user.
type ForecastService struct {
	accounts *usecases.AccountUseCase
	mail     mailer.Transport
	url      string
	client   *http.Client
	interval time.Duration
}

func NewForecastService(accounts *usecases.AccountUseCase, mail mailer.Transport, url string, interval time.Duration) *ForecastService {
	return &ForecastService{
		accounts: accounts,
		mail:     mail,
		url:      url,
		client:   &http.Client{Timeout: 30 * time.Second},
		interval: interval,
	}
}

func (s *ForecastService) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		for range ticker.C {
			s.RunOnce()
		}
	}()
}

// RunOnce fetches the forecast and mails the digest. A fetch failure
// degrades to a fallback body instead of aborting the run.
func (s *ForecastService) RunOnce() {
	body := s.buildDigest()

	subscribers, err := s.accounts.Subscribers()
	if err != nil {
		logger.L().Error("forecast digest: fetching subscribers failed", zap.Error(err))
		return
	}
	if len(subscribers) == 0 {
		logger.L().Info("forecast digest: no subscribed users")
		return
	}

	for _, user := range subscribers {
		if err := s.mail.Send(user.Email, "Daily Air Quality Report", body, true); err != nil {
			logger.L().Error("forecast digest: sending failed", zap.String("email", user.Email), zap.Error(err))
		}
	}
	logger.L().Info("forecast digest: run complete", zap.Int("recipients", len(subscribers)))
}

func (s *ForecastService) buildDigest() string {
	data, err := s.fetch()
	if err != nil {
		logger.L().Error("forecast digest: fetch failed", zap.Error(err))
		return forecastFallbackBody
	}
	return BuildDigestHTML(data)
}

func (s *ForecastService) fetch() (map[string]CityForecast, error) {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast service returned status %d", resp.StatusCode)
	}

	var data map[string]CityForecast
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}

// BuildDigestHTML renders the date -> predicted PM2.5 table per city.
func BuildDigestHTML(data map[string]CityForecast) string {
	var b strings.Builder
	b.WriteString("<h1>Daily Air Quality Report (AQI)</h1>")

	cities := make([]string, 0, len(data))
	for city := range data {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	for _, city := range cities {
		fc := data[city]
		if len(fc.Forecast.Dates) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("<h2>%s</h2><ul>", strings.ToUpper(city)))
		for i, date := range fc.Forecast.Dates {
			if i >= len(fc.Forecast.Combined) {
				break
			}
			b.WriteString(fmt.Sprintf("<li>%s → PM2.5: %.2f</li>", date, fc.Forecast.Combined[i]))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}
