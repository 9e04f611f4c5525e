package usecases

import (
	"testing"
	"time"

	"clairity-server/aqi"
	"clairity-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(device string, ts time.Time, aqiVal float64) *entities.SensorReading {
	return &entities.SensorReading{
		DeviceID:  device,
		Location:  "20.58,-100.38",
		Status:    "active",
		AQI:       aqiVal,
		Timestamp: ts.UTC().Format(time.RFC3339),
	}
}

func TestIngestRejectsMissingRequiredFields(t *testing.T) {
	repo := &fakeSensorRepo{}
	uc := NewSensorUseCase(repo)

	cases := []*entities.SensorReading{
		{Location: "uteq", Status: "active"},
		{DeviceID: "dev1", Status: "active"},
		{DeviceID: "dev1", Location: "uteq"},
	}
	for _, r := range cases {
		err := uc.Ingest(r)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, repo.readings, "rejected readings must not be written")
}

func TestIngestPersistsAndTrustsSubmittedAQI(t *testing.T) {
	repo := &fakeSensorRepo{}
	uc := NewSensorUseCase(repo)

	r := reading("dev1", time.Now(), 175)
	require.NoError(t, uc.Ingest(r))
	require.Len(t, repo.readings, 1)
	assert.Equal(t, 175.0, repo.readings[0].AQI)
	assert.Equal(t, aqi.Hazardous, aqi.Classify(repo.readings[0].AQI))
}

func TestLatestDefaultsLimitAndOrdersDescending(t *testing.T) {
	repo := &fakeSensorRepo{}
	uc := NewSensorUseCase(repo)

	now := time.Now()
	require.NoError(t, uc.Ingest(reading("dev1", now.Add(-2*time.Hour), 10)))
	require.NoError(t, uc.Ingest(reading("dev1", now, 30)))
	require.NoError(t, uc.Ingest(reading("dev1", now.Add(-time.Hour), 20)))

	latest, err := uc.Latest(0)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, 30.0, latest[0].AQI)
	assert.Equal(t, 10.0, latest[2].AQI)
}

func TestRangeEmptyIsNotAnError(t *testing.T) {
	uc := NewSensorUseCase(&fakeSensorRepo{})

	out, err := uc.Range(time.Now().Add(-time.Hour), time.Now(), 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHistoryRejectsUnknownFilter(t *testing.T) {
	uc := NewSensorUseCase(&fakeSensorRepo{})

	_, err := uc.History(aqi.Filter("fortnight"), time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHistoryReturnsWindowedReadingsAscending(t *testing.T) {
	repo := &fakeSensorRepo{}
	uc := NewSensorUseCase(repo)

	now := time.Now()
	require.NoError(t, uc.Ingest(reading("dev1", now.Add(-30*time.Minute), 40)))
	require.NoError(t, uc.Ingest(reading("dev1", now.Add(-10*time.Minute), 60)))
	require.NoError(t, uc.Ingest(reading("dev1", now.Add(-2*time.Hour), 99))) // outside the hour window

	out, err := uc.History(aqi.FilterHour, now)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 40.0, out[0].AQI)
	assert.Equal(t, 60.0, out[1].AQI)
}

func TestHistorySummaryAveragesDayByHour(t *testing.T) {
	repo := &fakeSensorRepo{}
	uc := NewSensorUseCase(repo)

	now := time.Now()
	base := now.Add(-3 * time.Hour).Truncate(time.Hour)
	require.NoError(t, uc.Ingest(reading("dev1", base.Add(5*time.Minute), 80)))
	require.NoError(t, uc.Ingest(reading("dev1", base.Add(25*time.Minute), 120)))

	buckets, err := uc.HistorySummary(aqi.FilterDay, "", now)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 100.0, buckets[0].AQI)
}

func TestLatestOneNilWhenEmpty(t *testing.T) {
	uc := NewSensorUseCase(&fakeSensorRepo{})

	latest, err := uc.LatestOne()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestMarkAlertSent(t *testing.T) {
	repo := &fakeSensorRepo{}
	uc := NewSensorUseCase(repo)

	r := reading("dev1", time.Now(), 200)
	require.NoError(t, uc.Ingest(r))
	require.NoError(t, uc.MarkAlertSent(r.ID))

	latest, err := uc.LatestOne()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.AlertSent)
}
