package httpHandler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"clairity-server/aqi"
	"clairity-server/entities"
	"clairity-server/logger"
	"clairity-server/usecases"
	"clairity-server/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SensorHandler struct {
	useCase *usecases.SensorUseCase
	live    *ws.Manager
}

func NewSensorHandler(useCase *usecases.SensorUseCase, live *ws.Manager) *SensorHandler {
	return &SensorHandler{
		useCase: useCase,
		live:    live,
	}
}

// CreateReading handles POST /api/v1/sensors
func (h *SensorHandler) CreateReading(c *gin.Context) {
	var reading entities.SensorReading

	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.useCase.Ingest(&reading); err != nil {
		fail(c, err)
		return
	}

	// Push the stored reading to live dashboard clients.
	if payload, err := json.Marshal(reading); err == nil {
		h.live.Broadcast(payload)
	} else {
		logger.L().Warn("could not marshal reading for live stream", zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sensor data saved successfully",
		"data":    reading,
	})
}

// GetLatest handles GET /api/v1/sensors/latest
func (h *SensorHandler) GetLatest(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	readings, err := h.useCase.Latest(limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, readings)
}

// GetHistory handles GET /api/v1/sensors/history
// Raw readings inside the filter window, ascending. Explicit startDate
// and endDate (RFC3339) override the filter. An empty window is a 200
// with an empty array so the frontend can render its no-data state.
func (h *SensorHandler) GetHistory(c *gin.Context) {
	var readings []entities.SensorReading
	var err error

	if c.Query("startDate") != "" || c.Query("endDate") != "" {
		start, perr := time.Parse(time.RFC3339, c.Query("startDate"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be an RFC3339 timestamp"})
			return
		}
		end, perr := time.Parse(time.RFC3339, c.Query("endDate"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be an RFC3339 timestamp"})
			return
		}
		readings, err = h.useCase.Range(start, end, 0)
	} else {
		filter := aqi.Filter(c.DefaultQuery("filter", string(aqi.FilterDay)))
		readings, err = h.useCase.History(filter, time.Now())
	}
	if err != nil {
		fail(c, err)
		return
	}

	if readings == nil {
		readings = []entities.SensorReading{}
	}
	c.JSON(http.StatusOK, readings)
}

// GetHistorySummary handles GET /api/v1/sensors/history/summary
func (h *SensorHandler) GetHistorySummary(c *gin.Context) {
	filter := aqi.Filter(c.DefaultQuery("filter", string(aqi.FilterDay)))
	view := c.Query("view")

	buckets, err := h.useCase.HistorySummary(filter, view, time.Now())
	if err != nil {
		fail(c, err)
		return
	}

	if buckets == nil {
		buckets = []aqi.Bucket{}
	}
	c.JSON(http.StatusOK, buckets)
}
