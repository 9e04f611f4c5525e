package httpHandler

import (
	"net/http"
	"strconv"

	"clairity-server/aqi"

	"github.com/gin-gonic/gin"
)

type AQIHandler struct{}

func NewAQIHandler() *AQIHandler {
	return &AQIHandler{}
}

// parseAQI rejects non-numeric and negative values instead of silently
// defaulting them to Good.
func parseAQI(c *gin.Context) (float64, bool) {
	raw := c.Query("aqi")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aqi must be a non-negative number"})
		return 0, false
	}
	return value, true
}

// GetRecommendations handles GET /api/v1/recommendations?aqi=
func (h *AQIHandler) GetRecommendations(c *gin.Context) {
	value, ok := parseAQI(c)
	if !ok {
		return
	}

	tier := aqi.Classify(value)
	c.JSON(http.StatusOK, gin.H{
		"AQI":             value,
		"recommendations": aqi.Recommendations(tier),
	})
}

// GetGroups handles GET /api/v1/groups?aqi=
func (h *AQIHandler) GetGroups(c *gin.Context) {
	value, ok := parseAQI(c)
	if !ok {
		return
	}

	tier := aqi.Classify(value)
	c.JSON(http.StatusOK, gin.H{
		"AQI":    value,
		"groups": aqi.VulnerableGroups(tier),
	})
}
