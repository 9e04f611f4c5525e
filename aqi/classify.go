package aqi

// Tier is one of the four AQI classification buckets.
type Tier int

const (
	Good Tier = iota
	Moderate
	Unhealthy
	Hazardous
)

func (t Tier) String() string {
	switch t {
	case Good:
		return "good"
	case Moderate:
		return "moderate"
	case Unhealthy:
		return "unhealthy"
	default:
		return "hazardous"
	}
}

// Classify maps an AQI value to its tier. Upper bounds are inclusive:
// Good <= 50, Moderate <= 100, Unhealthy <= 150, Hazardous above.
// Negative input is clamped to 0, so it classifies as Good.
func Classify(aqi float64) Tier {
	if aqi < 0 {
		aqi = 0
	}
	switch {
	case aqi <= 50:
		return Good
	case aqi <= 100:
		return Moderate
	case aqi <= 150:
		return Unhealthy
	default:
		return Hazardous
	}
}

var recommendations = map[Tier][]string{
	Good: {
		"Enjoy outdoor activities.",
		"Keep indoor spaces ventilated.",
		"Exercise outside to take advantage of fresh air.",
		"Open windows to allow air circulation.",
		"Engage in recreational activities like jogging, cycling, or picnicking.",
	},
	Moderate: {
		"Sensitive groups should limit outdoor activities.",
		"Keep windows closed if needed.",
		"Consider using an air purifier indoors.",
		"Engage in light outdoor activities but avoid prolonged exposure.",
		"Stay hydrated and monitor any respiratory symptoms.",
	},
	Unhealthy: {
		"Avoid outdoor activities.",
		"Use a mask outdoors.",
		"Use air purifiers indoors.",
		"Keep windows and doors closed.",
		"Limit strenuous activities, even indoors.",
		"Monitor children, the elderly, and those with respiratory conditions.",
	},
	Hazardous: {
		"Stay indoors as much as possible.",
		"Use high-quality air filters and masks.",
		"Avoid unnecessary outdoor exposure.",
		"Seek medical attention if you experience breathing difficulties.",
		"Keep emergency medications available if you have asthma or other respiratory conditions.",
		"Limit physical exertion, even indoors.",
	},
}

var vulnerableGroups = map[Tier][]string{
	Good:      {"no vulnerable groups for good AQI."},
	Moderate:  {"no vulnerable groups for moderate AQI."},
	Unhealthy: {"children, the elderly, and those with respiratory conditions for unhealthy AQI."},
	Hazardous: {"children, the elderly, and those with respiratory conditions for hazardous AQI."},
}

// Recommendations returns the precaution catalog for a tier.
func Recommendations(t Tier) []string {
	return recommendations[t]
}

// VulnerableGroups returns the at-risk population catalog for a tier.
func VulnerableGroups(t Tier) []string {
	return vulnerableGroups[t]
}
