package aqi

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Filter selects the time window for a history query.
type Filter string

const (
	FilterHour Filter = "hour"
	FilterDay  Filter = "day"
	FilterWeek Filter = "week"
)

var ErrUnknownFilter = errors.New("unknown history filter")

// Window returns the [start, end] range a filter covers, ending at now.
func Window(f Filter, now time.Time) (start, end time.Time, err error) {
	switch f {
	case FilterHour:
		start = now.Add(-time.Hour)
	case FilterDay:
		start = now.AddDate(0, 0, -1)
	case FilterWeek:
		start = now.AddDate(0, 0, -7)
	default:
		return time.Time{}, time.Time{}, ErrUnknownFilter
	}
	return start, now, nil
}

// Point is one timestamped AQI sample inside a window.
type Point struct {
	Timestamp time.Time
	AQI       float64
}

// Bucket is one averaged output point of an aggregation.
type Bucket struct {
	Label string  `json:"timestamp"`
	AQI   float64 `json:"AQI"`
}

// Aggregate groups windowed samples the way the dashboard charts them.
// The caller supplies only points inside the filter's window; no
// re-filtering happens here.
//
//   - hour: no grouping, points are relabeled by their timestamps
//   - day: grouped by hour-of-day regardless of date, labels "H:00"
//   - week: grouped by calendar date ascending, last 7 dates kept
//
// Empty input yields an empty slice.
func Aggregate(f Filter, points []Point) ([]Bucket, error) {
	switch f {
	case FilterHour:
		out := make([]Bucket, 0, len(points))
		for _, p := range points {
			out = append(out, Bucket{Label: p.Timestamp.Format(time.RFC3339), AQI: p.AQI})
		}
		return out, nil

	case FilterDay:
		type acc struct {
			sum   float64
			count int
		}
		byHour := make(map[int]*acc)
		for _, p := range points {
			h := p.Timestamp.Local().Hour()
			if byHour[h] == nil {
				byHour[h] = &acc{}
			}
			byHour[h].sum += p.AQI
			byHour[h].count++
		}
		out := make([]Bucket, 0, len(byHour))
		for h := 0; h < 24; h++ {
			if a, ok := byHour[h]; ok {
				out = append(out, Bucket{Label: fmt.Sprintf("%d:00", h), AQI: a.sum / float64(a.count)})
			}
		}
		return out, nil

	case FilterWeek:
		type acc struct {
			sum   float64
			count int
		}
		byDate := make(map[string]*acc)
		for _, p := range points {
			d := p.Timestamp.UTC().Format("2006-01-02")
			if byDate[d] == nil {
				byDate[d] = &acc{}
			}
			byDate[d].sum += p.AQI
			byDate[d].count++
		}
		dates := make([]string, 0, len(byDate))
		for d := range byDate {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		if len(dates) > 7 {
			dates = dates[len(dates)-7:]
		}
		out := make([]Bucket, 0, len(dates))
		for _, d := range dates {
			a := byDate[d]
			out = append(out, Bucket{Label: d, AQI: a.sum / float64(a.count)})
		}
		return out, nil
	}
	return nil, ErrUnknownFilter
}

const weekSeconds = 7 * 24 * 60 * 60

// AggregateMonthly groups samples into 7-day epoch buckets and keeps the
// last 4, the monthly-view variant of the weekly chart.
func AggregateMonthly(points []Point) []Bucket {
	type acc struct {
		sum   float64
		count int
	}
	byWeek := make(map[int64]*acc)
	for _, p := range points {
		w := p.Timestamp.Unix() / weekSeconds
		if byWeek[w] == nil {
			byWeek[w] = &acc{}
		}
		byWeek[w].sum += p.AQI
		byWeek[w].count++
	}
	weeks := make([]int64, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })
	if len(weeks) > 4 {
		weeks = weeks[len(weeks)-4:]
	}
	out := make([]Bucket, 0, len(weeks))
	for _, w := range weeks {
		a := byWeek[w]
		out = append(out, Bucket{Label: fmt.Sprintf("Week %d", w%52), AQI: a.sum / float64(a.count)})
	}
	return out
}
