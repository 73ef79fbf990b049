package statistics

import (
	"fmt"
	"time"
)

// window describes how a period is cut into buckets.
type window struct {
	size   int
	layout string
	step   func(t time.Time, n int) time.Time
	trunc  func(t time.Time) time.Time
}

var windows = map[Period]window{
	PeriodDaily: {
		size:   30,
		layout: "02 Jan",
		step:   func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) },
		trunc: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		},
	},
	PeriodMonthly: {
		size:   12,
		layout: "Jan 2006",
		step:   func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
		trunc: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		},
	},
	PeriodYearly: {
		size:   5,
		layout: "2006",
		step:   func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) },
		trunc: func(t time.Time) time.Time {
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		},
	},
}

// Unit is the date_trunc unit of a period.
func (p Period) Unit() string {
	switch p {
	case PeriodMonthly:
		return "month"
	case PeriodYearly:
		return "year"
	default:
		return "day"
	}
}

func windowOf(p Period) (window, error) {
	w, ok := windows[p]
	if !ok {
		return window{}, fmt.Errorf("unknown statistics period %q", p)
	}
	return w, nil
}

// starts returns the bucket starts of p ending with the bucket holding now,
// oldest first.
func (w window) starts(now time.Time) []time.Time {
	last := w.trunc(now.UTC())
	out := make([]time.Time, w.size)
	for i := range out {
		out[i] = w.step(last, i-w.size+1)
	}
	return out
}

// fill spreads buckets over starts. Buckets outside the window are dropped.
func fill(starts []time.Time, buckets []Bucket) []int {
	index := make(map[time.Time]int, len(starts))
	for i, s := range starts {
		index[s] = i
	}
	out := make([]int, len(starts))
	for _, b := range buckets {
		if i, ok := index[b.Start.UTC()]; ok {
			out[i] += b.Count
		}
	}
	return out
}

func labels(w window, starts []time.Time) []string {
	out := make([]string, len(starts))
	for i, s := range starts {
		out[i] = s.Format(w.layout)
	}
	return out
}
