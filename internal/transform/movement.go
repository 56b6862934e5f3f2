//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"sort"
	"time"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// Bucket is the OUT movement count of one period. Date labels the period:
// the day itself, the Sunday ending the week, or the last day of the month.
type Bucket struct {
	Date  time.Time
	Count int64
}

// Peak is the mean bucket count for one weekday or month name.
type Peak struct {
	Label string
	Mean  float64
}

// MovementResult is the output of the movement stage. All slices are empty
// when the ledger holds no OUT movements.
type MovementResult struct {
	Daily   []Bucket
	Weekly  []Bucket
	Monthly []Bucket

	// Peak tables are sorted by mean descending, ties in calendar order.
	PeakDayOfWeek []Peak
	PeakMonth     []Peak
}

// BusiestDay returns the top weekday, or "" when there is none.
func (r *MovementResult) BusiestDay() string {
	if len(r.PeakDayOfWeek) == 0 {
		return ""
	}
	return r.PeakDayOfWeek[0].Label
}

// BusiestMonth returns the top month, or "" when there is none.
func (r *MovementResult) BusiestMonth() string {
	if len(r.PeakMonth) == 0 {
		return ""
	}
	return r.PeakMonth[0].Label
}

func runMovement(ds *model.Dataset, in Analytics, _ Options) (Analytics, error) {
	in.Movement = MovementAnalytics(ds.StockMovements)
	return in, nil
}

// MovementAnalytics resamples OUT movements into contiguous daily, weekly
// and monthly counts and ranks weekdays and months by their mean count.
func MovementAnalytics(movements []model.StockMovement) *MovementResult {
	perDay := make(map[time.Time]int64)
	var first, last time.Time
	for _, m := range movements {
		if m.Type != model.MovementOut {
			continue
		}
		d := startOfDay(m.MovementDate)
		perDay[d]++
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	res := &MovementResult{}
	if len(perDay) == 0 {
		logging.Warn().Msg("No OUT movements; movement trends are empty")
		return res
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		res.Daily = append(res.Daily, Bucket{Date: d, Count: perDay[d]})
	}
	res.Weekly = resample(res.Daily, weekEnd)
	res.Monthly = resample(res.Daily, monthEnd)

	res.PeakDayOfWeek = peaks(res.Daily, func(t time.Time) (string, int) {
		return t.Weekday().String(), isoWeekday(t.Weekday())
	})
	res.PeakMonth = peaks(res.Monthly, func(t time.Time) (string, int) {
		return t.Month().String(), int(t.Month())
	})

	logging.Info().
		Str("busiest_day", res.BusiestDay()).
		Str("busiest_month", res.BusiestMonth()).
		Msg("Movement analytics complete")

	return res
}

// resample folds contiguous daily buckets into coarser periods labelled by
// label. Periods with no movements keep a zero count.
func resample(daily []Bucket, label func(time.Time) time.Time) []Bucket {
	var out []Bucket
	for _, b := range daily {
		l := label(b.Date)
		if n := len(out); n > 0 && out[n-1].Date.Equal(l) {
			out[n-1].Count += b.Count
			continue
		}
		out = append(out, Bucket{Date: l, Count: b.Count})
	}
	return out
}

func peaks(buckets []Bucket, key func(time.Time) (string, int)) []Peak {
	type acc struct {
		label string
		order int
		sum   int64
		n     int64
	}
	groups := make(map[string]*acc)
	for _, b := range buckets {
		label, order := key(b.Date)
		g, ok := groups[label]
		if !ok {
			g = &acc{label: label, order: order}
			groups[label] = g
		}
		g.sum += b.Count
		g.n++
	}

	all := make([]*acc, 0, len(groups))
	for _, g := range groups {
		all = append(all, g)
	}
	means := func(g *acc) float64 { return float64(g.sum) / float64(g.n) }
	sort.Slice(all, func(i, j int) bool {
		mi, mj := means(all[i]), means(all[j])
		if mi != mj {
			return mi > mj
		}
		return all[i].order < all[j].order
	})

	out := make([]Peak, len(all))
	for i, g := range all {
		out[i] = Peak{Label: g.label, Mean: means(g)}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekEnd returns the Sunday on or after d.
func weekEnd(d time.Time) time.Time {
	return d.AddDate(0, 0, (7-int(d.Weekday()))%7)
}

// monthEnd returns the last day of d's month.
func monthEnd(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// isoWeekday orders Monday first.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
