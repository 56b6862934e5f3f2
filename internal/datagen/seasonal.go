//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"time"
)

// monthWeights are relative month frequencies, January first, scaled by two
// so that the 1.5x/2.0x/2.5x seasonal peaks stay integral.
var monthWeights = []int{2, 2, 2, 2, 2, 3, 4, 2, 2, 2, 3, 5}

var months = []time.Month{
	time.January, time.February, time.March, time.April,
	time.May, time.June, time.July, time.August,
	time.September, time.October, time.November, time.December,
}

// SeasonalSampler draws dates inside a range with month-of-year skew
// towards the mid-year and year-end peaks.
type SeasonalSampler struct {
	start time.Time
	days  int
}

// NewSeasonalSampler creates a sampler for the inclusive range [start, end].
func NewSeasonalSampler(start, end time.Time) (*SeasonalSampler, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return &SeasonalSampler{
		start: start,
		days:  int(end.Sub(start).Hours() / 24),
	}, nil
}

// Sample returns one date. The day offset is uniform across the range, then
// the month is redrawn by seasonal weight, keeping year and day. A day that
// does not exist in the new month falls back to the 1st.
//
// Because only the month is replaced, a range that does not cover whole
// years can yield dates outside it.
func (s *SeasonalSampler) Sample(f *Faker) time.Time {
	base := s.start.AddDate(0, 0, f.Int(0, s.days))
	month := ChooseWeighted(f, months, monthWeights)

	day := base.Day()
	if day > daysIn(base.Year(), month) {
		day = 1
	}
	return time.Date(base.Year(), month, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
