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
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSeasonalSamplerRejectsInvertedRange(t *testing.T) {
	_, err := NewSeasonalSampler(date(2024, 6, 1), date(2024, 1, 1))
	if err == nil {
		t.Error("Expected error for end before start")
	}
}

func TestSeasonalSamplerSingleDay(t *testing.T) {
	s, err := NewSeasonalSampler(date(2024, 3, 15), date(2024, 3, 15))
	if err != nil {
		t.Fatalf("NewSeasonalSampler failed: %v", err)
	}
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		d := s.Sample(f)
		if d.Year() != 2024 || d.Day() != 15 {
			t.Fatalf("Expected year 2024 and day 15, got %s", d)
		}
		if d.Hour() != 0 || d.Location() != time.UTC {
			t.Fatalf("Expected midnight UTC, got %s", d)
		}
	}
}

func TestSeasonalSamplerInvalidDayFallsBackToFirst(t *testing.T) {
	// Every draw has day 31; months without a 31st must fall back to the 1st.
	s, err := NewSeasonalSampler(date(2023, 1, 31), date(2023, 1, 31))
	if err != nil {
		t.Fatalf("NewSeasonalSampler failed: %v", err)
	}
	f := NewFakerWithSeed(2)
	for i := 0; i < 500; i++ {
		d := s.Sample(f)
		want := 31
		if daysIn(2023, d.Month()) < 31 {
			want = 1
		}
		if d.Day() != want {
			t.Fatalf("Month %s: expected day %d, got %d", d.Month(), want, d.Day())
		}
	}
}

func TestSeasonalSamplerLeapDay(t *testing.T) {
	s, err := NewSeasonalSampler(date(2024, 2, 29), date(2024, 2, 29))
	if err != nil {
		t.Fatalf("NewSeasonalSampler failed: %v", err)
	}
	f := NewFakerWithSeed(3)
	for i := 0; i < 200; i++ {
		d := s.Sample(f)
		if d.Month() == time.February && d.Day() != 29 {
			t.Fatalf("Leap day should survive in February, got %s", d)
		}
	}
}

func TestSeasonalSamplerMonthWeights(t *testing.T) {
	s, err := NewSeasonalSampler(date(2024, 1, 1), date(2024, 12, 31))
	if err != nil {
		t.Fatalf("NewSeasonalSampler failed: %v", err)
	}
	f := NewFakerWithSeed(4)

	counts := make(map[time.Month]int)
	const n = 30000
	for i := 0; i < n; i++ {
		counts[s.Sample(f).Month()]++
	}

	// December (weight 2.5) should clearly beat an off-peak month (1.0),
	// and July (2.0) should beat June (1.5).
	if counts[time.December] < 2*counts[time.March] {
		t.Errorf("December should be ~2.5x March: %v", counts)
	}
	if counts[time.July] <= counts[time.June] {
		t.Errorf("July should exceed June: %v", counts)
	}
	if counts[time.November] <= counts[time.October] {
		t.Errorf("November should exceed October: %v", counts)
	}
}

func TestSeasonalSamplerDeterministic(t *testing.T) {
	s, _ := NewSeasonalSampler(date(2023, 1, 1), date(2024, 12, 31))
	f1 := NewFakerWithSeed(77)
	f2 := NewFakerWithSeed(77)
	for i := 0; i < 50; i++ {
		if !s.Sample(f1).Equal(s.Sample(f2)) {
			t.Fatal("Same seed should produce same dates")
		}
	}
}
