//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides the seeded random source and sampling helpers
// shared by every generator.
package datagen

import (
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit. All randomness in a
// generation run flows through a single Faker so that a seed reproduces the
// whole dataset.
type Faker struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewFaker creates a new Faker with a clock-derived seed.
func NewFaker() *Faker {
	return NewFakerWithSeed(uint64(time.Now().UnixNano()))
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
		seed:  seed,
	}
}

// Seed returns the seed the Faker was created with.
func (f *Faker) Seed() uint64 {
	return f.seed
}

// Derive returns an independent Faker whose sequence depends only on this
// Faker's seed and salt, not on how much of this Faker has been consumed.
func (f *Faker) Derive(salt uint64) *Faker {
	return NewFakerWithSeed(f.seed ^ (salt * 0x9E3779B97F4A7C15))
}

// Name generates a random full name.
func (f *Faker) Name() string {
	return f.faker.Name()
}

// Email generates a random email address.
func (f *Faker) Email() string {
	return f.faker.Email()
}

// Phone generates a random phone number.
func (f *Faker) Phone() string {
	return f.faker.Phone()
}

// Address generates a random single-line street address.
func (f *Faker) Address() string {
	return f.faker.Address().Address
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// Zip generates a random postal code.
func (f *Faker) Zip() string {
	return f.faker.Zip()
}

// Company generates a random company name.
func (f *Faker) Company() string {
	return f.faker.Company()
}

// CatchPhrase generates a short business phrase.
func (f *Faker) CatchPhrase() string {
	return f.faker.BS()
}

// ProductName generates a random product name.
func (f *Faker) ProductName() string {
	return f.faker.ProductName()
}

// ProductDescription generates a random product description.
func (f *Faker) ProductDescription() string {
	return f.faker.ProductDescription()
}

// ProductCategory generates a random product category.
func (f *Faker) ProductCategory() string {
	return f.faker.ProductCategory()
}

// Sentence generates a random sentence.
func (f *Faker) Sentence(wordCount int) string {
	return f.faker.Sentence(wordCount)
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Int64 generates a random int64 between min and max (inclusive).
func (f *Faker) Int64(min, max int64) int64 {
	return int64(f.faker.IntRange(int(min), int(max)))
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Chance reports true with probability p.
func (f *Faker) Chance(p float64) bool {
	return f.Float64(0, 1) < p
}

// Digits generates a random string of digits of length n.
func (f *Faker) Digits(n int) string {
	return f.faker.DigitN(uint(n))
}

// Poisson draws from a Poisson distribution with the given mean using
// Knuth's multiplication method. Means below zero are treated as zero.
func (f *Faker) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= f.Float64(0, 1)
		if p <= limit {
			return k
		}
		k++
	}
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights.
func ChooseWeighted[T any](f *Faker, items []T, weights []int) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Int(1, totalWeight)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}

// Sample returns k distinct elements drawn without replacement. If k is
// larger than the slice, every element is returned in shuffled order.
// The input slice is not modified.
func Sample[T any](f *Faker, items []T, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	if k <= 0 {
		return nil
	}
	pool := make([]T, len(items))
	copy(pool, items)
	// Partial Fisher-Yates.
	for i := 0; i < k; i++ {
		j := f.Int(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// SampleIndexes returns k distinct indexes in [0, n) without replacement.
func SampleIndexes(f *Faker, n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return Sample(f, idx, k)
}

// Truncate truncates a string to max length if needed.
func Truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
