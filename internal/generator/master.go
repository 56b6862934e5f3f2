//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package generator

import (
	"fmt"
	"strconv"

	"github.com/pgEdge/pgedge-stockgen/internal/datagen"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// uniqueAttempts bounds retries for faker values that must be unique before
// a numeric suffix is appended instead.
const uniqueAttempts = 20

// MasterData is the reference data every transactional table points at.
type MasterData struct {
	Categories []model.Category
	Suppliers  []model.Supplier
	Warehouses []model.Warehouse
	Products   []model.Product

	// Hot is the Pareto hot set of product ids; Cold is its complement.
	Hot  []int64
	Cold []int64
}

// MasterData generates categories, suppliers, warehouses and products with
// sequential ids from 1, then picks the hot product set.
func (g *Generator) MasterData() MasterData {
	f := g.faker
	var m MasterData

	names := newUniqueSet()
	for i := 1; i <= g.opts.Categories; i++ {
		m.Categories = append(m.Categories, model.Category{
			ID:          int64(i),
			Name:        names.draw(f.CatchPhrase),
			Description: datagen.Truncate(f.Sentence(12), 100),
		})
	}

	emails := newUniqueSet()
	for i := 1; i <= g.opts.Suppliers; i++ {
		m.Suppliers = append(m.Suppliers, model.Supplier{
			ID:            int64(i),
			Name:          f.Company(),
			ContactPerson: f.Name(),
			Email:         emails.draw(f.Email),
			Phone:         f.Phone(),
			Address:       f.Address(),
		})
	}

	codes := newUniqueSet()
	for i := 1; i <= g.opts.Warehouses; i++ {
		m.Warehouses = append(m.Warehouses, model.Warehouse{
			ID:           int64(i),
			Name:         fmt.Sprintf("%s Warehouse", f.City()),
			LocationCode: codes.draw(f.Zip),
			Address:      f.Address(),
		})
	}

	skus := newUniqueSet()
	progress := datagen.NewProgressReporter(model.TableProducts, int64(g.opts.Products), 0)
	for i := 1; i <= g.opts.Products; i++ {
		m.Products = append(m.Products, model.Product{
			ID:          int64(i),
			SKU:         skus.draw(func() string { return EAN13(f) }),
			Name:        f.ProductName(),
			Description: datagen.Truncate(f.ProductDescription(), 150),
			CategoryID:  datagen.Choose(f, m.Categories).ID,
			SupplierID:  datagen.Choose(f, m.Suppliers).ID,
		})
		progress.Update(1)
	}

	ids := productIDs(m.Products)
	hotCount := int(float64(len(ids)) * g.opts.ParetoSplit)
	m.Hot = datagen.Sample(f, ids, hotCount)
	m.Cold = complement(ids, m.Hot)

	return m
}

// EAN13 draws a random 13-digit EAN barcode with a valid check digit.
func EAN13(f *datagen.Faker) string {
	body := f.Digits(12)
	return body + strconv.Itoa(EANCheckDigit(body))
}

// EANCheckDigit computes the EAN-13 check digit of a 12-digit body.
func EANCheckDigit(body string) int {
	sum := 0
	for i, c := range body {
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

type uniqueSet map[string]struct{}

func newUniqueSet() uniqueSet {
	return make(uniqueSet)
}

// draw calls gen until it yields an unseen value, falling back to a
// numbered variant of the last draw.
func (u uniqueSet) draw(gen func() string) string {
	var v string
	for i := 0; i < uniqueAttempts; i++ {
		v = gen()
		if _, seen := u[v]; !seen {
			u[v] = struct{}{}
			return v
		}
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s %d", v, n)
		if _, seen := u[candidate]; !seen {
			u[candidate] = struct{}{}
			return candidate
		}
	}
}

func productIDs(products []model.Product) []int64 {
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func complement(all, subset []int64) []int64 {
	in := make(map[int64]bool, len(subset))
	for _, id := range subset {
		in[id] = true
	}
	out := make([]int64, 0, len(all)-len(subset))
	for _, id := range all {
		if !in[id] {
			out = append(out, id)
		}
	}
	return out
}

// pickProduct draws a product id, from the hot set with probability
// volume and from the cold set otherwise.
func pickProduct(f *datagen.Faker, m MasterData, volume float64) int64 {
	if len(m.Hot) > 0 && (len(m.Cold) == 0 || f.Chance(volume)) {
		return datagen.Choose(f, m.Hot)
	}
	return datagen.Choose(f, m.Cold)
}
