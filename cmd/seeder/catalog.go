// cmd/seeder/catalog.go
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// Sheet names expected in a catalog workbook
const (
	motorcyclesSheet = "Motorcycles"
	partsSheet       = "Parts"
)

// Catalog is the seed data: the fleet and the parts stocked for it
type Catalog struct {
	Motorcycles []*domain.Motorcycle
	Parts       []*domain.InventoryPart
}

// LoadCatalog reads a workbook with a Motorcycles sheet
// (brand, model, year, vin, license plate, mileage) and a Parts sheet
// (name, category, reference, stock, threshold, unit price, models separated by ';').
// The first row of each sheet is a header.
func LoadCatalog(data []byte) (*Catalog, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	catalog := &Catalog{}

	if sheet, ok := file.Sheet[motorcyclesSheet]; ok {
		err := forEachDataRow(sheet, func(line int, get func(int) string) error {
			m, err := parseMotorcycle(get)
			if err != nil {
				return fmt.Errorf("%s row %d: %w", motorcyclesSheet, line, err)
			}
			if m != nil {
				catalog.Motorcycles = append(catalog.Motorcycles, m)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if sheet, ok := file.Sheet[partsSheet]; ok {
		err := forEachDataRow(sheet, func(line int, get func(int) string) error {
			p, err := parsePart(get)
			if err != nil {
				return fmt.Errorf("%s row %d: %w", partsSheet, line, err)
			}
			if p != nil {
				catalog.Parts = append(catalog.Parts, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(catalog.Motorcycles) == 0 && len(catalog.Parts) == 0 {
		return nil, fmt.Errorf("catalog has no %s or %s rows", motorcyclesSheet, partsSheet)
	}
	return catalog, nil
}

func forEachDataRow(sheet *xlsx.Sheet, fn func(line int, get func(int) string) error) error {
	line := 0
	return sheet.ForEachRow(func(r *xlsx.Row) error {
		line++
		// Skip header
		if line == 1 {
			return nil
		}

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}
		return fn(line, get)
	})
}

func parseMotorcycle(get func(int) string) (*domain.Motorcycle, error) {
	vin := strings.ToUpper(get(3))
	if vin == "" {
		return nil, nil
	}

	year, err := strconv.Atoi(get(2))
	if err != nil {
		return nil, fmt.Errorf("invalid year %q", get(2))
	}
	mileage := 0
	if raw := get(5); raw != "" {
		if mileage, err = strconv.Atoi(raw); err != nil || mileage < 0 {
			return nil, fmt.Errorf("invalid mileage %q", raw)
		}
	}

	now := time.Now().UTC()
	return &domain.Motorcycle{
		ID:           uuid.New(),
		Brand:        get(0),
		Model:        get(1),
		Year:         year,
		VIN:          vin,
		LicensePlate: get(4),
		Mileage:      mileage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func parsePart(get func(int) string) (*domain.InventoryPart, error) {
	if get(0) == "" && get(2) == "" {
		return nil, nil
	}

	stock, err := atoiDefault(get(3))
	if err != nil {
		return nil, fmt.Errorf("invalid stock %q", get(3))
	}
	threshold, err := atoiDefault(get(4))
	if err != nil {
		return nil, fmt.Errorf("invalid threshold %q", get(4))
	}
	price := decimal.Zero
	if raw := get(5); raw != "" {
		if price, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("invalid unit price %q", raw)
		}
	}

	var models []string
	if raw := get(6); raw != "" {
		models = strings.Split(raw, ";")
	}

	return domain.NewInventoryPart(domain.NewInventoryPartParams{
		Name:              get(0),
		Category:          domain.PartCategory(strings.ToUpper(get(1))),
		ReferenceNumber:   get(2),
		CurrentStock:      stock,
		MinStockThreshold: threshold,
		UnitPrice:         price,
		MotorcycleModels:  models,
	})
}

func atoiDefault(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// DefaultCatalog is seeded when no workbook is given
func DefaultCatalog() *Catalog {
	now := time.Now().UTC()
	bike := func(brand, model string, year int, vin, plate string, mileage int) *domain.Motorcycle {
		return &domain.Motorcycle{
			ID: uuid.New(), Brand: brand, Model: model, Year: year, VIN: vin,
			LicensePlate: plate, Mileage: mileage, CreatedAt: now, UpdatedAt: now,
		}
	}
	part := func(name string, category domain.PartCategory, ref string, stock, threshold int, price string, models ...string) *domain.InventoryPart {
		p, err := domain.NewInventoryPart(domain.NewInventoryPartParams{
			Name:              name,
			Category:          category,
			ReferenceNumber:   ref,
			CurrentStock:      stock,
			MinStockThreshold: threshold,
			UnitPrice:         decimal.RequireFromString(price),
			MotorcycleModels:  models,
		})
		if err != nil {
			panic(err)
		}
		return p
	}

	return &Catalog{
		Motorcycles: []*domain.Motorcycle{
			bike("Yamaha", "MT-07", 2021, "JYARM06E0MA000101", "AB-123-CD", 18250),
			bike("Honda", "CB500F", 2022, "MLHPC6310N5000202", "EF-456-GH", 9400),
			bike("Kawasaki", "Z650", 2020, "JKAER650ALA000303", "IJ-789-KL", 27610),
			bike("BMW", "R 1250 GS", 2023, "WB10M1300P6000404", "MN-012-OP", 5120),
		},
		Parts: []*domain.InventoryPart{
			part("Oil filter HF204", domain.CategoryOilFilter, "HF-204", 24, 6, "9.90", "MT-07", "CB500F"),
			part("Oil filter HF303", domain.CategoryOilFilter, "HF-303", 4, 5, "11.50", "Z650"),
			part("Front brake pads sintered", domain.CategoryBrakePad, "FA-252HH", 10, 4, "42.00", "MT-07", "Z650"),
			part("Rear brake pads organic", domain.CategoryBrakePad, "FA-174", 2, 3, "28.40", "CB500F"),
			part("Brake fluid DOT4 500ml", domain.CategoryBrakeSystem, "DOT4-500", 12, 4, "8.75"),
			part("Chain kit 520", domain.CategoryChain, "DID-520VX3", 3, 2, "139.00", "MT-07", "Z650"),
			part("Spark plug CR9EIA-9", domain.CategorySparkPlug, "NGK-CR9EIA9", 30, 8, "14.20", "MT-07", "CB500F", "Z650"),
			part("Road tire 180/55 ZR17", domain.CategoryTire, "PR5-18055", 2, 2, "189.00"),
		},
	}
}
