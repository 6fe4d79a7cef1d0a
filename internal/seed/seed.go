// Package seed loads an initial product catalogue into an empty store.
// Catalogue files are CSV, optionally gzipped, and can live on the local
// filesystem or in S3.
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one catalogue row: a product to create at startup.
type Record struct {
	Name           string
	Description    string
	Stock          int
	RetailPrice    decimal.NullDecimal
	WholesalePrice decimal.NullDecimal
}

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a catalogue file and returns its records.
	Load(ctx context.Context, path string) ([]Record, error)
}

// parseCatalog reads CSV rows of the form
// name,description,stock,retail_price,wholesale_price. A header row is
// skipped; empty price cells mean the price is unset.
func parseCatalog(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	var records []Record
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalogue row %d: %w", line+1, err)
		}
		line++

		// Header row: the stock column is not numeric.
		if line == 1 {
			if _, err := strconv.Atoi(strings.TrimSpace(row[2])); err != nil {
				continue
			}
		}

		record, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalogue row %d: %w", line, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRecord(row []string) (Record, error) {
	name := strings.TrimSpace(row[0])
	if name == "" {
		return Record{}, fmt.Errorf("product name is empty")
	}

	stock, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return Record{}, fmt.Errorf("invalid stock %q: %w", row[2], err)
	}
	if stock < 0 {
		return Record{}, fmt.Errorf("negative stock %d", stock)
	}

	retail, err := parsePrice(row[3])
	if err != nil {
		return Record{}, fmt.Errorf("invalid retail price %q: %w", row[3], err)
	}
	wholesale, err := parsePrice(row[4])
	if err != nil {
		return Record{}, fmt.Errorf("invalid wholesale price %q: %w", row[4], err)
	}

	return Record{
		Name:           name,
		Description:    strings.TrimSpace(row[1]),
		Stock:          stock,
		RetailPrice:    retail,
		WholesalePrice: wholesale,
	}, nil
}

func parsePrice(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
