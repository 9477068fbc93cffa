// Package catalog loads the default account types, card types and
// products used to seed a fresh database.
package catalog

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/shopspring/decimal"
)

//go:embed catalog.csv
var catalogCSV string

const columns = 4

// Entry is one seed row.
type Entry struct {
	Kind    product.Kind
	Details product.Details
}

// Load reads seed entries from path, or from the embedded defaults when
// path is empty.
func Load(path string) ([]Entry, error) {
	var r io.Reader
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		r = f
	} else {
		r = strings.NewReader(catalogCSV)
	}
	return parse(r)
}

func parse(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	// Short rows are skipped below rather than rejected.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("invalid CSV format: missing header")
	}
	if len(records[0]) < columns {
		return nil, fmt.Errorf("invalid CSV format: expected at least %d columns, got %d", columns, len(records[0]))
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < columns {
			continue
		}
		kind, err := parseKind(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		d := product.Details{Name: rec[1], Description: rec[2]}
		if s := strings.TrimSpace(rec[3]); s != "" {
			d.Interest, err = decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid interest %q", i+2, s)
			}
		}
		entries = append(entries, Entry{Kind: kind, Details: d})
	}
	return entries, nil
}

func parseKind(s string) (product.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "product":
		return product.KindProduct, nil
	case "account_type":
		return product.KindAccountType, nil
	case "card_type":
		return product.KindCardType, nil
	}
	return "", fmt.Errorf("unknown kind %q", s)
}
