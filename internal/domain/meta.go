package domain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed data/india_states_meta.json
var indiaStatesMeta []byte

// Catalog maps region codes to their reference metadata.
type Catalog map[string]RegionMeta

// DefaultCatalog is the 36-entry reference table for Indian states and union
// territories, parsed once at process start.
var DefaultCatalog = mustParseCatalog(indiaStatesMeta)

// metaRecord mirrors one entry of the reference JSON file.
type metaRecord struct {
	Name       string `json:"name"`
	Short      string `json:"short"`
	Population int64  `json:"pop_2020"`
	Col        *int   `json:"col"`
	Row        *int   `json:"row"`
}

// ParseCatalog decodes a reference table keyed by region code.
func ParseCatalog(data []byte) (Catalog, error) {
	var records map[string]metaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	catalog := make(Catalog, len(records))
	for code, rec := range records {
		if rec.Population <= 0 {
			return nil, fmt.Errorf("%w: region %s has population %d", ErrInvalidInput, code, rec.Population)
		}
		meta := RegionMeta{
			Code:       code,
			Name:       rec.Name,
			Short:      rec.Short,
			Population: rec.Population,
		}
		if rec.Col != nil && rec.Row != nil {
			meta.Cell = &Cell{Col: *rec.Col, Row: *rec.Row}
		}
		catalog[code] = meta
	}
	return catalog, nil
}

func mustParseCatalog(data []byte) Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the metadata for code, or ErrUnknownRegion.
func (c Catalog) Lookup(code string) (RegionMeta, error) {
	meta, ok := c[code]
	if !ok {
		return RegionMeta{}, fmt.Errorf("%w: %q", ErrUnknownRegion, code)
	}
	return meta, nil
}

// Codes returns the catalog's region codes in sorted order.
func (c Catalog) Codes() []string {
	codes := make([]string, 0, len(c))
	for code := range c {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DisplayLabel is the short label broken onto two lines the way the chart
// headers show it: after a hyphen, and before "Kashmir".
func (m RegionMeta) DisplayLabel() string {
	label := strings.Replace(m.Short, "-", "-\n", 1)
	return strings.Replace(label, "Kashmir", "\nKashmir", 1)
}
