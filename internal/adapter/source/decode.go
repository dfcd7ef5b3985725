// Package source loads the raw time-indexed dataset from a file or URL.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

const dateLayout = "2006-01-02"

// stateRecord is one entry of the "states" object.
type stateRecord struct {
	Name     string                         `json:"name"`
	Reported map[domain.Category][]*float64 `json:"reported"`
}

// Decode parses a dataset document. The "states" object is read token by
// token so regions keep their document order.
func Decode(r io.Reader) (domain.Dataset, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}

	var ds domain.Dataset
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("decode dataset: %w", err)
		}
		switch key {
		case "series":
			var raw []string
			if err := dec.Decode(&raw); err != nil {
				return domain.Dataset{}, fmt.Errorf("decode series: %w", err)
			}
			if ds.Dates, err = parseDates(raw); err != nil {
				return domain.Dataset{}, err
			}
		case "states":
			if ds.Regions, err = decodeStates(dec); err != nil {
				return domain.Dataset{}, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return domain.Dataset{}, fmt.Errorf("decode %s: %w", key, err)
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

func decodeStates(dec *json.Decoder) ([]domain.RawRegion, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}
	var regions []domain.RawRegion
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, fmt.Errorf("decode states: %w", err)
		}
		var rec stateRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode state %s: %w", key, err)
		}
		regions = append(regions, domain.RawRegion{Key: key, Name: rec.Name, Reported: rec.Reported})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}
	return regions, nil
}

func parseDates(raw []string) ([]time.Time, error) {
	dates := make([]time.Time, len(raw))
	for i, s := range raw {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			if t, err = time.Parse(time.RFC3339, s); err != nil {
				return nil, fmt.Errorf("%w: series[%d] %q is not a date", domain.ErrInvalidInput, i, s)
			}
		}
		dates[i] = t.UTC()
	}
	return dates, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// Encode writes ds in the document format Decode reads, keeping region order.
func Encode(w io.Writer, ds domain.Dataset) error {
	series := make([]string, len(ds.Dates))
	for i, d := range ds.Dates {
		series[i] = d.Format(dateLayout)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"series":`)
	if err := writeJSON(&buf, series); err != nil {
		return err
	}
	buf.WriteString(`,"states":{`)
	for i, r := range ds.Regions {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, r.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, stateRecord{Name: r.Name, Reported: r.Reported}); err != nil {
			return err
		}
	}
	buf.WriteString("}}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	buf.Write(data)
	return nil
}
