package http

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/couchcryptid/india-cartogram/internal/domain"
)

// parseOptions overlays query parameters on base. Recognized keys: cat, field,
// trend, scale, policy, mode, width, cols, rows, mobileCols.
func parseOptions(base domain.Options, q url.Values, threshold float64) (domain.Options, error) {
	var opts []domain.Option
	if v := q.Get("cat"); v != "" {
		opts = append(opts, domain.WithCategory(domain.Category(v)))
	}
	if v := q.Get("field"); v != "" {
		opts = append(opts, domain.WithField(domain.Field(v)))
	}
	if v := q.Get("trend"); v != "" {
		opts = append(opts, domain.WithTrendField(domain.Field(v)))
	}
	if v := q.Get("scale"); v != "" {
		opts = append(opts, domain.WithScale(domain.Scale(v)))
	}
	if v := q.Get("policy"); v != "" {
		opts = append(opts, domain.WithPolicy(domain.AveragePolicy(v)))
	}
	if v := q.Get("mode"); v != "" {
		opts = append(opts, domain.WithMode(domain.Mode(v)))
	}
	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil || width < 0 {
			return domain.Options{}, invalidParam("width", v)
		}
		opts = append(opts, domain.WithWidth(width, threshold))
	}

	cols, rows := base.Grid.Cols, base.Grid.Rows
	for _, p := range []struct {
		key string
		dst *int
	}{{"cols", &cols}, {"rows", &rows}} {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return domain.Options{}, invalidParam(p.key, v)
			}
			*p.dst = n
		}
	}
	opts = append(opts, domain.WithGrid(cols, rows))

	if v := q.Get("mobileCols"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.Options{}, invalidParam("mobileCols", v)
		}
		opts = append(opts, domain.WithMobileCols(n))
	}

	out := base.With(opts...)
	if err := out.Validate(); err != nil {
		return domain.Options{}, err
	}
	return out, nil
}

func invalidParam(key, value string) error {
	return fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, key, value)
}
