package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	require.Len(t, DefaultCatalog, 36)

	seen := make(map[Cell]string)
	for code, meta := range DefaultCatalog {
		assert.Len(t, code, 2)
		assert.Equal(t, code, meta.Code)
		assert.NotEmpty(t, meta.Name, code)
		assert.NotEmpty(t, meta.Short, code)
		assert.Positive(t, meta.Population, code)

		require.NotNil(t, meta.Cell, code)
		assert.True(t, meta.Cell.Col >= 1 && meta.Cell.Col <= 8, "%s col %d", code, meta.Cell.Col)
		assert.True(t, meta.Cell.Row >= 1 && meta.Cell.Row <= 8, "%s row %d", code, meta.Cell.Row)
		if other, dup := seen[*meta.Cell]; dup {
			t.Errorf("%s and %s share cell %+v", code, other, *meta.Cell)
		}
		seen[*meta.Cell] = code
	}

	dl, err := DefaultCatalog.Lookup("DL")
	require.NoError(t, err)
	assert.Equal(t, int64(testDelhiPopulation), dl.Population)
}

func TestCatalog_Lookup(t *testing.T) {
	_, err := DefaultCatalog.Lookup("XX")
	require.ErrorIs(t, err, ErrUnknownRegion)
}

func TestCatalog_Codes(t *testing.T) {
	codes := DefaultCatalog.Codes()
	require.Len(t, codes, 36)
	assert.Equal(t, "AN", codes[0])
	assert.IsIncreasing(t, codes)
}

func TestParseCatalog(t *testing.T) {
	t.Run("optional cell", func(t *testing.T) {
		c, err := ParseCatalog([]byte(`{"AA":{"name":"A","short":"A","pop_2020":10},"BB":{"name":"B","short":"B","pop_2020":20,"col":2,"row":3}}`))
		require.NoError(t, err)
		assert.Nil(t, c["AA"].Cell)
		assert.Equal(t, &Cell{Col: 2, Row: 3}, c["BB"].Cell)
	})

	t.Run("bad population", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`{"AA":{"name":"A","pop_2020":0}}`))
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`[`))
		require.Error(t, err)
	})
}

func TestRegionMeta_DisplayLabel(t *testing.T) {
	tests := []struct {
		short string
		want  string
	}{
		{short: "Delhi", want: "Delhi"},
		{short: "Andaman-Nicobar", want: "Andaman-\nNicobar"},
		{short: "Jammu & Kashmir", want: "Jammu & \nKashmir"},
	}
	for _, tt := range tests {
		t.Run(tt.short, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionMeta{Short: tt.short}.DisplayLabel())
		})
	}
}
