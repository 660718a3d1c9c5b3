package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImages(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want []string
	}{
		{"valid list", []byte(`["a.jpg","b.jpg"]`), []string{"a.jpg", "b.jpg"}},
		{"empty list", []byte(`[]`), []string{}},
		{"nil blob", nil, []string{}},
		{"empty blob", []byte(``), []string{}},
		{"corrupt json", []byte(`{"oops`), []string{}},
		{"wrong shape", []byte(`{"url":"a.jpg"}`), []string{}},
		{"json null", []byte(`null`), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeImages(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMeta(t *testing.T) {
	got := DecodeMeta([]byte(`{"red":"#ff0000"}`))
	assert.Equal(t, map[string]any{"red": "#ff0000"}, got)

	got = DecodeMeta([]byte(`["s","m","l"]`))
	assert.Equal(t, []any{"s", "m", "l"}, got)

	for _, raw := range [][]byte{nil, []byte(``), []byte(`null`), []byte(`{broken`)} {
		assert.Equal(t, map[string]any{}, DecodeMeta(raw), "raw=%q", raw)
	}
}

func TestEncodeField(t *testing.T) {
	raw, err := EncodeField(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = EncodeField([]string{"a.jpg"})
	require.NoError(t, err)
	assert.JSONEq(t, `["a.jpg"]`, string(raw))
}

func TestImages_RoundTrip(t *testing.T) {
	raw, err := EncodeField([]string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, DecodeImages(raw))
}
