package constant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in   string
		want Resolution
	}{
		{"180p", Resolution180p},
		{"360p", Resolution360p},
		{"720p", Resolution720p},
		{"1080p", Resolution1080p},
		{"720", Resolution720p},
		{" 1080P ", Resolution1080p},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResolution(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResolution_Unknown(t *testing.T) {
	for _, in := range []string{"", "240p", "4k", "p"} {
		_, err := ParseResolution(in)
		assert.ErrorIs(t, err, ErrUnknownResolution, in)
	}
}

func TestLadderOrderAndHeights(t *testing.T) {
	var heights []int
	for _, r := range Ladder() {
		heights = append(heights, r.Height())
	}
	assert.Equal(t, []int{180, 360, 720, 1080}, heights)
	assert.False(t, Resolution(0).Valid())
	assert.Equal(t, 0, Resolution(9).Height())
}

func TestResolutionScanValue(t *testing.T) {
	v, err := Resolution720p.Value()
	require.NoError(t, err)
	assert.Equal(t, "720p", v)

	var r Resolution
	require.NoError(t, r.Scan([]byte("360p")))
	assert.Equal(t, Resolution360p, r)
	assert.Error(t, r.Scan(42))

	_, err = Resolution(0).Value()
	assert.ErrorIs(t, err, ErrUnknownResolution)
}

func TestGenreValid(t *testing.T) {
	assert.True(t, GenreSciFi.Valid())
	assert.Equal(t, "Science Fiction", GenreSciFi.Label())
	assert.False(t, Genre("western").Valid())
}
