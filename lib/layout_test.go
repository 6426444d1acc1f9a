package spanlib

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLayout_SideBySide(t *testing.T) {
	layout, err := BuildLayout([]Monitor{
		{Name: "A", X: 0, Y: 0, Width: 1920, Height: 1080, Scale: 1},
		{Name: "B", X: 1920, Y: 0, Width: 1920, Height: 1080, Scale: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 3840, layout.Width)
	assert.Equal(t, 1080, layout.Height)

	require.Len(t, layout.Crops, 2)
	assert.Equal(t, 0, layout.Crops[0].OffsetX)
	assert.Equal(t, 0, layout.Crops[0].OffsetY)
	assert.Equal(t, 1920, layout.Crops[1].OffsetX)
	assert.Equal(t, 0, layout.Crops[1].OffsetY)
	assert.Equal(t, 1920, layout.Crops[1].EffectiveWidth())
	assert.Equal(t, 1080, layout.Crops[1].EffectiveHeight())
}

func TestBuildLayout_ScaledMonitor(t *testing.T) {
	layout, err := BuildLayout([]Monitor{
		{Name: "4k", X: 0, Y: 0, Width: 3840, Height: 2160, Scale: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 1920, layout.Width)
	assert.Equal(t, 1080, layout.Height)
	assert.Equal(t, 1920, layout.Crops[0].EffectiveWidth())
	assert.Equal(t, 1080, layout.Crops[0].EffectiveHeight())
}

func TestBuildLayout_MixedScales(t *testing.T) {
	// A 2x 4K monitor left of an unscaled 1080p monitor
	layout, err := BuildLayout([]Monitor{
		{Name: "4k", X: 0, Y: 0, Width: 3840, Height: 2160, Scale: 2},
		{Name: "1080p", X: 1920, Y: 0, Width: 1920, Height: 1080, Scale: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 3840, layout.Width)
	assert.Equal(t, 1080, layout.Height)
	assert.Equal(t, 1920, layout.Crops[1].OffsetX)
}

func TestBuildLayout_NegativePositions(t *testing.T) {
	layout, err := BuildLayout([]Monitor{
		{Name: "left", X: -1920, Y: -200, Width: 1920, Height: 1080, Scale: 1},
		{Name: "right", X: 0, Y: 0, Width: 2560, Height: 1440, Scale: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, -1920, layout.MinX)
	assert.Equal(t, -200, layout.MinY)
	assert.Equal(t, 4480, layout.Width)
	assert.Equal(t, 1640, layout.Height)

	for _, cr := range layout.Crops {
		assert.GreaterOrEqual(t, cr.OffsetX, 0)
		assert.GreaterOrEqual(t, cr.OffsetY, 0)
		assert.LessOrEqual(t, cr.OffsetX+cr.EffectiveWidth(), layout.Width)
		assert.LessOrEqual(t, cr.OffsetY+cr.EffectiveHeight(), layout.Height)
	}
}

func TestBuildLayout_CropsWithinBounds(t *testing.T) {
	monitors := []Monitor{
		{Name: "a", X: 0, Y: 360, Width: 1920, Height: 1080, Scale: 1},
		{Name: "b", X: 1920, Y: 0, Width: 3840, Height: 2160, Scale: 2},
		{Name: "c", X: 3840, Y: 360, Width: 1920, Height: 1080, Scale: 1.25},
		{Name: "d", X: -1080, Y: -500, Width: 1080, Height: 1920, Scale: 1},
	}

	layout, err := BuildLayout(monitors)
	require.NoError(t, err)
	require.Len(t, layout.Crops, len(monitors))

	for _, cr := range layout.Crops {
		assert.GreaterOrEqual(t, cr.OffsetX, 0, cr.Name)
		assert.GreaterOrEqual(t, cr.OffsetY, 0, cr.Name)
		assert.LessOrEqual(t, cr.OffsetX+cr.EffectiveWidth(), layout.Width, cr.Name)
		assert.LessOrEqual(t, cr.OffsetY+cr.EffectiveHeight(), layout.Height, cr.Name)
	}
}

func TestBuildLayout_PreservesInputOrder(t *testing.T) {
	layout, err := BuildLayout([]Monitor{
		{Name: "right", X: 1920, Y: 0, Width: 1920, Height: 1080, Scale: 1},
		{Name: "left", X: 0, Y: 0, Width: 1920, Height: 1080, Scale: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "right", layout.Crops[0].Name)
	assert.Equal(t, "left", layout.Crops[1].Name)
}

func TestBuildLayout_Empty(t *testing.T) {
	_, err := BuildLayout(nil)
	assert.ErrorIs(t, err, ErrNoMonitors)
}

func TestEffectiveSize_TruncatesFractionalScale(t *testing.T) {
	// 1.5 truncates to 1, fractional scales are deliberately not compensated
	m := Monitor{Width: 2880, Height: 1800, Scale: 1.5}
	assert.Equal(t, 2880, m.EffectiveWidth())
	assert.Equal(t, 1800, m.EffectiveHeight())

	m.Scale = 2.75
	assert.Equal(t, 1440, m.EffectiveWidth())
	assert.Equal(t, 900, m.EffectiveHeight())
}

func TestSliceFileName(t *testing.T) {
	got := SliceFileName(filepath.Join("/", "pics", "beach.sunset.png"), "DP-1")
	assert.Equal(t, filepath.Join("/", "pics", "beach.sunset_DP-1.jpg"), got)

	got = SliceFileName(filepath.Join("/", "pics", "plain"), "HDMI-A-2")
	assert.Equal(t, filepath.Join("/", "pics", "plain_HDMI-A-2.jpg"), got)
}
