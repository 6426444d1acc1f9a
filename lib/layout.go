package spanlib

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Rotation of a display as reported by the layout source. Recorded for
// display purposes only; it is not applied to any geometry.
type Rotation int

const (
	RotationNone Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

func (r Rotation) String() string {
	switch r {
	case Rotation90:
		return "90°"
	case Rotation180:
		return "180°"
	case Rotation270:
		return "270°"
	}
	return "none"
}

// Monitor is one active display, positioned in virtual-screen coordinates.
// X and Y can be negative. Width and Height are device pixels.
type Monitor struct {
	Name     string
	X        int
	Y        int
	Width    int
	Height   int
	Scale    float64
	Rotation Rotation
}

// The scale factor is truncated to its integer part before dividing, so a
// 1.5x monitor is treated as 1x. Fractional scales are not compensated
// precisely; this matches the behaviour desktops have come to rely on.
func (m *Monitor) scaleDivisor() int {
	d := int(m.Scale)
	if d < 1 {
		d = 1
	}
	return d
}

// EffectiveWidth is the logical footprint this monitor occupies in the
// virtual screen.
func (m *Monitor) EffectiveWidth() int {
	return m.Width / m.scaleDivisor()
}

func (m *Monitor) EffectiveHeight() int {
	return m.Height / m.scaleDivisor()
}

// Crop is a monitor together with its offset into the virtual screen's
// bounding box. Offsets are always >= 0.
type Crop struct {
	Monitor
	OffsetX int
	OffsetY int
}

// Layout is the normalized multi-monitor geometry: every monitor's crop
// rectangle plus the bounding box they all fit in.
type Layout struct {
	Crops []Crop
	MinX  int
	MinY  int
	// Size of the virtual screen, maxCorner - minCorner.
	Width  int
	Height int
}

var ErrNoMonitors = errors.New("no valid monitors detected")

// BuildLayout folds a list of monitors into a Layout. The bounding box is
// the componentwise min of positions and max of position + effective size,
// so scaled monitors contribute their logical footprint, not their pixel
// dimensions. Monitors keep their input order.
func BuildLayout(monitors []Monitor) (*Layout, error) {
	if len(monitors) == 0 {
		return nil, ErrNoMonitors
	}

	minX, minY := monitors[0].X, monitors[0].Y
	maxX := monitors[0].X + monitors[0].EffectiveWidth()
	maxY := monitors[0].Y + monitors[0].EffectiveHeight()

	for _, m := range monitors[1:] {
		if m.X < minX {
			minX = m.X
		}
		if m.Y < minY {
			minY = m.Y
		}
		if m.X+m.EffectiveWidth() > maxX {
			maxX = m.X + m.EffectiveWidth()
		}
		if m.Y+m.EffectiveHeight() > maxY {
			maxY = m.Y + m.EffectiveHeight()
		}
	}

	l := &Layout{
		Crops:  make([]Crop, 0, len(monitors)),
		MinX:   minX,
		MinY:   minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}

	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("%w: virtual screen would be %dx%d",
			ErrNoMonitors, l.Width, l.Height)
	}

	for _, m := range monitors {
		l.Crops = append(l.Crops, Crop{
			Monitor: m,
			OffsetX: m.X - minX,
			OffsetY: m.Y - minY,
		})
	}

	return l, nil
}

// Slice is one finished per-monitor wallpaper file. Slices are the product
// of a run and are never cleaned up.
type Slice struct {
	MonitorName string
	Width       int
	Height      int
	OffsetX     int
	OffsetY     int
	Path        string
}

// SliceFileName builds the output path for a monitor's slice: the source
// image's base name with its last extension removed, the monitor name
// appended, written as a jpg next to the source.
func SliceFileName(src, monitorName string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(src), base+"_"+monitorName+".jpg")
}
