package spanlib

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Assumes a display ID of the form ":[0-9]+"
// True if it's definitely a local X session
func testXSession(display string) bool {
	_, err := os.Stat("/tmp/.X11-unix/X" + strings.TrimLeft(display, ":"))
	return err == nil
}

var displayRE = regexp.MustCompile(`^:[0-9]+`)

// Trims individual screens out of an X11 DISPLAY variable
func trimDisplay(display string) string {
	trimmed := displayRE.FindString(display)
	if trimmed != "" {
		return trimmed
	}
	return display
}

// CurrentXDisplay returns the display ID of the local X session $DISPLAY
// points at, or "" when there is none.
func CurrentXDisplay() string {
	d := trimDisplay(os.Getenv("DISPLAY"))
	if d != "" && testXSession(d) {
		return d
	}
	return ""
}

// RandRSource reads CRTC geometry straight from the X server. RandR has no
// notion of a scale factor so every monitor reports scale 1.
type RandRSource struct {
	Display string
}

func (s *RandRSource) Monitors() ([]Monitor, error) {
	// Stop polluting stdout
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	X, err := xgbutil.NewConnDisplay(s.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutEmpty, err)
	}
	Xgb := X.Conn()
	defer Xgb.Close()

	err = randr.Init(Xgb)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutEmpty, err)
	}

	root := xproto.Setup(Xgb).DefaultScreen(Xgb).Root

	resources, err := randr.GetScreenResources(Xgb, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutEmpty, err)
	}

	monitors := []Monitor{}
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(Xgb, crtc, 0).Reply()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrLayoutEmpty, err)
		}

		// Disabled CRTCs report zero dimensions
		if info.Width == 0 || info.Height == 0 {
			continue
		}

		monitors = append(monitors, Monitor{
			Name:     crtcName(Xgb, info, i),
			X:        int(info.X),
			Y:        int(info.Y),
			Width:    int(info.Width),
			Height:   int(info.Height),
			Scale:    1,
			Rotation: randrRotation(info.Rotation),
		})
	}

	return monitors, nil
}

func crtcName(Xgb *xgb.Conn, info *randr.GetCrtcInfoReply, i int) string {
	if len(info.Outputs) > 0 {
		oinfo, err := randr.GetOutputInfo(Xgb, info.Outputs[0], 0).Reply()
		if err == nil && len(oinfo.Name) > 0 {
			return string(oinfo.Name)
		}
	}
	return fmt.Sprintf("crtc-%d", i)
}

func randrRotation(r uint16) Rotation {
	switch {
	case r&randr.RotationRotate90 != 0:
		return Rotation90
	case r&randr.RotationRotate180 != 0:
		return Rotation180
	case r&randr.RotationRotate270 != 0:
		return Rotation270
	}
	return RotationNone
}

// DetectWM asks the window manager to identify itself over EWMH.
// Best-effort, "" when nothing could be determined.
func DetectWM() string {
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	X, err := xgbutil.NewConnDisplay("")
	if err != nil {
		return ""
	}
	defer X.Conn().Close()

	wm, err := ewmh.GetEwmhWM(X)
	if err != nil {
		return ""
	}
	return wm
}
