package spanlib

import (
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

var ErrShellUnavailable = errors.New("plasma shell scripting interface unavailable")

const plasmaService = "org.kde.plasmashell"
const plasmaPath = "/PlasmaShell"
const plasmaEvaluate = "org.kde.PlasmaShell.evaluateScript"

// PlasmaApplier pushes slices to the desktop through plasmashell's
// scripting interface on the session bus.
type PlasmaApplier struct {
	conn *dbus.Conn
}

func NewPlasmaApplier() (*PlasmaApplier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShellUnavailable, err)
	}

	obj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	var owned bool
	if err := obj.Call("org.freedesktop.DBus.NameHasOwner", 0, plasmaService).Store(&owned); err != nil || !owned {
		conn.Close()
		return nil, fmt.Errorf("%w: %s is not on the session bus", ErrShellUnavailable, plasmaService)
	}

	return &PlasmaApplier{conn: conn}, nil
}

func (a *PlasmaApplier) Close() error {
	return a.conn.Close()
}

// Apply sets each desktop's wallpaper to its slice. Desktops without a
// matching slice, and slices without a matching desktop, are left alone.
func (a *PlasmaApplier) Apply(slices []Slice) error {
	if len(slices) == 0 {
		return nil
	}

	call := a.conn.Object(plasmaService, plasmaPath).
		Call(plasmaEvaluate, 0, wallpaperScript(slices))
	if call.Err != nil {
		return fmt.Errorf("%w: evaluateScript failed: %s", ErrShellUnavailable, call.Err)
	}
	return nil
}

// wallpaperScript walks the slices in reverse. Plasma enumerates desktops()
// in the opposite order from the monitor layout query, so the last monitor
// sliced lands on desktop 0. Each assignment is guarded by a length check
// so a missing desktop is skipped, not an error.
func wallpaperScript(slices []Slice) string {
	var b strings.Builder
	b.WriteString("var ds = desktops();\n")

	for i := len(slices) - 1; i >= 0; i-- {
		d := len(slices) - 1 - i
		s := slices[i]
		fmt.Fprintf(&b, "if (ds.length > %d) {\n", d)
		fmt.Fprintf(&b, "  var d = ds[%d];\n", d)
		b.WriteString("  d.wallpaperPlugin = \"org.kde.image\";\n")
		b.WriteString("  d.currentConfigGroup = [\"Wallpaper\", \"org.kde.image\", \"General\"];\n")
		fmt.Fprintf(&b, "  d.writeConfig(\"Image\", %q);\n", "file://"+s.Path)
		// FillMode 2 is "Scaled and Cropped"
		b.WriteString("  d.writeConfig(\"FillMode\", 2);\n")
		b.WriteString("}\n")
	}

	return b.String()
}
