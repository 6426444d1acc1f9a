package spanlib

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"strconv"

	_ "golang.org/x/image/bmp"
)

var ErrImageToolMissing = errors.New("ImageMagick not found")

// FitPolicy controls how the source image is shaped onto the canvas.
type FitPolicy string

const (
	// Resize to the exact canvas size, ignoring aspect ratio
	FitStretch FitPolicy = "stretch"
	// Scale to fit entirely inside the canvas, pad the rest
	FitFit FitPolicy = "fit"
	// Scale to cover the canvas, center-crop the overflow. The default.
	FitFill FitPolicy = "fill"
)

func ParseFitPolicy(s string) (FitPolicy, error) {
	switch FitPolicy(s) {
	case FitStretch, FitFit, FitFill:
		return FitPolicy(s), nil
	}
	return "", fmt.Errorf("unknown fit policy [%s], expected stretch, fit or fill", s)
}

// Magick drives ImageMagick through an injected Runner.
type Magick struct {
	c   *Config
	run Runner
}

func NewMagick(c *Config, run Runner) *Magick {
	return &Magick{c: c, run: run}
}

// Check verifies the convert binary exists before any work starts.
func (m *Magick) Check() error {
	if _, err := exec.LookPath(m.c.ImageMagick); err != nil {
		return fmt.Errorf("%w: [%s] not in PATH", ErrImageToolMissing, m.c.ImageMagick)
	}
	return nil
}

// Identify reads the pixel dimensions of an image. DecodeConfig is cheaper
// than forking identify and covers the formats we care about.
func (m *Magick) Identify(path string) (int, int, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer in.Close()

	img, _, err := image.DecodeConfig(in)
	if err != nil {
		return 0, 0, fmt.Errorf("could not read image [%s]: %w", path, err)
	}

	return img.Width, img.Height, nil
}

// ScaleCanvas produces the intermediate canvas, exactly width x height
// under every policy.
func (m *Magick) ScaleCanvas(in, out string, width, height int, policy FitPolicy) error {
	res := fmt.Sprintf("%dx%d", width, height)

	args := append(m.baseArgs(), in, "-filter", "Lanczos")

	switch policy {
	case FitStretch:
		args = append(args, "-resize", res+"!")
	case FitFit:
		args = append(args,
			"-resize", res,
			"-background", m.c.Background,
			"-gravity", "center",
			"-extent", res)
	default: // fill
		args = append(args,
			"-resize", res+"^",
			"-gravity", "center",
			"-crop", res+"+0+0!",
			"+repage")
	}

	args = append(args, out)

	_, err := m.run(m.c.ImageMagick, args...)
	return err
}

// CropSlice cuts one monitor's rectangle out of the canvas. +repage drops
// the virtual-canvas offset so the slice carries no crop metadata.
func (m *Magick) CropSlice(in, out string, width, height, x, y int) error {
	args := append(m.baseArgs(), in,
		"-crop", fmt.Sprintf("%dx%d+%d+%d", width, height, x, y),
		"+repage",
		"-quality", strconv.Itoa(m.c.Quality),
		out)

	_, err := m.run(m.c.ImageMagick, args...)
	return err
}

func (m *Magick) baseArgs() []string {
	if m.c.ImageMagick7 {
		return []string{"convert"}
	}
	return []string{}
}
