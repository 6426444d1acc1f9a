package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	lib "spanwall/lib"
)

const noApply = "no-apply"
const configFlag = "config"

func spanAction(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		cli.ShowAppHelp(c)
		return errors.New("expected FILE and an optional fit policy")
	}

	src, err := filepath.Abs(c.Args().First())
	if err != nil {
		return err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot read [%s]: %w", src, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("[%s] is not a regular file", src)
	}

	policy := lib.FitFill
	if c.NArg() == 2 {
		policy, err = lib.ParseFitPolicy(c.Args().Get(1))
		if err != nil {
			return err
		}
	}

	conf, err := lib.LoadConfig(c.String(configFlag))
	if err != nil {
		return err
	}

	magick := lib.NewMagick(conf, lib.ExecRunner)
	if err = magick.Check(); err != nil {
		return err
	}

	source, err := lib.DetectLayoutSource()
	if err != nil {
		return err
	}

	monitors, err := source.Monitors()
	if err != nil {
		return err
	}

	layout, err := lib.BuildLayout(monitors)
	if err != nil {
		return err
	}

	fmt.Printf("Detected %d monitors, virtual screen %dx%d\n",
		len(layout.Crops), layout.Width, layout.Height)
	for _, cr := range layout.Crops {
		fmt.Printf("  %s: %dx%d at %+d%+d (scale %g, rotation %s)\n",
			cr.Name, cr.EffectiveWidth(), cr.EffectiveHeight(),
			cr.OffsetX, cr.OffsetY, cr.Scale, cr.Rotation)
	}

	srcW, srcH, err := magick.Identify(src)
	if err != nil {
		return err
	}

	tdir, err := conf.TempDir()
	if err != nil {
		return err
	}
	canvas := filepath.Join(tdir, "canvas.png")

	fmt.Printf("Scaling %dx%d source onto the canvas (%s)\n", srcW, srcH, policy)
	if err = magick.ScaleCanvas(src, canvas, layout.Width, layout.Height, policy); err != nil {
		return fmt.Errorf("scaling [%s] failed: %w", src, err)
	}

	slices := []lib.Slice{}
	cropErrors := 0
	for _, cr := range layout.Crops {
		out := lib.SliceFileName(src, cr.Name)
		fmt.Printf("Slicing %s: %dx%d at +%d+%d\n",
			cr.Name, cr.EffectiveWidth(), cr.EffectiveHeight(), cr.OffsetX, cr.OffsetY)

		err = magick.CropSlice(canvas, out,
			cr.EffectiveWidth(), cr.EffectiveHeight(), cr.OffsetX, cr.OffsetY)
		if err != nil {
			log.Printf("Cropping for %s failed: %v", cr.Name, err)
			cropErrors++
			continue
		}

		slices = append(slices, lib.Slice{
			MonitorName: cr.Name,
			Width:       cr.EffectiveWidth(),
			Height:      cr.EffectiveHeight(),
			OffsetX:     cr.OffsetX,
			OffsetY:     cr.OffsetY,
			Path:        out,
		})
	}

	fmt.Println("Produced:")
	for _, s := range slices {
		if sfi, serr := os.Stat(s.Path); serr == nil {
			fmt.Printf("  %s (%d bytes)\n", s.Path, sfi.Size())
		} else {
			fmt.Printf("  %s\n", s.Path)
		}
	}

	if c.Bool(noApply) {
		fmt.Println("Skipping wallpaper application (--no-apply).")
		fmt.Println("Assign each slice to its monitor with the \"Image\" wallpaper" +
			" plugin, positioning \"Scaled and Cropped\".")
	} else if len(slices) > 0 {
		if wm := lib.DetectWM(); wm != "" && !strings.Contains(strings.ToLower(wm), "kwin") {
			log.Printf("Window manager is [%s], not KWin; applying anyway", wm)
		}

		applier, err := lib.NewPlasmaApplier()
		if err != nil {
			return err
		}
		defer applier.Close()

		if err = applier.Apply(slices); err != nil {
			return err
		}
	}

	if cropErrors > 0 {
		log.Printf("%d of %d monitors could not be sliced", cropErrors, len(layout.Crops))
	} else {
		fmt.Println("Done.")
	}
	return nil
}
