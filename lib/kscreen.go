package spanlib

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/exec"
)

const kscreenDoctor = "kscreen-doctor"

var ErrLayoutToolMissing = errors.New("no usable monitor layout source found")
var ErrLayoutEmpty = errors.New("monitor layout query returned no data")

// LayoutSource produces the list of active monitors, already filtered down
// to records with complete geometry.
type LayoutSource interface {
	Monitors() ([]Monitor, error)
}

// DetectLayoutSource prefers kscreen-doctor and falls back to querying X
// RandR directly when there is a live X session but no kscreen tooling.
func DetectLayoutSource() (LayoutSource, error) {
	if _, err := exec.LookPath(kscreenDoctor); err == nil {
		return &KScreenSource{Run: ExecRunner}, nil
	}

	if d := CurrentXDisplay(); d != "" {
		log.Printf("%s not found, falling back to X RandR on %s", kscreenDoctor, d)
		return &RandRSource{Display: d}, nil
	}

	return nil, ErrLayoutToolMissing
}

// KScreenSource reads monitor geometry from kscreen-doctor's JSON output.
type KScreenSource struct {
	Run Runner
}

type outputPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type outputSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Output is one raw display record as kscreen-doctor reports it. Pointer
// fields distinguish absent geometry from zero geometry.
type Output struct {
	Name     string      `json:"name"`
	Enabled  bool        `json:"enabled"`
	Pos      *outputPos  `json:"pos"`
	Size     *outputSize `json:"size"`
	Rotation int         `json:"rotation"`
	Scale    *float64    `json:"scale"`
}

type kscreenDoc struct {
	Outputs []Output `json:"outputs"`
}

func (s *KScreenSource) Monitors() ([]Monitor, error) {
	raw, err := s.Run(kscreenDoctor, "--json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s failed: %s", ErrLayoutEmpty, kscreenDoctor, err)
	}

	outputs, err := parseKScreenJSON(raw)
	if err != nil {
		return nil, err
	}

	return filterOutputs(outputs), nil
}

func parseKScreenJSON(raw []byte) ([]Output, error) {
	if len(raw) == 0 {
		return nil, ErrLayoutEmpty
	}

	var doc kscreenDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: unparseable %s output: %s",
			ErrLayoutEmpty, kscreenDoctor, err)
	}

	if len(doc.Outputs) == 0 {
		return nil, ErrLayoutEmpty
	}

	return doc.Outputs, nil
}

// filterOutputs keeps enabled outputs with complete geometry. Incomplete
// records are skipped with a warning, they do not abort the run.
func filterOutputs(outputs []Output) []Monitor {
	monitors := []Monitor{}
	for _, o := range outputs {
		if !o.Enabled {
			continue
		}
		if o.Pos == nil || o.Size == nil || o.Size.Width <= 0 || o.Size.Height <= 0 {
			log.Printf("Skipping output [%s]: missing position or size", o.Name)
			continue
		}

		scale := 1.0
		if o.Scale != nil && *o.Scale > 0 {
			scale = *o.Scale
		}

		monitors = append(monitors, Monitor{
			Name:     o.Name,
			X:        o.Pos.X,
			Y:        o.Pos.Y,
			Width:    o.Size.Width,
			Height:   o.Size.Height,
			Scale:    scale,
			Rotation: kscreenRotation(o.Rotation),
		})
	}
	return monitors
}

// kscreen rotation values are a bitmask: 1 none, 2 90°, 4 180°, 8 270°.
func kscreenRotation(r int) Rotation {
	switch r {
	case 2:
		return Rotation90
	case 4:
		return Rotation180
	case 8:
		return Rotation270
	}
	return RotationNone
}
