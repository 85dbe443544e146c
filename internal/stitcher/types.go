package stitcher

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"smartstitch/pkg/imgutil"
)

// WidthMode decides how per-image width mismatches are resolved.
type WidthMode int

const (
	WidthNoEnforcement WidthMode = iota
	WidthAutoUniform
	WidthMatchMin
	WidthCustom
	WidthMatchMax
)

func (m WidthMode) String() string {
	switch m {
	case WidthNoEnforcement:
		return "none"
	case WidthAutoUniform:
		return "auto"
	case WidthMatchMin:
		return "min"
	case WidthCustom:
		return "custom"
	case WidthMatchMax:
		return "max"
	default:
		return fmt.Sprintf("WidthMode(%d)", int(m))
	}
}

// DetectorType selects the cut-line strategy.
type DetectorType int

const (
	DetectorSmart DetectorType = iota
	DetectorDirectSplit
)

func (d DetectorType) String() string {
	switch d {
	case DetectorSmart:
		return "smart"
	case DetectorDirectSplit:
		return "direct"
	default:
		return fmt.Sprintf("DetectorType(%d)", int(d))
	}
}

// FillColor is the color of canvas area no source pixel was written to.
type FillColor int

const (
	FillBlack FillColor = iota
	FillWhite
)

func (f FillColor) String() string {
	if f == FillWhite {
		return "white"
	}
	return "black"
}

// RGBA returns the opaque pixel value for f.
func (f FillColor) RGBA() color.RGBA {
	if f == FillWhite {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return color.RGBA{A: 0xff}
}

// Settings is the fully resolved configuration of one run. The engine never
// mutates it and never consults any other configuration source.
type Settings struct {
	InputPath  string
	OutputPath string
	// OutputType is the page file extension, leading dot included.
	OutputType      string
	SplitHeight     int
	WidthMode       WidthMode
	CustomWidth     int
	Sensitivity     int
	ScanStep        int
	IgnorableMargin int
	BatchMode       bool
	Detector        DetectorType
	Fill            FillColor
	// AutoOrient applies EXIF orientation to JPEG and TIFF sources.
	AutoOrient bool

	EnablePostProcess bool
	PostProcessPath   string
	PostProcessArgs   string
}

// DefaultSettings mirrors the stock profile.
func DefaultSettings() Settings {
	return Settings{
		OutputType:      ".png",
		SplitHeight:     5000,
		WidthMode:       WidthAutoUniform,
		CustomWidth:     720,
		Sensitivity:     90,
		ScanStep:        5,
		IgnorableMargin: 5,
		Detector:        DetectorSmart,
		Fill:            FillBlack,
	}
}

// Validate reports the first problem that would make a run meaningless.
// Returned errors match ErrConfig.
func (s Settings) Validate() error {
	switch {
	case strings.TrimSpace(s.InputPath) == "":
		return configError("input path is required")
	case s.SplitHeight <= 0:
		return configError("split height must be positive, got %d", s.SplitHeight)
	case s.Sensitivity < 0 || s.Sensitivity > 100:
		return configError("sensitivity must be within 0..100, got %d", s.Sensitivity)
	case s.ScanStep <= 0:
		return configError("scan step must be positive, got %d", s.ScanStep)
	case s.IgnorableMargin < 0:
		return configError("ignorable margin must not be negative, got %d", s.IgnorableMargin)
	case s.WidthMode < WidthNoEnforcement || s.WidthMode > WidthMatchMax:
		return configError("unknown width mode %d", int(s.WidthMode))
	case s.WidthMode == WidthCustom && s.CustomWidth <= 0:
		return configError("custom width must be positive, got %d", s.CustomWidth)
	case s.Detector != DetectorSmart && s.Detector != DetectorDirectSplit:
		return configError("unknown detector type %d", int(s.Detector))
	case s.Fill != FillBlack && s.Fill != FillWhite:
		return configError("unknown fill color %d", int(s.Fill))
	case !strings.HasPrefix(s.OutputType, "."):
		return configError("output type %q must start with a dot", s.OutputType)
	case !CanEncode(s.OutputType):
		return configError("unsupported output type %q", s.OutputType)
	}
	return nil
}

// WidthModeFromInt converts the wire value of a width mode. Unknown values
// fall back to AutoUniform.
func WidthModeFromInt(v int) WidthMode {
	if v < int(WidthNoEnforcement) || v > int(WidthMatchMax) {
		return WidthAutoUniform
	}
	return WidthMode(v)
}

// UpdateKind distinguishes the two notifications a run emits.
type UpdateKind int

const (
	UpdateStatus UpdateKind = iota
	UpdateProgress
)

// ProgressUpdate is an advisory notification for the shell. Status updates
// carry Status; progress updates carry Percent in 0..100.
type ProgressUpdate struct {
	Kind    UpdateKind
	Status  string
	Percent float64
}

// Summary describes a completed run.
type Summary struct {
	Folders int
	Skipped int
	Pages   int
	Outputs []string
	// Warnings collects non-fatal post-process failures.
	Warnings []string
	Elapsed  time.Duration
}

// FileEntry is one enumerated source image.
type FileEntry struct {
	Path string
	Name string
	Kind imgutil.Kind
}
