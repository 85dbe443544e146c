package settings

import (
	"fmt"
	"strconv"
	"strings"

	"smartstitch/internal/stitcher"
)

// ParseWidthMode accepts a mode name or its numeric value. Numbers outside
// the known range fall back to auto uniform.
func ParseWidthMode(v string) (stitcher.WidthMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "no-enforcement":
		return stitcher.WidthNoEnforcement, nil
	case "auto", "auto-uniform":
		return stitcher.WidthAutoUniform, nil
	case "min", "match-min":
		return stitcher.WidthMatchMin, nil
	case "custom":
		return stitcher.WidthCustom, nil
	case "max", "match-max":
		return stitcher.WidthMatchMax, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return stitcher.WidthAutoUniform, fmt.Errorf("unknown width mode %q (want none, auto, min, custom or max)", v)
	}
	return stitcher.WidthModeFromInt(n), nil
}

// ParseDetector accepts "smart", "direct" or their numeric values.
func ParseDetector(v string) (stitcher.DetectorType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "smart", "0":
		return stitcher.DetectorSmart, nil
	case "direct", "direct-split", "1":
		return stitcher.DetectorDirectSplit, nil
	}
	return stitcher.DetectorSmart, fmt.Errorf("unknown detector %q (want smart or direct)", v)
}

// ParseFill accepts "black", "white" or their numeric values.
func ParseFill(v string) (stitcher.FillColor, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "black", "0":
		return stitcher.FillBlack, nil
	case "white", "1":
		return stitcher.FillWhite, nil
	}
	return stitcher.FillBlack, fmt.Errorf("unknown fill color %q (want black or white)", v)
}

// NormalizeOutputType lowercases ext and adds the leading dot if missing.
func NormalizeOutputType(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// enumFlag adapts one of the engine enums to pflag.Value.
type enumFlag[T fmt.Stringer] struct {
	dst   *T
	parse func(string) (T, error)
	typ   string
}

func (f *enumFlag[T]) String() string {
	if f.dst == nil {
		return ""
	}
	return (*f.dst).String()
}

func (f *enumFlag[T]) Set(v string) error {
	parsed, err := f.parse(v)
	if err != nil {
		return err
	}
	*f.dst = parsed
	return nil
}

func (f *enumFlag[T]) Type() string { return f.typ }
