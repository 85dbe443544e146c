package settings

import (
	"github.com/spf13/pflag"

	"smartstitch/internal/stitcher"
)

// Flag names shared by the command line, profiles and environment.
const (
	FlagInput             = "input"
	FlagOutput            = "output"
	FlagOutputType        = "output-type"
	FlagSplitHeight       = "split-height"
	FlagWidthMode         = "width-mode"
	FlagCustomWidth       = "custom-width"
	FlagSensitivity       = "sensitivity"
	FlagScanStep          = "scan-step"
	FlagMargin            = "margin"
	FlagBatch             = "batch"
	FlagDetector          = "detector"
	FlagFill              = "fill"
	FlagAutoOrient        = "auto-orient"
	FlagEnablePostProcess = "enable-post-process"
	FlagPostProcess       = "post-process"
	FlagPostProcessArgs   = "post-process-args"
)

// BindFlags registers one flag per setting on fs, writing into cfg. The
// current values of cfg become the flag defaults.
func BindFlags(fs *pflag.FlagSet, cfg *stitcher.Settings) {
	fs.StringVarP(&cfg.InputPath, FlagInput, "i", cfg.InputPath, "Folder of page images to stitch")
	fs.StringVarP(&cfg.OutputPath, FlagOutput, "o", cfg.OutputPath, "Output folder (default: \"<input> [Stitched]\" next to the input)")
	fs.StringVarP(&cfg.OutputType, FlagOutputType, "t", cfg.OutputType, "Page file type: .png, .jpg, .webp, .bmp or .tiff")
	fs.IntVarP(&cfg.SplitHeight, FlagSplitHeight, "H", cfg.SplitHeight, "Target page height in pixels")
	fs.Var(&enumFlag[stitcher.WidthMode]{dst: &cfg.WidthMode, parse: ParseWidthMode, typ: "mode"}, FlagWidthMode,
		"Width handling: none, auto, min, custom or max")
	fs.IntVarP(&cfg.CustomWidth, FlagCustomWidth, "w", cfg.CustomWidth, "Page width for --width-mode custom")
	fs.IntVarP(&cfg.Sensitivity, FlagSensitivity, "s", cfg.Sensitivity, "Cut-line sensitivity, 0 (any row) to 100 (uniform rows only)")
	fs.IntVar(&cfg.ScanStep, FlagScanStep, cfg.ScanStep, "Rows skipped between cut-line candidates")
	fs.IntVar(&cfg.IgnorableMargin, FlagMargin, cfg.IgnorableMargin, "Columns ignored at each edge when testing a row")
	fs.BoolVarP(&cfg.BatchMode, FlagBatch, "b", cfg.BatchMode, "Treat each subfolder of the input as its own chapter")
	fs.Var(&enumFlag[stitcher.DetectorType]{dst: &cfg.Detector, parse: ParseDetector, typ: "detector"}, FlagDetector,
		"Cut-line detector: smart or direct")
	fs.Var(&enumFlag[stitcher.FillColor]{dst: &cfg.Fill, parse: ParseFill, typ: "color"}, FlagFill,
		"Color of uncovered canvas: black or white")
	fs.BoolVar(&cfg.AutoOrient, FlagAutoOrient, cfg.AutoOrient, "Apply EXIF orientation to JPEG and TIFF sources")
	fs.BoolVar(&cfg.EnablePostProcess, FlagEnablePostProcess, cfg.EnablePostProcess, "Run the post-process command after each folder")
	fs.StringVar(&cfg.PostProcessPath, FlagPostProcess, cfg.PostProcessPath, "Executable to run on each output folder")
	fs.StringVar(&cfg.PostProcessArgs, FlagPostProcessArgs, cfg.PostProcessArgs, "Arguments for the post-process command; {output} is replaced by the folder path")
}

// ChangedFlags returns the names of the flags explicitly set on fs.
func ChangedFlags(fs *pflag.FlagSet) map[string]bool {
	changed := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return changed
}

// Resolve layers p and the SMARTSTITCH_* environment over cfg, which already
// holds the parsed flag values. Explicitly set flags win over both.
// Precedence is defaults < profile < environment < flags.
func Resolve(cfg *stitcher.Settings, p Profile, fs *pflag.FlagSet) error {
	changed := ChangedFlags(fs)
	if err := ApplyProfile(cfg, p, changed); err != nil {
		return err
	}
	if err := ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	cfg.OutputType = NormalizeOutputType(cfg.OutputType)
	return nil
}
