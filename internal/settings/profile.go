package settings

import (
	"smartstitch/internal/stitcher"
)

// Profile is a named preset as stored in the config file. Enums are stored by
// name. Pointer fields distinguish "unset" from a meaningful zero, so a
// hand-written profile may leave keys out and keep the defaults for them.
type Profile struct {
	InputPath         string `toml:"input_path,omitempty"`
	OutputPath        string `toml:"output_path,omitempty"`
	OutputType        string `toml:"output_type"`
	SplitHeight       int    `toml:"split_height"`
	WidthMode         string `toml:"width_mode"`
	CustomWidth       int    `toml:"custom_width"`
	Sensitivity       *int   `toml:"sensitivity"`
	ScanStep          int    `toml:"scan_step"`
	IgnorableMargin   *int   `toml:"ignorable_margin"`
	BatchMode         *bool  `toml:"batch_mode"`
	Detector          string `toml:"detector"`
	FillColor         string `toml:"fill_color"`
	AutoOrient        *bool  `toml:"auto_orient"`
	EnablePostProcess *bool  `toml:"enable_post_process"`
	PostProcessPath   string `toml:"post_process_path,omitempty"`
	PostProcessArgs   string `toml:"post_process_args,omitempty"`
}

// ProfileFromSettings captures every field of s.
func ProfileFromSettings(s stitcher.Settings) Profile {
	return Profile{
		InputPath:         s.InputPath,
		OutputPath:        s.OutputPath,
		OutputType:        s.OutputType,
		SplitHeight:       s.SplitHeight,
		WidthMode:         s.WidthMode.String(),
		CustomWidth:       s.CustomWidth,
		Sensitivity:       &s.Sensitivity,
		ScanStep:          s.ScanStep,
		IgnorableMargin:   &s.IgnorableMargin,
		BatchMode:         &s.BatchMode,
		Detector:          s.Detector.String(),
		FillColor:         s.Fill.String(),
		AutoOrient:        &s.AutoOrient,
		EnablePostProcess: &s.EnablePostProcess,
		PostProcessPath:   s.PostProcessPath,
		PostProcessArgs:   s.PostProcessArgs,
	}
}

// ApplyProfile copies the values set in p onto cfg, skipping any field whose
// flag was explicitly changed.
func ApplyProfile(cfg *stitcher.Settings, p Profile, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString(FlagInput, p.InputPath, &cfg.InputPath)
	s.setString(FlagOutput, p.OutputPath, &cfg.OutputPath)
	s.setString(FlagOutputType, p.OutputType, &cfg.OutputType)
	s.setString(FlagPostProcess, p.PostProcessPath, &cfg.PostProcessPath)
	s.setString(FlagPostProcessArgs, p.PostProcessArgs, &cfg.PostProcessArgs)

	s.setInt(FlagSplitHeight, p.SplitHeight, &cfg.SplitHeight)
	s.setInt(FlagCustomWidth, p.CustomWidth, &cfg.CustomWidth)
	s.setInt(FlagScanStep, p.ScanStep, &cfg.ScanStep)
	s.setIntPtr(FlagSensitivity, p.Sensitivity, &cfg.Sensitivity)
	s.setIntPtr(FlagMargin, p.IgnorableMargin, &cfg.IgnorableMargin)

	s.setBool(FlagBatch, p.BatchMode, &cfg.BatchMode)
	s.setBool(FlagAutoOrient, p.AutoOrient, &cfg.AutoOrient)
	s.setBool(FlagEnablePostProcess, p.EnablePostProcess, &cfg.EnablePostProcess)

	if err := setEnum(s, FlagWidthMode, p.WidthMode, ParseWidthMode, &cfg.WidthMode); err != nil {
		return err
	}
	if err := setEnum(s, FlagDetector, p.Detector, ParseDetector, &cfg.Detector); err != nil {
		return err
	}
	return setEnum(s, FlagFill, p.FillColor, ParseFill, &cfg.Fill)
}
