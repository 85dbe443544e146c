package settings

import (
	"os"

	"smartstitch/internal/stitcher"
)

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "SMARTSTITCH_"

// ApplyEnvConfig applies configuration from environment variables (SMARTSTITCH_*).
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *stitcher.Settings, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString(FlagOutput, env("OUTPUT"), &cfg.OutputPath)
	s.setString(FlagOutputType, env("OUTPUT_TYPE"), &cfg.OutputType)
	s.setString(FlagPostProcess, env("POST_PROCESS"), &cfg.PostProcessPath)
	s.setString(FlagPostProcessArgs, env("POST_PROCESS_ARGS"), &cfg.PostProcessArgs)

	ints := []struct {
		flag, name string
		dst        *int
	}{
		{FlagSplitHeight, "SPLIT_HEIGHT", &cfg.SplitHeight},
		{FlagCustomWidth, "CUSTOM_WIDTH", &cfg.CustomWidth},
		{FlagSensitivity, "SENSITIVITY", &cfg.Sensitivity},
		{FlagScanStep, "SCAN_STEP", &cfg.ScanStep},
		{FlagMargin, "MARGIN", &cfg.IgnorableMargin},
	}
	for _, v := range ints {
		if err := s.setIntFromString(v.flag, env(v.name), v.dst); err != nil {
			return err
		}
	}

	s.setBoolFromString(FlagBatch, env("BATCH"), &cfg.BatchMode)
	s.setBoolFromString(FlagAutoOrient, env("AUTO_ORIENT"), &cfg.AutoOrient)
	s.setBoolFromString(FlagEnablePostProcess, env("ENABLE_POST_PROCESS"), &cfg.EnablePostProcess)

	if err := setEnum(s, FlagWidthMode, env("WIDTH_MODE"), ParseWidthMode, &cfg.WidthMode); err != nil {
		return err
	}
	if err := setEnum(s, FlagDetector, env("DETECTOR"), ParseDetector, &cfg.Detector); err != nil {
		return err
	}
	return setEnum(s, FlagFill, env("FILL"), ParseFill, &cfg.Fill)
}
