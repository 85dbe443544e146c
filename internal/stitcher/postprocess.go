package stitcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// outputPlaceholder is replaced by the folder's output path in every
// post-process argument.
const outputPlaceholder = "{output}"

// SplitArgs tokenizes an argument template on spaces and tabs. A single or
// double quote toggles quoting and is dropped from the token.
func SplitArgs(args string) []string {
	var (
		result  []string
		current strings.Builder
		quoted  bool
	)
	for _, c := range args {
		switch {
		case c == '"' || c == '\'':
			quoted = !quoted
		case (c == ' ' || c == '\t') && !quoted:
			if current.Len() > 0 {
				result = append(result, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(c)
		}
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// PostProcessArgs expands template for one output folder.
func PostProcessArgs(template, output string) []string {
	args := SplitArgs(template)
	for i, arg := range args {
		args[i] = strings.ReplaceAll(arg, outputPlaceholder, output)
	}
	return args
}

// runPostProcess spawns the configured command for one folder and waits for
// it. A non-zero exit is returned with the command's stderr attached.
func runPostProcess(ctx context.Context, s Settings, output string) error {
	args := PostProcessArgs(s.PostProcessArgs, output)
	cmd := exec.CommandContext(ctx, s.PostProcessPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug().Str("exe", s.PostProcessPath).Strs("args", args).Msg("running post-process")
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &postProcessError{stderr: strings.TrimSpace(stderr.String()), err: err}
		}
		return err
	}
	return nil
}

// postProcessError is a command that ran but exited unsuccessfully.
type postProcessError struct {
	stderr string
	err    error
}

func (e *postProcessError) Error() string {
	if e.stderr == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%v: %s", e.err, e.stderr)
}

func (e *postProcessError) Unwrap() error { return e.err }
