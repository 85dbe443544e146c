// Package stitcher concatenates ordered page images into one tall canvas and
// slices it back into fixed-height pages at visually quiet rows.
package stitcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"time"
)

// Run processes every folder selected by s, one after another, sending
// status and progress notifications to updates (which may be nil).
//
// The work happens on a dedicated goroutine; Run blocks until it finishes.
// Any enumeration, decode or write failure aborts the whole run, leaving
// pages of already finished folders on disk. Post-process failures are only
// reported. A panic in the worker is returned as ErrWorkerPanic.
//
// Notifications are not acknowledged, but a send waits while updates is full.
// Callers passing a channel must keep draining it until Run returns, or
// cancel ctx.
func Run(ctx context.Context, s Settings, updates chan<- ProgressUpdate) (Summary, error) {
	if err := s.Validate(); err != nil {
		return Summary{}, err
	}
	if abs, err := filepath.Abs(s.InputPath); err == nil {
		s.InputPath = abs
	}

	type outcome struct {
		summary Summary
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		var o outcome
		defer func() {
			if p := recover(); p != nil {
				logger.Error().Interface("panic", p).Bytes("stack", debug.Stack()).Msg("stitch worker crashed")
				o.err = fmt.Errorf("%w: %v", ErrWorkerPanic, p)
			}
			done <- o
		}()
		r := &runner{settings: s, emit: emitter{ctx: ctx, updates: updates}}
		o.summary, o.err = r.run(ctx)
	}()

	res := <-done
	return res.summary, res.err
}

type runner struct {
	settings Settings
	emit     emitter
}

func (r *runner) run(ctx context.Context) (Summary, error) {
	s := r.settings
	start := time.Now()
	var sum Summary

	folders, err := discoverFolders(s)
	if err != nil {
		r.emit.status("Error: %v", err)
		return sum, err
	}
	logger.Info().Int("folders", len(folders)).Bool("batch", s.BatchMode).Msg("run started")

	for i, folder := range folders {
		res, err := r.processFolder(ctx, folder, i, len(folders))
		sum.Pages += res.pages
		if err != nil {
			sum.Elapsed = time.Since(start)
			r.emit.status("Error in %s: %v", folder, err)
			logger.Error().Err(err).Str("folder", folder).Msg("run aborted")
			return sum, err
		}
		if res.skipped {
			sum.Skipped++
			r.emit.status("Skipped %s: no images", filepath.Base(folder))
			logger.Info().Str("folder", folder).Msg("no images, skipped")
			continue
		}

		sum.Folders++
		sum.Outputs = append(sum.Outputs, res.output)

		if s.EnablePostProcess && s.PostProcessPath != "" {
			if msg, ok := r.postProcess(ctx, res.output); !ok {
				sum.Warnings = append(sum.Warnings, msg)
			}
		}
	}

	sum.Elapsed = time.Since(start)
	r.emit.status("Done in %.2fs", sum.Elapsed.Seconds())
	r.emit.progress(100)
	logger.Info().Int("folders", sum.Folders).Int("pages", sum.Pages).Dur("elapsed", sum.Elapsed).Msg("run finished")
	return sum, nil
}

// postProcess runs the external command for one output folder and reports
// the outcome as a status. It returns the failure message and false when the
// command could not be run or exited unsuccessfully.
func (r *runner) postProcess(ctx context.Context, output string) (string, bool) {
	r.emit.status("Running Post Process...")
	err := runPostProcess(ctx, r.settings, output)
	if err == nil {
		r.emit.status("Post Process finished.")
		return "", true
	}

	var msg string
	var failed *postProcessError
	if errors.As(err, &failed) {
		msg = "Post Process Failed: " + failed.stderr
	} else {
		msg = "Could not run script: " + err.Error()
	}
	r.emit.status("%s", msg)
	logger.Warn().Err(err).Str("output", output).Msg("post-process failed")
	return msg, false
}

// emitter delivers notifications. A send blocks only while the channel buffer
// is full and gives up once ctx is done.
type emitter struct {
	ctx     context.Context
	updates chan<- ProgressUpdate
}

func (e emitter) status(format string, args ...any) {
	e.send(ProgressUpdate{Kind: UpdateStatus, Status: fmt.Sprintf(format, args...)})
}

func (e emitter) progress(percent float64) {
	e.send(ProgressUpdate{Kind: UpdateProgress, Percent: percent})
}

func (e emitter) send(u ProgressUpdate) {
	if e.updates == nil {
		return
	}
	select {
	case e.updates <- u:
	case <-e.ctx.Done():
	}
}
