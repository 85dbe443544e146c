package stitcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const stitchedSuffix = " [Stitched]"

// OutputFolder resolves where the pages of input are written. Without an
// output path the folder is a sibling of input named "<input> [Stitched]".
// With one, batch runs get a "<subfolder> [Stitched]" child of it and single
// runs write into it directly.
func OutputFolder(s Settings, input string) string {
	input = filepath.Clean(input)
	stitched := filepath.Base(input) + stitchedSuffix
	switch {
	case s.OutputPath == "":
		return filepath.Join(filepath.Dir(input), stitched)
	case s.BatchMode:
		return filepath.Join(s.OutputPath, stitched)
	default:
		return s.OutputPath
	}
}

type folderResult struct {
	output  string
	pages   int
	skipped bool
}

// processFolder stitches every image of dir and slices the result into
// pages. idx and total position dir within the batch for status messages.
func (r *runner) processFolder(ctx context.Context, dir string, idx, total int) (folderResult, error) {
	s := r.settings
	files, err := ListImages(dir)
	if err != nil {
		return folderResult{}, err
	}
	if len(files) == 0 {
		return folderResult{skipped: true}, nil
	}

	out := OutputFolder(s, dir)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return folderResult{}, ioError(out, err)
	}
	log := logger.With().Str("folder", dir).Str("output", out).Logger()

	first, err := DecodeImage(files[0].Path, s.AutoOrient)
	if err != nil {
		return folderResult{}, err
	}
	target, err := targetWidth(files, first, s)
	if err != nil {
		return folderResult{}, err
	}
	log.Info().Int("files", len(files)).Int("width", target).Stringer("mode", s.WidthMode).Msg("stitching folder")

	canvas := NewCanvas(target, s.Fill.RGBA())
	pages := newPageWriter(out, s.OutputType)

	prefix := ""
	if total > 1 {
		prefix = fmt.Sprintf("[Folder %d/%d] ", idx+1, total)
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return folderResult{output: out, pages: pages.written()}, err
		}
		r.emit.status("%sProcessing %d/%d", prefix, i+1, len(files))
		r.emit.progress(float64(i) / float64(len(files)) * 100)

		img := first
		if i > 0 {
			if img, err = DecodeImage(f.Path, s.AutoOrient); err != nil {
				return folderResult{output: out, pages: pages.written()}, err
			}
		}
		first = nil

		x := 0
		if s.WidthMode == WidthNoEnforcement {
			if w := img.Rect.Dx(); w != canvas.Width() {
				if canvas.Height() > 0 {
					log.Debug().Int("from", canvas.Width()).Int("to", w).Msg("width changed, flushing canvas")
					if err := pages.write(canvas.Drain()); err != nil {
						return folderResult{output: out, pages: pages.written()}, err
					}
				}
				canvas.Reset(w)
			}
		} else {
			img, x = normalize(img, target, s.WidthMode)
		}

		canvas.Append(img, x)
		for canvas.Height() >= s.SplitHeight {
			cut := FindCut(canvas.Image(), s.SplitHeight, s)
			if err := pages.write(canvas.Take(cut)); err != nil {
				return folderResult{output: out, pages: pages.written()}, err
			}
		}
	}

	if canvas.Height() > 0 {
		if err := pages.write(canvas.Drain()); err != nil {
			return folderResult{output: out, pages: pages.written()}, err
		}
	}

	log.Info().Int("pages", pages.written()).Msg("folder complete")
	return folderResult{output: out, pages: pages.written()}, nil
}
