package stitcher

import "image"

const (
	searchUpRatio   = 0.4
	searchDownRatio = 0.5
)

// FindCut returns the height of the next page to slice off the top of img
// for a desired height of targetH. The result never exceeds the image
// height.
//
// The smart detector looks for a clean row, first upward from the target
// line and then downward from it, in steps of s.ScanStep. When no clean row
// is found within the search window it cuts at targetH anyway.
func FindCut(img *image.RGBA, targetH int, s Settings) int {
	height := img.Rect.Dy()
	if targetH >= height {
		return height
	}
	if s.Detector == DetectorDirectSplit {
		return targetH
	}

	threshold := cleanThreshold(s.Sensitivity)
	step := s.ScanStep
	if step <= 0 {
		step = 1
	}

	upLimit := int(float64(targetH) * searchUpRatio)
	for off := 0; off <= upLimit; off += step {
		y := targetH - off
		if y <= 0 {
			break
		}
		if isCleanRow(img, y, s.IgnorableMargin, threshold) {
			return y
		}
	}

	downLimit := int(float64(targetH) * searchDownRatio)
	for off := step; off <= downLimit; off += step {
		y := targetH + off
		if y >= height {
			break
		}
		if isCleanRow(img, y, s.IgnorableMargin, threshold) {
			return y
		}
	}

	return targetH
}

// cleanThreshold is the largest grayscale jump between neighbouring columns a
// clean row may contain.
func cleanThreshold(sensitivity int) int {
	return 255 * (100 - sensitivity) / 100
}

// isCleanRow reports whether row y has no column-to-column grayscale jump
// above threshold, ignoring margin columns on both sides. A margin that
// leaves no columns makes every row clean; a margin at least as wide as the
// image is ignored.
func isCleanRow(img *image.RGBA, y, margin, threshold int) bool {
	width := img.Rect.Dx()
	start, end := margin, width-margin
	if margin >= width {
		start, end = 0, width
	}

	row := img.Pix[y*img.Stride:]
	prev := -1
	for x := start; x < end; x++ {
		p := row[x*4 : x*4+3]
		val := (int(p[0]) + int(p[1]) + int(p[2])) / 3
		if prev >= 0 && abs(val-prev) > threshold {
			return false
		}
		prev = val
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
