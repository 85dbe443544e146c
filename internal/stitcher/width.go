package stitcher

import (
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	xdraw "golang.org/x/image/draw"

	"smartstitch/pkg/imgutil"
)

// lanczos3 is the windowed-sinc kernel used for every rescale.
var lanczos3 = &xdraw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		if t >= 3 {
			return 0
		}
		x := math.Pi * t
		return 3 * math.Sin(x) * math.Sin(x/3) / (x * x)
	},
}

// dimensions remembers measured image sizes keyed by path, size and
// modification time, so repeated runs over the same folder (watch mode) skip
// the measuring pass. Entries expire so long watch sessions do not keep
// sizes of files that are long gone.
var dimensions = cache.New(dimensionTTL, 10*time.Minute)

const dimensionTTL = 30 * time.Minute

// targetWidth computes the folder-wide width policy. first is the already
// decoded first image.
func targetWidth(files []FileEntry, first *image.RGBA, s Settings) (int, error) {
	switch s.WidthMode {
	case WidthCustom:
		return s.CustomWidth, nil
	case WidthMatchMin, WidthMatchMax:
		best := first.Rect.Dx()
		for _, f := range files[1:] {
			w, err := measureWidth(f, s.AutoOrient)
			if err != nil {
				return 0, err
			}
			if (s.WidthMode == WidthMatchMin && w < best) || (s.WidthMode == WidthMatchMax && w > best) {
				best = w
			}
		}
		return best, nil
	default:
		return first.Rect.Dx(), nil
	}
}

// measureWidth returns the displayed width of a file. Formats with a cheap
// header probe are measured without decoding pixels, unless EXIF orientation
// could swap the axes.
func measureWidth(f FileEntry, autoOrient bool) (int, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return 0, decodeError(f.Path, err)
	}
	key := fmt.Sprintf("%s|%d|%d|%t", f.Path, info.Size(), info.ModTime().UnixNano(), autoOrient)
	if v, ok := dimensions.Get(key); ok {
		return v.(image.Point).X, nil
	}

	size, err := probeSize(f, autoOrient)
	if err != nil {
		return 0, err
	}
	dimensions.Set(key, size, cache.DefaultExpiration)
	return size.X, nil
}

func probeSize(f FileEntry, autoOrient bool) (image.Point, error) {
	probe := f.Kind != imgutil.KindPSD && f.Kind != imgutil.KindAVIF &&
		!(autoOrient && (f.Kind == imgutil.KindJPEG || f.Kind == imgutil.KindTIFF))
	if probe {
		if fh, err := os.Open(f.Path); err == nil {
			cfg, _, cfgErr := image.DecodeConfig(fh)
			fh.Close()
			if cfgErr == nil {
				return image.Pt(cfg.Width, cfg.Height), nil
			}
		}
	}

	img, err := DecodeImage(f.Path, autoOrient)
	if err != nil {
		return image.Point{}, err
	}
	return img.Rect.Size(), nil
}

// normalize conforms img to the folder's target width and returns it with
// the horizontal offset it should be placed at on the canvas. Under
// NoEnforcement and MatchMax the pixels are left untouched.
func normalize(img *image.RGBA, target int, mode WidthMode) (*image.RGBA, int) {
	w := img.Rect.Dx()
	switch mode {
	case WidthNoEnforcement:
		return img, 0
	case WidthMatchMax:
		if w >= target {
			return img, 0
		}
		return img, (target - w) / 2
	}
	if w == target {
		return img, 0
	}
	return resizeToWidth(img, target), 0
}

// resizeToWidth rescales img to width, keeping the aspect ratio and rounding
// the new height down.
func resizeToWidth(img *image.RGBA, width int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	ratio := float64(width) / float64(w)
	newH := int(float64(h) * ratio)
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	if newH == 0 {
		return dst
	}
	lanczos3.Scale(dst, dst.Rect, img, img.Rect, xdraw.Src, nil)
	return dst
}
