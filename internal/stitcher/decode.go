package stitcher

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/gen2brain/avif"
	"github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"smartstitch/pkg/imgutil"
)

// DecodeImage loads one source file into an RGBA grid with its origin at
// (0, 0). The format is taken from the file's signature, falling back to its
// extension when the signature is not recognized.
func DecodeImage(path string, autoOrient bool) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeError(path, err)
	}
	defer f.Close()

	kind, err := sniff(f, path)
	if err != nil {
		return nil, decodeError(path, err)
	}

	img, err := decodeKind(f, kind)
	if err != nil {
		return nil, decodeError(path, err)
	}
	rgba := toRGBA(img)

	if autoOrient && (kind == imgutil.KindJPEG || kind == imgutil.KindTIFF) {
		orientation, err := readOrientation(f)
		if err != nil {
			logger.Debug().Err(err).Str("file", path).Msg("orientation unreadable, keeping pixels as stored")
		} else {
			rgba = applyOrientation(rgba, orientation)
		}
	}
	return rgba, nil
}

// sniff classifies f and rewinds it.
func sniff(f io.ReadSeeker, path string) (imgutil.Kind, error) {
	kind, err := imgutil.SniffReader(f)
	if err != nil {
		return imgutil.KindUnknown, err
	}
	if kind == imgutil.KindUnknown {
		kind = imgutil.KindFromExt(filepath.Ext(path))
	}
	if kind == imgutil.KindUnknown {
		return kind, errUnsupported
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return kind, err
	}
	return kind, nil
}

func decodeKind(r io.Reader, kind imgutil.Kind) (image.Image, error) {
	switch kind {
	case imgutil.KindPSD:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return decodePSD(data)
	case imgutil.KindAVIF:
		return avif.Decode(bufio.NewReader(r))
	case imgutil.KindWebP:
		return webp.Decode(bufio.NewReader(r))
	default:
		img, _, err := image.Decode(bufio.NewReader(r))
		return img, err
	}
}

// decodePSD parses a layered document and flattens its visible layers, bottom
// to top, onto a transparent grid. Documents without layer records fall back
// to the merged preview stored in the file.
func decodePSD(data []byte) (*image.RGBA, error) {
	doc, _, err := psd.Decode(bytes.NewReader(data), &psd.DecodeOptions{})
	if err != nil {
		return nil, fmt.Errorf("psd: %w", err)
	}

	bounds := doc.Config.Rect
	if bounds.Empty() {
		return nil, errEmptyPicture
	}
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if !compositeLayers(flat, doc.Layer, bounds.Min) {
		if doc.Picker == nil {
			return nil, errEmptyPicture
		}
		draw.Draw(flat, flat.Bounds(), doc.Picker, doc.Picker.Bounds().Min, draw.Src)
	}
	return flat, nil
}

func compositeLayers(dst *image.RGBA, layers []psd.Layer, origin image.Point) bool {
	drawn := false
	for i := range layers {
		l := &layers[i]
		if !l.Visible() {
			continue
		}
		if l.Folder() {
			if compositeLayers(dst, l.Layer, origin) {
				drawn = true
			}
			continue
		}
		if l.Picker == nil || l.Rect.Empty() {
			continue
		}
		opacity := image.NewUniform(color.Alpha{A: l.Opacity})
		draw.DrawMask(dst, l.Rect.Sub(origin), l.Picker, l.Picker.Bounds().Min, opacity, image.Point{}, draw.Over)
		drawn = true
	}
	return drawn
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
