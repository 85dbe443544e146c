package stitcher

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const jpegQuality = 92

type encodeFunc func(w io.Writer, img image.Image) error

var encoders = map[string]encodeFunc{
	".png":  png.Encode,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".webp": encodeWebP,
	".bmp":  bmp.Encode,
	".tiff": encodeTIFF,
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
}

func encodeWebP(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: true})
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// CanEncode reports whether pages can be written with the given extension.
func CanEncode(ext string) bool {
	_, ok := encoders[strings.ToLower(ext)]
	return ok
}

// pageWriter names and stores the pages of one output folder.
type pageWriter struct {
	dir     string
	ext     string
	counter int
}

func newPageWriter(dir, ext string) *pageWriter {
	return &pageWriter{dir: dir, ext: ext, counter: 1}
}

// write stores img as the next page and advances the counter.
func (pw *pageWriter) write(img *image.RGBA) error {
	name := fmt.Sprintf("%02d%s", pw.counter, pw.ext)
	dest := filepath.Join(pw.dir, name)
	if err := writeImageFile(dest, img, pw.ext); err != nil {
		return ioError(dest, err)
	}
	logger.Debug().Str("page", dest).Int("height", img.Rect.Dy()).Msg("page written")
	pw.counter++
	return nil
}

// written is the number of pages stored so far.
func (pw *pageWriter) written() int {
	return pw.counter - 1
}

// writeImageFile encodes into a temporary file next to dest and renames it
// into place, so a failed encode never leaves a truncated page behind.
func writeImageFile(dest string, img image.Image, ext string) error {
	encode, ok := encoders[strings.ToLower(ext)]
	if !ok {
		return fmt.Errorf("no encoder for %q", ext)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "smartstitch-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	bw := bufio.NewWriter(tmpFile)
	if err := encode(bw, img); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), dest)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
