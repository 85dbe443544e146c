package imgutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindTIFF
	KindWebP
	KindBMP
	KindAVIF
	KindPSD
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindTIFF:
		return "tiff"
	case KindWebP:
		return "webp"
	case KindBMP:
		return "bmp"
	case KindAVIF:
		return "avif"
	case KindPSD:
		return "psd"
	default:
		return "unknown"
	}
}

// HeaderSize is the number of leading bytes DetectHeader needs to tell every
// supported kind apart.
const HeaderSize = 12

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	bmpSig    = []byte("BM")
	psdSig    = []byte("8BPS")
	riffSig   = []byte("RIFF")
	webpTag   = []byte("WEBP")
	ftypTag   = []byte("ftyp")
)

var extKinds = map[string]Kind{
	".png":  KindPNG,
	".jpg":  KindJPEG,
	".jpeg": KindJPEG,
	".webp": KindWebP,
	".bmp":  KindBMP,
	".tiff": KindTIFF,
	".avif": KindAVIF,
	".psd":  KindPSD,
}

// KindFromExt maps a file extension (with or without the leading dot, any
// case) to its Kind.
func KindFromExt(ext string) Kind {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return extKinds[ext]
}

// IsImageName reports whether name carries one of the recognized image
// extensions.
func IsImageName(name string) bool {
	return KindFromExt(filepath.Ext(name)) != KindUnknown
}

// DetectHeader inspects the leading bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 2 {
		return KindUnknown, errors.New("header too short")
	}

	switch {
	case hasPrefix(header, jpegSig):
		return KindJPEG, nil
	case hasPrefix(header, pngSig):
		return KindPNG, nil
	case hasPrefix(header, tiffSigLE) || hasPrefix(header, tiffSigBE):
		return KindTIFF, nil
	case hasPrefix(header, psdSig):
		return KindPSD, nil
	case hasPrefix(header, riffSig) && len(header) >= 12 && bytes.Equal(header[8:12], webpTag):
		return KindWebP, nil
	case len(header) >= 12 && bytes.Equal(header[4:8], ftypTag) && isAVIFBrand(header[8:12]):
		return KindAVIF, nil
	case hasPrefix(header, bmpSig):
		return KindBMP, nil
	}

	return KindUnknown, nil
}

func isAVIFBrand(brand []byte) bool {
	b := string(brand)
	return b == "avif" || b == "avis"
}

// SniffFile reads the header of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to HeaderSize bytes from r and determines its type.
// Files shorter than the header are still classified from what was read.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n])
}

func hasPrefix(buf, prefix []byte) bool {
	return len(buf) >= len(prefix) && bytes.Equal(buf[:len(prefix)], prefix)
}
