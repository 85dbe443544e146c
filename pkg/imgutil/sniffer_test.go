package imgutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"png", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}, KindPNG},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}, KindJPEG},
		{"tiff little endian", []byte{0x49, 0x49, 0x2a, 0x00, 8, 0, 0, 0}, KindTIFF},
		{"tiff big endian", []byte{0x4d, 0x4d, 0x00, 0x2a, 0, 0, 0, 8}, KindTIFF},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBP"), KindWebP},
		{"riff but not webp", []byte("RIFF\x10\x00\x00\x00WAVE"), KindUnknown},
		{"avif", []byte("\x00\x00\x00\x1cftypavif"), KindAVIF},
		{"avif sequence", []byte("\x00\x00\x00\x1cftypavis"), KindAVIF},
		{"heic is not avif", []byte("\x00\x00\x00\x1cftypheic"), KindUnknown},
		{"psd", []byte("8BPS\x00\x01\x00\x00\x00\x00\x00\x00"), KindPSD},
		{"bmp", []byte("BM\x36\x00\x00\x00\x00\x00"), KindBMP},
		{"text", []byte("hello world!"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHeader(tt.header)
			if err != nil {
				t.Fatalf("DetectHeader: %v", err)
			}
			if got != tt.want {
				t.Fatalf("DetectHeader = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectHeaderTooShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0x89}); err == nil {
		t.Fatal("expected error for one-byte header")
	}
}

func TestKindFromExt(t *testing.T) {
	tests := map[string]Kind{
		".PNG":  KindPNG,
		"jpg":   KindJPEG,
		".Jpeg": KindJPEG,
		".webp": KindWebP,
		".bmp":  KindBMP,
		".tiff": KindTIFF,
		".avif": KindAVIF,
		".psd":  KindPSD,
		".gif":  KindUnknown,
		"":      KindUnknown,
	}
	for ext, want := range tests {
		if got := KindFromExt(ext); got != want {
			t.Errorf("KindFromExt(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestIsImageName(t *testing.T) {
	if !IsImageName("01.PNG") {
		t.Error("expected 01.PNG to be an image")
	}
	if IsImageName("notes.txt") {
		t.Error("expected notes.txt not to be an image")
	}
	if IsImageName("png") {
		t.Error("expected bare name without extension not to be an image")
	}
}

func TestSniffFileShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.bmp")
	if err := os.WriteFile(path, []byte("BM\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	kind, err := SniffFile(path)
	if err != nil {
		t.Fatalf("SniffFile: %v", err)
	}
	if kind != KindBMP {
		t.Fatalf("SniffFile = %v, want bmp", kind)
	}
}
