package stitcher

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is the growing strip that source images are appended to. Appending
// and slicing never modify an existing buffer in place; each returns a
// freshly allocated one.
type Canvas struct {
	img  *image.RGBA
	fill color.RGBA
}

// NewCanvas returns an empty canvas of the given width.
func NewCanvas(width int, fill color.RGBA) *Canvas {
	return &Canvas{img: filled(width, 0, fill), fill: fill}
}

func (c *Canvas) Width() int  { return c.img.Rect.Dx() }
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Image exposes the current buffer for seam detection.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Append places src below the current content at horizontal offset x.
// Pixels of src falling outside the canvas width are clipped; uncovered
// area keeps the fill color.
func (c *Canvas) Append(src *image.RGBA, x int) {
	oldH := c.Height()
	next := filled(c.Width(), oldH+src.Rect.Dy(), c.fill)
	draw.Draw(next, c.img.Rect, c.img, image.Point{}, draw.Src)

	dst := image.Rect(x, oldH, x+src.Rect.Dx(), oldH+src.Rect.Dy())
	draw.Draw(next, dst, src, src.Rect.Min, draw.Over)
	c.img = next
}

// Take removes the top h rows and returns them as an independent page.
func (c *Canvas) Take(h int) *image.RGBA {
	if h > c.Height() {
		h = c.Height()
	}
	page := crop(c.img, 0, h)
	c.img = crop(c.img, h, c.Height())
	return page
}

// Drain returns the whole remaining content and leaves the canvas empty at
// the same width.
func (c *Canvas) Drain() *image.RGBA {
	page := c.img
	c.img = filled(c.Width(), 0, c.fill)
	return page
}

// Reset discards the content and switches to a new width.
func (c *Canvas) Reset(width int) {
	c.img = filled(width, 0, c.fill)
}

func crop(img *image.RGBA, y0, y1 int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Rect.Dx(), y1-y0))
	draw.Draw(out, out.Rect, img, image.Pt(0, y0), draw.Src)
	return out
}

func filled(width, height int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if height > 0 && width > 0 {
		draw.Draw(img, img.Rect, image.NewUniform(fill), image.Point{}, draw.Src)
	}
	return img
}
