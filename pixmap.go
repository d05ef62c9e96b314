package fractview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
)

// Pixmap is a row-major buffer of packed colors. It is the sink of the
// progressive rasterizer: Fill expects the write lock to be held, which
// the rasterizer takes through Lock and Unlock. Readers use RLock, or
// the accessors below, which lock themselves.
type Pixmap struct {
	sync.RWMutex
	width  int
	height int
	pix    []Color
}

// NewPixmap creates a transparent pixmap.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Fill sets the rectangle (x, y, w, h) to argb. The caller holds the
// write lock. The rectangle is clipped to the pixmap.
func (p *Pixmap) Fill(x, y, w, h int, argb uint32) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, p.width), min(y+h, p.height)
	if x0 >= x1 {
		return
	}
	c := Color(argb)
	for yy := y0; yy < y1; yy++ {
		row := p.pix[yy*p.width+x0 : yy*p.width+x1]
		for i := range row {
			row[i] = c
		}
	}
}

// Clear fills the whole pixmap with c.
func (p *Pixmap) Clear(c Color) {
	p.Lock()
	defer p.Unlock()
	for i := range p.pix {
		p.pix[i] = c
	}
}

// Pixel returns the color at (x, y), or Transparent outside the pixmap.
func (p *Pixmap) Pixel(x, y int) Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	p.RLock()
	defer p.RUnlock()
	return p.pix[y*p.width+x]
}

// SetPixel sets the color at (x, y). Points outside are ignored.
func (p *Pixmap) SetPixel(x, y int, c Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.Lock()
	defer p.Unlock()
	p.pix[y*p.width+x] = c
}

// ToImage copies the pixmap into an image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	p.RLock()
	defer p.RUnlock()
	for i, c := range p.pix {
		o := i * 4
		img.Pix[o+0] = c.R()
		img.Pix[o+1] = c.G()
		img.Pix[o+2] = c.B()
		img.Pix[o+3] = c.A()
	}
	return img
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.ToImage()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.Pixel(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
