package screen

import (
	"bytes"
	"image"
	"image/color"

	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Panel geometry of the GME12864 OLED.
const (
	Width  = 128
	Height = 64
)

// Text metrics of bitmapfont.Face half-width glyphs.
const (
	CharWidth  = 6
	LineHeight = 12
	fontAscent = 10
)

const stride = Width / 8

// FrameBuffer is a 1-bit 128x64 pixel grid. It implements image.Image and
// draw.Image so it can feed both font.Drawer and the ssd1306 driver. All
// drawing primitives silently clip out-of-range coordinates, a rendering
// glitch must never abort a refresh cycle.
//
// A FrameBuffer handed to the display transport is never mutated again,
// each render allocates a fresh one.
type FrameBuffer struct {
	// Pix holds the pixels, one bit each, LSB leftmost, 16 bytes per row.
	Pix []byte
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{Pix: make([]byte, stride*Height)}
}

func (f *FrameBuffer) ColorModel() color.Model {
	return color.GrayModel
}

func (f *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

func (f *FrameBuffer) At(x, y int) color.Color {
	if f.PixelOn(x, y) {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{Y: 0x00}
}

// Set makes FrameBuffer a draw.Image. Colors at or above half luminance
// switch the pixel on.
func (f *FrameBuffer) Set(x, y int, c color.Color) {
	gray := color.GrayModel.Convert(c).(color.Gray)
	f.SetPixel(x, y, gray.Y >= 0x80)
}

func (f *FrameBuffer) PixelOn(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f.Pix[y*stride+x/8]&(1<<uint(x%8)) != 0
}

func (f *FrameBuffer) SetPixel(x, y int, on bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	if on {
		f.Pix[y*stride+x/8] |= 1 << uint(x%8)
	} else {
		f.Pix[y*stride+x/8] &^= 1 << uint(x%8)
	}
}

func (f *FrameBuffer) Clear() {
	for i := range f.Pix {
		f.Pix[i] = 0x00
	}
}

func (f *FrameBuffer) Fill(on bool) {
	var value byte
	if on {
		value = 0xff
	}
	for i := range f.Pix {
		f.Pix[i] = value
	}
}

// DrawLine draws a line between two points (Bresenham).
func (f *FrameBuffer) DrawLine(x0, y0, x1, y1 int) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	e := dx - dy
	for {
		f.SetPixel(x0, y0, true)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

// FillRect switches on every pixel of r intersected with the grid.
func (f *FrameBuffer) FillRect(r image.Rectangle) {
	r = r.Intersect(f.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.SetPixel(x, y, true)
		}
	}
}

// DrawRect draws the one pixel outline of r.
func (f *FrameBuffer) DrawRect(r image.Rectangle) {
	f.DrawLine(r.Min.X, r.Min.Y, r.Max.X-1, r.Min.Y)
	f.DrawLine(r.Min.X, r.Max.Y-1, r.Max.X-1, r.Max.Y-1)
	f.DrawLine(r.Min.X, r.Min.Y, r.Min.X, r.Max.Y-1)
	f.DrawLine(r.Max.X-1, r.Min.Y, r.Max.X-1, r.Max.Y-1)
}

// DrawText rasterizes label with y as the text baseline.
func (f *FrameBuffer) DrawText(x, y int, label string) {
	d := &font.Drawer{
		Dst:  f,
		Src:  image.White,
		Face: bitmapfont.Face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

// DrawTextDouble rasterizes label pixel-doubled, with its top-left corner
// at (x, y). This is the large face used by the clock.
func (f *FrameBuffer) DrawTextDouble(x, y int, label string) {
	tmp := NewFrameBuffer()
	tmp.DrawText(0, fontAscent, label)

	w := TextWidth(label)
	if w > Width {
		w = Width
	}
	for sy := 0; sy < LineHeight; sy++ {
		for sx := 0; sx < w; sx++ {
			if !tmp.PixelOn(sx, sy) {
				continue
			}
			f.SetPixel(x+2*sx, y+2*sy, true)
			f.SetPixel(x+2*sx+1, y+2*sy, true)
			f.SetPixel(x+2*sx, y+2*sy+1, true)
			f.SetPixel(x+2*sx+1, y+2*sy+1, true)
		}
	}
}

func (f *FrameBuffer) Equal(other *FrameBuffer) bool {
	return bytes.Equal(f.Pix, other.Pix)
}

// TextWidth returns the rendered width of label in the small face.
func TextWidth(label string) int {
	return CharWidth * len(label)
}
