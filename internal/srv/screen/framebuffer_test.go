package screen

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBufferSetAndClear(t *testing.T) {
	f := NewFrameBuffer()

	f.SetPixel(0, 0, true)
	f.SetPixel(127, 63, true)
	assert.True(t, f.PixelOn(0, 0))
	assert.True(t, f.PixelOn(127, 63))
	assert.False(t, f.PixelOn(1, 0))

	f.Clear()
	assert.True(t, f.Equal(NewFrameBuffer()))
}

func TestFrameBufferClipsOutOfRange(t *testing.T) {
	f := NewFrameBuffer()

	// Out-of-range coordinates are silently dropped, never an error.
	f.SetPixel(-1, 0, true)
	f.SetPixel(0, -1, true)
	f.SetPixel(Width, 0, true)
	f.SetPixel(0, Height, true)

	assert.True(t, f.Equal(NewFrameBuffer()))
	assert.False(t, f.PixelOn(-1, 0))
	assert.False(t, f.PixelOn(Width, Height))
}

func TestFrameBufferImageInterface(t *testing.T) {
	f := NewFrameBuffer()
	require.Equal(t, image.Rect(0, 0, 128, 64), f.Bounds())

	f.Set(3, 4, color.White)
	assert.Equal(t, color.Gray{Y: 0xff}, f.At(3, 4))

	f.Set(3, 4, color.Black)
	assert.Equal(t, color.Gray{Y: 0x00}, f.At(3, 4))
}

func TestFillRectClipsToBounds(t *testing.T) {
	f := NewFrameBuffer()
	f.FillRect(image.Rect(-10, -10, 200, 200))

	full := NewFrameBuffer()
	full.Fill(true)
	assert.True(t, f.Equal(full))
}

func TestDrawLineEndpoints(t *testing.T) {
	f := NewFrameBuffer()
	f.DrawLine(0, 0, 10, 10)
	assert.True(t, f.PixelOn(0, 0))
	assert.True(t, f.PixelOn(5, 5))
	assert.True(t, f.PixelOn(10, 10))

	// Lines leaving the grid clip instead of failing.
	f.DrawLine(120, 60, 200, 100)
	assert.True(t, f.PixelOn(120, 60))
}

func TestDrawRectOutline(t *testing.T) {
	f := NewFrameBuffer()
	f.DrawRect(f.Bounds())
	assert.True(t, f.PixelOn(0, 0))
	assert.True(t, f.PixelOn(127, 0))
	assert.True(t, f.PixelOn(0, 63))
	assert.True(t, f.PixelOn(127, 63))
	assert.False(t, f.PixelOn(1, 1))
}

func TestDrawTextProducesPixels(t *testing.T) {
	f := NewFrameBuffer()
	f.DrawText(2, fontAscent, "8888")
	assert.False(t, f.Equal(NewFrameBuffer()))

	// Text running off the right edge must clip, not wrap or fail.
	g := NewFrameBuffer()
	g.DrawText(Width-2, fontAscent, "wwwwwwww")
	for y := 0; y < Height; y++ {
		assert.False(t, g.PixelOn(Width, y))
	}
}

func TestDrawTextDoubleScales(t *testing.T) {
	f := NewFrameBuffer()
	f.DrawTextDouble(0, 0, "8")
	assert.False(t, f.Equal(NewFrameBuffer()))

	// Doubled glyphs switch pixels on in 2x2 blocks.
	found := false
	for y := 0; y < 2*LineHeight && !found; y += 2 {
		for x := 0; x < 2*CharWidth && !found; x += 2 {
			if f.PixelOn(x, y) && f.PixelOn(x+1, y) && f.PixelOn(x, y+1) && f.PixelOn(x+1, y+1) {
				found = true
			}
		}
	}
	assert.True(t, found)
}
