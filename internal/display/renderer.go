package display

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	on  = color.Gray{Y: 255}
	off = color.Gray{Y: 0}
)

// Renderer renders text and graphics to a 1-bit frame buffer
type Renderer struct {
	width  int
	height int
	img    *image.Gray
	face   font.Face
}

// NewRenderer creates a new display renderer
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		img:    image.NewGray(image.Rect(0, 0, width, height)),
		face:   basicfont.Face7x13,
	}
}

// Clear clears the frame buffer
func (r *Renderer) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Black, image.Point{}, draw.Src)
}

// ClearRect clears a rectangle of the frame buffer
func (r *Renderer) ClearRect(x, y, width, height int) {
	rect := image.Rect(x, y, x+width, y+height).Intersect(r.img.Bounds())
	draw.Draw(r.img, rect, image.Black, image.Point{}, draw.Src)
}

// LineHeight returns the pixel height of one line of text
func (r *Renderer) LineHeight() int {
	return r.face.Metrics().Height.Ceil()
}

// Ascent returns the distance from the top of a line to its baseline
func (r *Renderer) Ascent() int {
	return r.face.Metrics().Ascent.Ceil()
}

// DrawText draws text with its baseline at y
func (r *Renderer) DrawText(x, y int, text string) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// DrawTextWrapped draws text with word wrapping, at most maxLines lines
// (0 for no limit). It returns the height used.
func (r *Renderer) DrawTextWrapped(x, y, maxWidth, maxLines int, text string) int {
	lines := r.wrap(text, maxWidth)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	lh := r.LineHeight()
	for i, line := range lines {
		r.DrawText(x, y+i*lh, line)
	}
	return len(lines) * lh
}

func (r *Renderer) wrap(text string, maxWidth int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && font.MeasureString(r.face, candidate).Ceil() > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// DrawRect draws a rectangle outline
func (r *Renderer) DrawRect(x, y, width, height int) {
	for i := x; i < x+width; i++ {
		r.img.SetGray(i, y, on)
		r.img.SetGray(i, y+height-1, on)
	}
	for i := y; i < y+height; i++ {
		r.img.SetGray(x, i, on)
		r.img.SetGray(x+width-1, i, on)
	}
}

// FillRect draws a filled rectangle
func (r *Renderer) FillRect(x, y, width, height int) {
	rect := image.Rect(x, y, x+width, y+height).Intersect(r.img.Bounds())
	draw.Draw(r.img, rect, image.White, image.Point{}, draw.Src)
}

// DrawCross draws a small plus sign centered on x, y
func (r *Renderer) DrawCross(x, y, arm int) {
	for d := -arm; d <= arm; d++ {
		r.img.SetGray(x+d, y, on)
		r.img.SetGray(x, y+d, on)
	}
}

// SetPixel sets a single pixel
func (r *Renderer) SetPixel(x, y int, lit bool) {
	if lit {
		r.img.SetGray(x, y, on)
	} else {
		r.img.SetGray(x, y, off)
	}
}

// Bitmap returns the whole frame buffer packed one bit per pixel,
// row-major, MSB first
func (r *Renderer) Bitmap() []byte {
	return r.RegionBitmap(0, 0, r.width, r.height)
}

// RegionBitmap packs a rectangle of the frame buffer the same way as Bitmap
func (r *Renderer) RegionBitmap(x, y, width, height int) []byte {
	bytesPerRow := (width + 7) / 8
	data := make([]byte, bytesPerRow*height)

	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			if r.img.GrayAt(x+dx, y+dy).Y > 127 {
				data[dy*bytesPerRow+dx/8] |= 1 << (7 - dx%8)
			}
		}
	}
	return data
}

// Width returns the renderer width
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the renderer height
func (r *Renderer) Height() int {
	return r.height
}
