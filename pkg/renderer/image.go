package renderer

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/trytobebee/websnake/pkg/game"
)

// ImageRenderer draws a game state snapshot as a PNG board image for
// the HTTP snapshot endpoint.
type ImageRenderer struct {
	blockSize int
}

// NewImageRenderer creates an image renderer with the given cell size
// in pixels.
func NewImageRenderer(blockSize int) *ImageRenderer {
	if blockSize <= 0 {
		blockSize = 24
	}
	return &ImageRenderer{blockSize: blockSize}
}

// Board colors
var (
	colorBackground = [3]float64{0.10, 0.13, 0.17}
	colorGridLine   = [3]float64{0.18, 0.22, 0.27}
	colorBody       = [3]float64{0.28, 0.73, 0.47}
	colorHead       = [3]float64{0.16, 0.50, 0.31}
	colorFood       = [3]float64{0.90, 0.30, 0.24}
	colorGold       = [3]float64{0.95, 0.77, 0.06}
	colorCrash      = [3]float64{1.00, 1.00, 1.00}
)

// Image renders the state onto a fresh canvas
func (r *ImageRenderer) Image(width, height int, state game.GameState) image.Image {
	bs := r.blockSize
	dc := gg.NewContext(width*bs, height*bs)

	dc.SetRGB(colorBackground[0], colorBackground[1], colorBackground[2])
	dc.Clear()
	r.drawGrid(dc, width*bs, height*bs)

	r.fillCell(dc, state.Food, colorFood)
	if state.Gold != nil {
		r.fillCell(dc, state.Gold.Pos, colorGold)
	}

	for i, p := range state.Snake {
		if i == 0 {
			r.fillCell(dc, p, colorHead)
		} else {
			r.fillCell(dc, p, colorBody)
		}
	}

	if state.CrashPoint != nil {
		p := *state.CrashPoint
		if p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height {
			r.fillCell(dc, p, colorCrash)
		}
	}

	return dc.Image()
}

// PNG renders the state and encodes it. maxDim > 0 scales the output
// down so its longest side does not exceed maxDim pixels.
func (r *ImageRenderer) PNG(width, height int, state game.GameState, maxDim int) ([]byte, error) {
	img := r.Image(width, height, state)

	if maxDim > 0 && (img.Bounds().Dx() > maxDim || img.Bounds().Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *ImageRenderer) fillCell(dc *gg.Context, p game.Point, rgb [3]float64) {
	bs := float64(r.blockSize)
	dc.SetRGB(rgb[0], rgb[1], rgb[2])
	dc.DrawRectangle(float64(p.X)*bs+1, float64(p.Y)*bs+1, bs-2, bs-2)
	dc.Fill()
}

func (r *ImageRenderer) drawGrid(dc *gg.Context, width, height int) {
	dc.SetRGB(colorGridLine[0], colorGridLine[1], colorGridLine[2])
	for x := 0; x <= width; x += r.blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += r.blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}
