package export

import (
	"fmt"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/jrbp/p4vasp/domain/errors"
)

const margin = 60.0

var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

// imageConfig holds configuration for image rendering.
type imageConfig struct {
	width   int
	height  int
	quality int // JPEG quality
}

func defaultImageConfig() imageConfig {
	return imageConfig{width: 800, height: 600, quality: 90}
}

// ImageOption configures image rendering.
type ImageOption func(*imageConfig)

// WithSize sets the image size in pixels.
func WithSize(width, height int) ImageOption {
	return func(c *imageConfig) {
		c.width = width
		c.height = height
	}
}

// WithQuality sets the JPEG quality (1-100).
func WithQuality(quality int) ImageOption {
	return func(c *imageConfig) {
		c.quality = quality
	}
}

// Render draws the graph onto a new canvas.
func Render(g *Graph, width, height int) (*gg.Context, error) {
	xmin, xmax, ymin, ymax, err := g.Bounds()
	if err != nil {
		return nil, err
	}
	if float64(width) <= 2*margin || float64(height) <= 2*margin {
		return nil, fmt.Errorf("image of %dx%d pixels is too small", width, height)
	}

	w, h := float64(width), float64(height)
	px := func(x float64) float64 { return margin + (x-xmin)/(xmax-xmin)*(w-2*margin) }
	py := func(y float64) float64 { return h - margin - (y-ymin)/(ymax-ymin)*(h-2*margin) }

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	// axes
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawLine(margin, h-margin, w-margin, h-margin)
	dc.DrawLine(margin, margin, margin, h-margin)
	dc.Stroke()

	dc.DrawStringAnchored(g.Title, w/2, margin/2, 0.5, 0.5)
	dc.DrawStringAnchored(g.XLabel, w/2, h-margin/4, 0.5, 0.5)
	dc.DrawStringAnchored(g.YLabel, margin/4, margin/2, 0, 0.5)
	dc.DrawStringAnchored(formatTick(xmin), margin, h-margin+12, 0.5, 0.5)
	dc.DrawStringAnchored(formatTick(xmax), w-margin, h-margin+12, 0.5, 0.5)
	dc.DrawStringAnchored(formatTick(ymin), margin-6, h-margin, 1, 0.5)
	dc.DrawStringAnchored(formatTick(ymax), margin-6, margin, 1, 0.5)

	ticks := make([]float64, 0, len(g.XTicks))
	for x := range g.XTicks {
		ticks = append(ticks, x)
	}
	sort.Float64s(ticks)
	dc.SetColor(color.Gray{Y: 0xaa})
	for _, x := range ticks {
		dc.DrawLine(px(x), margin, px(x), h-margin)
		dc.Stroke()
		dc.DrawStringAnchored(g.XTicks[x], px(x), h-margin+26, 0.5, 0.5)
	}

	dc.SetLineWidth(1.5)
	for i, s := range g.Series {
		dc.SetColor(palette[i%len(palette)])
		started := false
		for j := range s.X {
			if !finite(s.X[j]) || !finite(s.Y[j]) {
				started = false
				continue
			}
			if !started {
				dc.MoveTo(px(s.X[j]), py(s.Y[j]))
				started = true
				continue
			}
			dc.LineTo(px(s.X[j]), py(s.Y[j]))
		}
		dc.Stroke()
	}

	return dc, nil
}

// WriteImage renders the graph and writes it to filename.
// The format follows the extension: .png, .jpg or .jpeg.
func WriteImage(g *Graph, filename string, opts ...ImageOption) error {
	cfg := defaultImageConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg":
	default:
		return &errors.FormatError{Filename: filename, Extension: ext}
	}

	dc, err := Render(g, cfg.width, cfg.height)
	if err != nil {
		return err
	}

	if ext == ".png" {
		if err := dc.SavePNG(filename); err != nil {
			return &errors.FileError{Op: "write", Path: filename, Err: err}
		}
		return nil
	}

	f, err := os.Create(filename)
	if err != nil {
		return &errors.FileError{Op: "write", Path: filename, Err: err}
	}
	defer f.Close()

	if err := jpeg.Encode(f, dc.Image(), &jpeg.Options{Quality: cfg.quality}); err != nil {
		return &errors.FileError{Op: "write", Path: filename, Err: err}
	}
	return f.Close()
}

func formatTick(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
