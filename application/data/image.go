package data

import (
	"path/filepath"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/export"
)

// Image options understood by every ToImage refinement.
const (
	FilenameOption = "filename"
	WidthOption    = "width"
	HeightOption   = "height"
	QualityOption  = "quality"
)

// writeImage writes graph to the filename option, "<name>.png" by default.
// Relative names are placed in dir.
func writeImage(dir, name string, graph *export.Graph, opts config.Options) (string, error) {
	filename := config.GetStringDefault(opts, FilenameOption, name+".png")
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(dir, filename)
	}

	width, err := config.IntOr(opts, WidthOption, 800)
	if err != nil {
		return "", err
	}
	height, err := config.IntOr(opts, HeightOption, 600)
	if err != nil {
		return "", err
	}
	quality, err := config.IntOr(opts, QualityOption, 90)
	if err != nil {
		return "", err
	}

	err = export.WriteImage(graph, filename, export.WithSize(width, height), export.WithQuality(quality))
	if err != nil {
		return "", err
	}
	return filename, nil
}
