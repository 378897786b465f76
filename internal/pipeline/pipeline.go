// Package pipeline runs the decomposition end to end: load, classify,
// optionally reduce the palette, build the layout, verify and write it.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/maax3v3/pixrect/internal/aggregation"
	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/detection"
	"github.com/maax3v3/pixrect/internal/export"
	"github.com/maax3v3/pixrect/internal/imaging"
	"github.com/maax3v3/pixrect/internal/layout"
	"github.com/maax3v3/pixrect/internal/logging"
	"github.com/maax3v3/pixrect/internal/renderer"
)

// Options configures a single decomposition.
type Options struct {
	// Background is the color treated as empty space.
	Background color.RGB
	// MaxColors caps the number of distinct solid colors. 0 keeps every
	// color exactly as it appears in the image.
	MaxColors int
	// Verify re-rasterizes the layout and checks it against the grid.
	Verify bool
}

// DefaultOptions returns exact-color decomposition against white.
func DefaultOptions() Options {
	return Options{Background: color.White}
}

// Config describes one pipeline run.
type Config struct {
	InPath      string
	OutPath     string // empty writes to Stdout
	Format      export.Format
	PreviewPath string
	Stats       bool
	Options     Options

	// Stdout receives the encoded layout when OutPath is empty. Defaults to
	// os.Stdout.
	Stdout io.Writer
}

// Decompose classifies img and builds its layout.
func Decompose(ctx context.Context, img image.Image, opts Options) (*layout.Layout, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	log := logging.Logger()

	classifier := &detection.SolidClassifier{Background: opts.Background}
	dm := classifier.Detect(img)
	log.Debug("pixels classified", "width", dm.Width, "height", dm.Height, "solid", dm.Count())

	if opts.MaxColors > 0 {
		p := aggregation.Reduce(dm, opts.MaxColors, opts.Background)
		log.Debug("palette reduced", "colors", len(p.Entries))
	}

	l, err := layout.Build(ctx, dm)
	if err != nil {
		return nil, err
	}

	if opts.Verify {
		if err := renderer.Verify(l, dm); err != nil {
			return nil, fmt.Errorf("verifying layout: %w", err)
		}
	}
	return l, nil
}

// Run executes the full pixrect pipeline with the given configuration.
// Every log record of the run carries the same run id.
func Run(ctx context.Context, cfg Config) error {
	log := logging.Logger().With("run", uuid.NewString())

	log.Info("loading image", "path", cfg.InPath)
	img, err := imaging.Load(cfg.InPath)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	log.Info("image loaded", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	l, err := Decompose(ctx, img, cfg.Options)
	if err != nil {
		return fmt.Errorf("decomposing: %w", err)
	}
	log.Info("layout built", "colors", len(l.Colors), "shapes", l.Len())

	format := cfg.Format
	if format == "" {
		format = export.FormatJSON
	}
	if err := writeLayout(log, cfg, l, format); err != nil {
		return err
	}

	if cfg.PreviewPath != "" {
		rcfg := renderer.DefaultConfig()
		rcfg.Background = cfg.Options.Background
		log.Info("saving preview", "path", cfg.PreviewPath)
		if err := imaging.SavePNG(cfg.PreviewPath, renderer.Render(l, rcfg)); err != nil {
			return fmt.Errorf("saving preview: %w", err)
		}
	}

	if cfg.Stats {
		st := layout.Summarize(l)
		log.Info("layout stats",
			"colors", st.Colors,
			"shapes", st.Shapes,
			"pixels", st.Pixels,
			"boxes", st.Boxes,
			"complex", st.Complex,
			"rectangles", st.Rectangles,
			"points", st.Points,
			"cells", st.Cells,
			"mean_cells", st.MeanCells,
			"stddev_cells", st.StdDevCells,
			"max_cells", st.MaxCells,
			"ratio", st.Ratio,
		)
	}

	log.Info("done")
	return nil
}

func writeLayout(log *slog.Logger, cfg Config, l *layout.Layout, format export.Format) error {
	if cfg.OutPath == "" {
		w := cfg.Stdout
		if w == nil {
			w = os.Stdout
		}
		if err := export.Write(w, l, format); err != nil {
			return fmt.Errorf("writing layout: %w", err)
		}
		return nil
	}

	path := imaging.ExpandPath(cfg.OutPath)
	log.Info("saving layout", "path", path, "format", string(format))

	// Written next to the target and renamed, so a failed encode never
	// leaves a truncated layout behind.
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmp := f.Name()
	if err := export.Write(f, l, format); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing layout: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("saving output file: %w", err)
	}
	return nil
}
