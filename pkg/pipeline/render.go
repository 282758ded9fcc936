package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tablescope/pkg/render"
)

// Documents holds the drawn SVGs a render derives formats from.
type Documents struct {
	// Interactive carries tooltips and scripts; used for svg and html.
	Interactive []byte
	// Static has no scripts; used for png and pdf. May be nil when no
	// raster format is requested.
	Static []byte
	Layout *Layout
}

// Render derives every requested format from docs concurrently.
func Render(ctx context.Context, docs Documents, opts Options) (map[string][]byte, error) {
	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, format, docs, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, docs Documents, opts Options) ([]byte, error) {
	static := docs.Static
	if static == nil {
		static = docs.Interactive
	}
	switch format {
	case FormatSVG:
		return docs.Interactive, nil
	case FormatHTML:
		return render.WrapHTML(opts.Title, docs.Interactive), nil
	case FormatJSON:
		if docs.Layout == nil {
			return nil, fmt.Errorf("no layout to export")
		}
		return MarshalLayout(docs.Layout)
	case FormatPNG:
		return render.ToPNG(ctx, static, opts.PNGScale)
	case FormatPDF:
		return render.ToPDF(ctx, static)
	}
	return nil, ValidateFormat(format)
}
