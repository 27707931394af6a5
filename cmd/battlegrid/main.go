package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Garsondee/battlegrid/internal/board"
	"github.com/Garsondee/battlegrid/internal/render"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := render.DefaultViewerConfig
	var typesPath, mode string

	flag.IntVar(&cfg.Cols, "cols", cfg.Cols, "board columns")
	flag.IntVar(&cfg.Rows, "rows", cfg.Rows, "board rows")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "terrain RNG seed")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "window width in pixels")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "window height in pixels")
	flag.Float64Var(&cfg.Tilt, "tilt", cfg.Tilt, "oblique tilt of the 3D view (0 = straight down)")
	flag.StringVar(&typesPath, "types", "", "YAML file of placeable styles (default: built-in table)")
	flag.StringVar(&mode, "mode", cfg.Projection.String(), "starting projection: iso or 3d")
	flag.BoolVar(&cfg.HardEdges, "hard-edges", cfg.HardEdges, "terraced terrain with walls (false = smooth plane)")
	flag.Parse()

	p, ok := board.ParseProjection(mode)
	if !ok {
		log.Fatalf("unknown -mode %q", mode)
	}
	cfg.Projection = p

	if typesPath != "" {
		styles, err := loadStyles(typesPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Styles = styles
	}

	v, err := render.NewViewer(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer v.Close()

	ebiten.SetWindowTitle("Battlegrid")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

// loadStyles reads a style table and layers it over the built-in one.
func loadStyles(path string) (board.StyleTable, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("open types: %w", err)
	}
	defer f.Close()
	custom, err := board.LoadStyleTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := make(board.StyleTable, len(board.DefaultStyles)+len(custom))
	for k, s := range board.DefaultStyles {
		out[k] = s
	}
	for k, s := range custom {
		out[k] = s
	}
	return out, nil
}
