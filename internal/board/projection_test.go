package board

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func randomTokens(r *Reconciler, rng *rand.Rand, n int) TokenList {
	toks := make(TokenList, n)
	for i := range toks {
		toks[i] = &Token{Cell: GridCell{rng.Intn(200) - 100, rng.Intn(200) - 100}}
		r.Place(toks[i], (rng.Float64()-0.5)*4000)
	}
	return toks
}

func TestReprojectAll_RoundTripRestoresScreen(t *testing.T) {
	layout := ScreenLayout{IsoTileWidth: 64, IsoTileHeight: 32, TopDownTile: 40, OriginX: 512, OriginY: 96}
	coord, err := NewCoordinator(DefaultSpatialConfig, layout)
	if err != nil {
		t.Fatal(err)
	}
	r := NewReconciler(coord, ProjectionIsometric)
	toks := randomTokens(r, rand.New(rand.NewSource(42)), 200)

	orig := make([]ScreenPoint, len(toks))
	offsets := make([]float64, len(toks))
	for i, tk := range toks {
		orig[i] = tk.Screen
		offsets[i] = tk.ElevationOffset()
	}

	r.ReprojectAll(toks, ProjectionTopDown)
	assert.Equal(t, ProjectionTopDown, r.Mode())
	for i, tk := range toks {
		base := coord.GridToScreenIn(ProjectionTopDown, tk.Cell.X, tk.Cell.Y)
		assert.Equal(t, base.Y, tk.BaselineY)
		assert.InDelta(t, offsets[i], tk.ElevationOffset(), 1e-9, "token %d offset drifted", i)
	}

	r.ReprojectAll(toks, ProjectionIsometric)
	for i, tk := range toks {
		assert.InDelta(t, orig[i].X, tk.Screen.X, 1e-4)
		assert.InDelta(t, orig[i].Y, tk.Screen.Y, 1e-4)
	}
}

func TestReprojectAll_ABAOverManyCycles(t *testing.T) {
	coord := mustCoordinator(DefaultSpatialConfig)
	r := NewReconciler(coord, ProjectionTopDown)
	toks := randomTokens(r, rand.New(rand.NewSource(7)), 50)
	orig := make([]float64, len(toks))
	for i, tk := range toks {
		orig[i] = tk.Screen.Y
	}
	for i := 0; i < 100; i++ {
		r.ReprojectAll(toks, r.Mode().Other())
	}
	for i, tk := range toks {
		assert.InDelta(t, orig[i], tk.Screen.Y, 1e-4)
	}
}

func TestReprojectAll_SameModeIsStable(t *testing.T) {
	coord := mustCoordinator(DefaultSpatialConfig)
	r := NewReconciler(coord, ProjectionIsometric)
	tk := &Token{Cell: GridCell{3, 4}}
	r.Place(tk, -24)
	before := *tk
	r.ReprojectAll(TokenList{tk, nil}, ProjectionIsometric)
	assert.Equal(t, before, *tk)
}

func TestProjection_ParseAndString(t *testing.T) {
	for _, s := range []string{"isometric", "topdown"} {
		p, ok := ParseProjection(s)
		assert.True(t, ok)
		assert.Equal(t, s, p.String())
	}
	_, ok := ParseProjection("oblique")
	assert.False(t, ok)
	assert.Equal(t, ProjectionIsometric, ProjectionTopDown.Other())
}
