package board

import (
	"math"
	"math/rand"
)

// TerrainConfig holds tuneable noise and terrace parameters.
type TerrainConfig struct {
	// Noise layer scales (smaller = broader features).
	ElevationScale float64
	DetailScale    float64
	MoistureScale  float64

	// Elevation shaping.
	MaxElevation float64 // highest terrace
	Terrace      float64 // elevation quantum; 0 = continuous
	WaterLevel   float64 // noise value below which cells are water

	// Ground thresholds (noise value 0–1).
	SandBand       float64 // above water level by this much → sand
	RockThreshold  float64 // elevation fraction above this → rock
	SnowThreshold  float64 // elevation fraction above this → snow
	MudThreshold   float64 // moisture above this in lowland → mud
	LongGrassThres float64 // moisture above this → long grass
	ScrubThreshold float64 // detail above this → scrub
	GravelThresh   float64 // detail above this on slopes → gravel
}

// DefaultTerrainConfig produces stepped hills with a few lakes.
var DefaultTerrainConfig = TerrainConfig{
	ElevationScale: 0.08,
	DetailScale:    0.23,
	MoistureScale:  0.05,

	MaxElevation: 6,
	Terrace:      1,
	WaterLevel:   0.28,

	SandBand:       0.05,
	RockThreshold:  0.70,
	SnowThreshold:  0.88,
	MudThreshold:   0.70,
	LongGrassThres: 0.55,
	ScrubThreshold: 0.75,
	GravelThresh:   0.82,
}

// GenerateTerrain fills hm with noise-driven terraced elevation and ground types.
func GenerateTerrain(hm *Heightmap, rng *rand.Rand, cfg TerrainConfig) {
	elevSeed := rng.Int63()
	detailSeed := rng.Int63()
	moistSeed := rng.Int63()

	for row := 0; row < hm.Rows; row++ {
		for col := 0; col < hm.Cols; col++ {
			c := hm.At(col, row)

			// Two octaves: broad hills plus a quarter-weight ripple.
			ex := float64(col) * cfg.ElevationScale
			ey := float64(row) * cfg.ElevationScale
			n := 0.75*valueNoise2D(ex, ey, elevSeed) + 0.25*valueNoise2D(ex*2, ey*2, elevSeed+1)

			detail := valueNoise2D(float64(col)*cfg.DetailScale, float64(row)*cfg.DetailScale, detailSeed)
			moist := valueNoise2D(float64(col)*cfg.MoistureScale, float64(row)*cfg.MoistureScale, moistSeed)

			if n < cfg.WaterLevel {
				c.Elevation = 0
				c.Ground = GroundWater
				continue
			}

			frac := (n - cfg.WaterLevel) / (1 - cfg.WaterLevel)
			e := frac * cfg.MaxElevation
			if cfg.Terrace > 0 {
				e = math.Floor(e/cfg.Terrace) * cfg.Terrace
			}
			c.Elevation = e

			// --- Ground selection ---
			switch {
			case n < cfg.WaterLevel+cfg.SandBand:
				c.Ground = GroundSand
			case frac > cfg.SnowThreshold:
				c.Ground = GroundSnow
			case frac > cfg.RockThreshold:
				c.Ground = GroundRock
			case detail > cfg.GravelThresh && frac > 0.4:
				c.Ground = GroundGravel
			case moist > cfg.MudThreshold && frac < 0.2:
				c.Ground = GroundMud
			case detail > cfg.ScrubThreshold:
				c.Ground = GroundScrub
			case moist > cfg.LongGrassThres:
				c.Ground = GroundGrassLong
			case detail < 0.1:
				c.Ground = GroundDirt
			default:
				c.Ground = GroundGrass
			}
		}
	}
}

// --- Value noise implementation ---

// valueNoise2D returns a smooth noise value in [0,1] for the given coordinates.
// Uses lattice-based value noise with hermite interpolation.
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// latticeValue returns a pseudo-random value in [0,1] for integer coordinates.
func latticeValue(x, y int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
