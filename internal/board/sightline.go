package board

import "math"

// LineOfSight reports whether an eye eyeHeight elevation units above the
// surface of from can see a point eyeHeight above the surface of to. The
// segment between the two cell centres is tested against every cell it
// crosses; a cell blocks when its top rises above the sight line anywhere
// along the crossed span. Cells the line only grazes at a corner do not block.
func LineOfSight(hm *Heightmap, from, to GridCell, eyeHeight float64) bool {
	if hm == nil || !hm.InBounds(from.X, from.Y) || !hm.InBounds(to.X, to.Y) {
		return false
	}
	if from == to {
		return true
	}
	ha := hm.Height(from.X, from.Y) + eyeHeight
	hb := hm.Height(to.X, to.Y) + eyeHeight
	ox, oy := float64(from.X), float64(from.Y)
	ex, ey := float64(to.X), float64(to.Y)

	minX, maxX := min(from.X, to.X), max(from.X, to.X)
	minY, maxY := min(from.Y, to.Y), max(from.Y, to.Y)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if (x == from.X && y == from.Y) || (x == to.X && y == to.Y) {
				continue
			}
			t0, t1, hit := segmentCellSpan(ox, oy, ex, ey, x, y)
			if !hit || t1-t0 < 1e-9 {
				continue
			}
			line := math.Min(ha+(hb-ha)*t0, ha+(hb-ha)*t1)
			if hm.Height(x, y) > line {
				return false
			}
		}
	}
	return true
}

// segmentCellSpan clips the segment (ox,oy)->(ex,ey) to the footprint of cell
// (cx, cy) and returns the entry and exit parameters in [0,1].
func segmentCellSpan(ox, oy, ex, ey float64, cx, cy int) (float64, float64, bool) {
	tMin, tMax := 0.0, 1.0
	for _, ax := range [2][3]float64{
		{ox, ex - ox, float64(cx)},
		{oy, ey - oy, float64(cy)},
	} {
		o, d, c := ax[0], ax[1], ax[2]
		lo, hi := c-0.5, c+0.5
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// SightScore returns the fraction (0-1) of on-board cells within radius
// cells of from that are visible from it at eyeHeight. Higher means more
// open ground.
func SightScore(hm *Heightmap, from GridCell, radius int, eyeHeight float64) float64 {
	if hm == nil || !hm.InBounds(from.X, from.Y) || radius <= 0 {
		return 0
	}
	total, visible := 0, 0
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if (dx == 0 && dy == 0) || dx*dx+dy*dy > r2 {
				continue
			}
			c := GridCell{X: from.X + dx, Y: from.Y + dy}
			if !hm.InBounds(c.X, c.Y) {
				continue
			}
			total++
			if LineOfSight(hm, from, c, eyeHeight) {
				visible++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(visible) / float64(total)
}
