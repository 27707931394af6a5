package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/Garsondee/battlegrid/internal/board"
)

// placeTypes are cycled through when populating the pool. The last entry has
// no style and exercises the fallback path.
var placeTypes = []string{"tree", "rock", "pine", "bush", "crate", "signpost"}

type runStats struct {
	runIndex int
	seed     int64

	maxHeight float64
	cliffs    int // adjacent pairs with a height step

	planeVertices    int
	advancedVertices int
	advancedTris     int
	walls            int

	placed         int
	groups         int
	flushCommits   int
	liveAfterPrune int
	groupsAfter    int
	slotReuse      bool

	tokens        int
	modeSwitches  int
	maxOffsetErr  float64
	maxBaseErr    float64
	sightScore    float64 // mean token sight score
	pickMisses    int
	pickMismatch  int
	headlessWarns int

	warnings map[string]int // category -> count
}

// runConfig holds the per-run knobs shared by every seed.
type runConfig struct {
	cols, rows   int
	capacity     int
	placements   int
	tokens       int
	modeSwitches int
	picks        int
}

func main() {
	var runs int
	var seedBase int64
	var seedStep int64
	rc := runConfig{}

	flag.IntVar(&runs, "runs", 5, "number of headless runs")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&rc.cols, "cols", 40, "board columns")
	flag.IntVar(&rc.rows, "rows", 30, "board rows")
	flag.IntVar(&rc.capacity, "capacity", board.DefaultGroupCapacity, "instance group capacity")
	flag.IntVar(&rc.placements, "placements", 200, "placeables added per run")
	flag.IntVar(&rc.tokens, "tokens", 24, "tokens placed per run")
	flag.IntVar(&rc.modeSwitches, "switches", 100, "projection switches per run")
	flag.IntVar(&rc.picks, "picks", 200, "ground picks per run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if rc.cols <= 0 || rc.rows <= 0 {
		fmt.Println("error: -cols and -rows must be > 0")
		return
	}
	if rc.capacity <= 0 {
		fmt.Println("error: -capacity must be > 0")
		return
	}

	fmt.Printf("=== Headless Board Report ===\n")
	fmt.Printf("runs=%d board=%dx%d capacity=%d seed_base=%d seed_step=%d\n\n",
		runs, rc.cols, rc.rows, rc.capacity, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runSeed(i+1, seed, rc)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, rs)
		printRun(rs)
	}

	printAggregate(all)
}

// countingFactory is a headless GraphicsFactory that only counts commits.
type countingFactory struct {
	buffers int
	commits int
}

func (f *countingFactory) NewInstanceBuffer(string, int, board.PlaceableStyle) board.InstanceBuffer {
	f.buffers++
	return &countingBuffer{f: f}
}

type countingBuffer struct{ f *countingFactory }

func (b *countingBuffer) SetSlot(int, board.InstanceTransform) {}
func (b *countingBuffer) Commit()                              { b.f.commits++ }
func (b *countingBuffer) Release()                             {}

// straightDown is a ray caster whose NDC square covers a world rectangle
// starting at (x0, z0); rays fall vertically.
type straightDown struct {
	x0, z0 float64
	w, h   float64
}

func (s straightDown) RayFromNDC(nx, ny float64) (board.Ray, bool) {
	r := board.Ray{}
	r.Origin.X = s.x0 + (nx+1)/2*s.w
	r.Origin.Y = 50
	r.Origin.Z = s.z0 + (1-ny)/2*s.h
	r.Dir.Y = -1
	return r, true
}

// boardCaster frames a straight-down caster exactly over the board's cells.
func boardCaster(cols, rows int, tile float64) straightDown {
	return straightDown{
		x0: -tile / 2,
		z0: -tile / 2,
		w:  float64(cols) * tile,
		h:  float64(rows) * tile,
	}
}

type fixedCanvas board.Rect

func (c fixedCanvas) BoundingClientRect() board.Rect { return board.Rect(c) }

func runSeed(runIndex int, seed int64, rc runConfig) (runStats, error) {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- reproducible report
	hm := board.NewHeightmap(rc.cols, rc.rows)
	board.GenerateTerrain(hm, rng, board.DefaultTerrainConfig)

	el := board.NewEventLog(nil)
	factory := &countingFactory{}
	s, err := board.NewSession(
		board.WithFactory(factory),
		board.WithLogger(el),
		board.WithPoolCapacity(rc.capacity),
	)
	if err != nil {
		return runStats{}, err
	}
	defer s.Close()

	rs := runStats{runIndex: runIndex, seed: seed, warnings: map[string]int{}}
	rs.maxHeight, rs.cliffs = terrainRelief(hm)

	// Mesh statistics.
	plane := board.BuildMesh(board.MeshParamsFor(hm, s.Coord.Config(), factory))
	adv := s.BuildTerrain(hm, true)
	if plane == nil || adv == nil {
		return runStats{}, fmt.Errorf("mesh build returned nil with a factory")
	}
	rs.planeVertices = plane.VertexCount()
	rs.advancedVertices = adv.VertexCount()
	rs.advancedTris = adv.TriangleCount()
	rs.walls = adv.Walls

	// Pool churn: fill, flush, prune every other, refill one.
	objs := make([]*board.Placeable, 0, rc.placements)
	for i := 0; i < rc.placements; i++ {
		c := board.GridCell{X: rng.Intn(rc.cols), Y: rng.Intn(rc.rows)}
		o := &board.Placeable{
			Type:      placeTypes[i%len(placeTypes)],
			Cell:      c,
			Elevation: hm.Height(c.X, c.Y),
			Rotation:  rng.Float64() * 2 * math.Pi,
		}
		if _, ok := s.Pool.Add(o); ok {
			objs = append(objs, o)
		}
	}
	rs.placed = len(objs)
	rs.groups = s.Pool.Stats().Groups
	rs.flushCommits = s.Pool.Flush()

	for i := 0; i < len(objs); i += 2 {
		s.Pool.Remove(objs[i])
	}
	rs.liveAfterPrune = s.Pool.Stats().Instances
	if len(objs) > 0 {
		// Re-adding a pruned type must land in a freed slot, not a new group.
		again := &board.Placeable{Type: objs[0].Type, Cell: objs[0].Cell}
		if _, ok := s.Pool.Add(again); ok {
			rs.slotReuse = s.Pool.Stats().Groups == rs.groups
		}
	}
	rs.groupsAfter = s.Pool.Stats().Groups
	s.Pool.Flush()

	// Reprojection drift.
	rs.tokens = rc.tokens
	rs.modeSwitches = rc.modeSwitches
	want := make([]float64, 0, rc.tokens)
	for i := 0; i < rc.tokens; i++ {
		c := board.GridCell{X: rng.Intn(rc.cols), Y: rng.Intn(rc.rows)}
		off := -math.Round(rng.Float64() * 40)
		s.AddToken(fmt.Sprintf("t%02d", i), c, off)
		want = append(want, off)
	}
	for i := 0; i < rc.modeSwitches; i++ {
		s.ToggleMode()
	}
	rs.maxOffsetErr, rs.maxBaseErr = reprojectionDrift(s, want)
	rs.sightScore = meanSightScore(hm, s.Tokens())

	// Picking: a straight-down caster over the whole board.
	tile := s.Coord.Config().TileWorldSize
	caster := boardCaster(rc.cols, rc.rows, tile)
	picker := board.NewPicker(s.Coord, caster, el)
	canvas := fixedCanvas{Width: float64(rc.cols) * 10, Height: float64(rc.rows) * 10}
	for i := 0; i < rc.picks; i++ {
		c := board.GridCell{X: rng.Intn(rc.cols), Y: rng.Intn(rc.rows)}
		px, py := cellPixel(c, tile, caster, board.Rect(canvas))
		res, ok := picker.PickGroundSync(px, py, canvas)
		switch {
		case !ok:
			rs.pickMisses++
		case res.Grid != c:
			rs.pickMismatch++
		}
	}

	rs.headlessWarns = headlessWarnings(hm)
	for _, e := range el.Entries() {
		if e.Level == "warn" {
			rs.warnings[e.Category]++
		}
	}
	return rs, nil
}

// cellPixel is the canvas pixel over the centre of cell c for caster.
func cellPixel(c board.GridCell, tile float64, caster straightDown, r board.Rect) (float64, float64) {
	wx := float64(c.X)*tile - caster.x0
	wz := float64(c.Y)*tile - caster.z0
	px := r.Left + wx/caster.w*r.Width
	py := r.Top + wz/caster.h*r.Height
	return px, py
}

// terrainRelief returns the highest cell and the count of height steps
// between orthogonal neighbours.
func terrainRelief(hm *board.Heightmap) (float64, int) {
	maxH := 0.0
	steps := 0
	for y := 0; y < hm.Rows; y++ {
		for x := 0; x < hm.Cols; x++ {
			h := hm.Height(x, y)
			if h > maxH {
				maxH = h
			}
			if x+1 < hm.Cols && hm.Height(x+1, y) != h {
				steps++
			}
			if y+1 < hm.Rows && hm.Height(x, y+1) != h {
				steps++
			}
		}
	}
	return maxH, steps
}

// reprojectionDrift compares every token with a fresh placement in the
// session's current mode. It returns the worst offset error and the worst
// baseline position error.
func reprojectionDrift(s *board.Session, wantOffsets []float64) (float64, float64) {
	var offErr, baseErr float64
	for i, t := range s.Tokens() {
		if i >= len(wantOffsets) {
			break
		}
		offErr = math.Max(offErr, math.Abs(t.ElevationOffset()-wantOffsets[i]))
		base := s.Coord.GridToScreenIn(s.Mode(), t.Cell.X, t.Cell.Y)
		baseErr = math.Max(baseErr, math.Hypot(t.Screen.X-base.X, t.BaselineY-base.Y))
	}
	return offErr, baseErr
}

// sightRadius and sightEye parameterise the token sight score.
const (
	sightRadius = 6
	sightEye    = 1.0
)

// meanSightScore averages board.SightScore over every token's cell.
func meanSightScore(hm *board.Heightmap, tokens []*board.Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range tokens {
		sum += board.SightScore(hm, t.Cell, sightRadius, sightEye)
	}
	return sum / float64(len(tokens))
}

// headlessWarnings runs the same operations without a graphics factory and
// returns how many degraded_backend warnings were logged.
func headlessWarnings(hm *board.Heightmap) int {
	el := board.NewEventLog(nil)
	s, err := board.NewSession(board.WithLogger(el))
	if err != nil {
		return -1
	}
	defer s.Close()
	s.BuildTerrain(hm, true)
	s.Pool.Add(&board.Placeable{Type: "tree"})
	n := 0
	for _, e := range el.Entries() {
		if e.Key == "degraded_backend" {
			n++
		}
	}
	return n
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("terrain: max_height=%.0f height_steps=%d\n", rs.maxHeight, rs.cliffs)
	fmt.Printf("mesh: plane_vertices=%d advanced_vertices=%d advanced_triangles=%d walls=%d\n",
		rs.planeVertices, rs.advancedVertices, rs.advancedTris, rs.walls)
	fmt.Printf("pool: placed=%d groups=%d flush_commits=%d live_after_prune=%d groups_after=%d slot_reuse=%t\n",
		rs.placed, rs.groups, rs.flushCommits, rs.liveAfterPrune, rs.groupsAfter, rs.slotReuse)
	fmt.Printf("reprojection: tokens=%d switches=%d max_offset_err=%.3g max_base_err=%.3g\n",
		rs.tokens, rs.modeSwitches, rs.maxOffsetErr, rs.maxBaseErr)
	fmt.Printf("picking: misses=%d mismatches=%d\n", rs.pickMisses, rs.pickMismatch)
	fmt.Printf("sight: mean_token_score=%.2f radius=%d\n", rs.sightScore, sightRadius)
	fmt.Printf("warnings: %s headless_degraded=%d\n", joinCounts(rs.warnings), rs.headlessWarns)
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalWalls := 0
	totalAdvanced := 0
	totalPlane := 0
	totalGroups := 0
	totalMisses := 0
	totalMismatch := 0
	worstOffset := 0.0
	worstBase := 0.0
	sightSum := 0.0
	reuse := 0
	warnings := map[string]int{}

	for _, rs := range all {
		totalWalls += rs.walls
		totalAdvanced += rs.advancedVertices
		totalPlane += rs.planeVertices
		totalGroups += rs.groups
		totalMisses += rs.pickMisses
		totalMismatch += rs.pickMismatch
		worstOffset = math.Max(worstOffset, rs.maxOffsetErr)
		worstBase = math.Max(worstBase, rs.maxBaseErr)
		sightSum += rs.sightScore
		if rs.slotReuse {
			reuse++
		}
		for k, v := range rs.warnings {
			warnings[k] += v
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_per_run: walls=%.1f advanced_vertices=%.1f plane_vertices=%.1f groups=%.1f\n",
		avg(totalWalls, len(all)), avg(totalAdvanced, len(all)), avg(totalPlane, len(all)), avg(totalGroups, len(all)))
	fmt.Printf("worst_reprojection: offset=%.3g base=%.3g\n", worstOffset, worstBase)
	fmt.Printf("picking: misses=%d mismatches=%d\n", totalMisses, totalMismatch)
	if len(all) > 0 {
		fmt.Printf("avg_sight_score=%.2f\n", sightSum/float64(len(all)))
	}
	fmt.Printf("slot_reuse_runs=%d/%d\n", reuse, len(all))
	fmt.Printf("warnings: %s\n", joinCounts(warnings))
	fmt.Printf("verdict: %s\n", verdict(all))
}

// verdict flags runs that broke an invariant the board guarantees.
func verdict(all []runStats) string {
	var problems []string
	for _, rs := range all {
		if rs.maxOffsetErr > 1e-9 || rs.maxBaseErr > 1e-9 {
			problems = append(problems, fmt.Sprintf("run%d:reprojection_drift", rs.runIndex))
		}
		if rs.walls > 0 && rs.advancedVertices <= rs.planeVertices {
			problems = append(problems, fmt.Sprintf("run%d:advanced_not_larger", rs.runIndex))
		}
		if rs.pickMisses > 0 || rs.pickMismatch > 0 {
			problems = append(problems, fmt.Sprintf("run%d:pick_errors", rs.runIndex))
		}
		if rs.headlessWarns == 0 {
			problems = append(problems, fmt.Sprintf("run%d:silent_headless", rs.runIndex))
		}
	}
	if len(problems) == 0 {
		return "ok"
	}
	return strings.Join(problems, " ")
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}
