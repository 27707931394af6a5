package render

import (
	"testing"

	"github.com/Garsondee/battlegrid/internal/board"
)

func TestInstanceBatch_CommitPublishesWrites(t *testing.T) {
	b := NewBackend()
	buf := b.NewInstanceBuffer("tree", 4, board.DefaultStyles["tree"])
	ib := buf.(*InstanceBatch)

	buf.SetSlot(1, board.InstanceTransform{Scale: 1, Position: board.WorldPoint{X: 2}})
	if n := len(ib.Visible()); n != 0 {
		t.Fatalf("visible before commit = %d, want 0", n)
	}
	buf.Commit()
	vis := ib.Visible()
	if len(vis) != 1 || vis[0].Position.X != 2 {
		t.Fatalf("visible after commit = %+v", vis)
	}

	buf.SetSlot(1, board.InstanceTransform{})
	buf.Commit()
	if n := len(ib.Visible()); n != 0 {
		t.Errorf("hidden slot still visible: %d", n)
	}
}

func TestInstanceBatch_IgnoresOutOfRangeSlots(t *testing.T) {
	b := NewBackend()
	buf := b.NewInstanceBuffer("rock", 2, board.DefaultStyles["rock"])
	buf.SetSlot(-1, board.InstanceTransform{Scale: 1})
	buf.SetSlot(2, board.InstanceTransform{Scale: 1})
	buf.Commit()
	if n := len(buf.(*InstanceBatch).Visible()); n != 0 {
		t.Errorf("visible = %d, want 0", n)
	}
}

func TestBackend_ReleasedBatchesDropOut(t *testing.T) {
	b := NewBackend()
	a := b.NewInstanceBuffer("tree", 2, board.DefaultStyles["tree"])
	b.NewInstanceBuffer("rock", 2, board.DefaultStyles["rock"])
	if n := len(b.Batches()); n != 2 {
		t.Fatalf("batches = %d, want 2", n)
	}
	a.Release()
	a.SetSlot(0, board.InstanceTransform{Scale: 1})
	a.Commit()
	if n := len(b.Batches()); n != 1 {
		t.Errorf("batches after release = %d, want 1", n)
	}
}

func TestBackend_DrivenByPool(t *testing.T) {
	coord, err := board.NewCoordinator(board.DefaultSpatialConfig, board.DefaultScreenLayout)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBackend()
	pool := board.NewPool(coord, b, board.DefaultStyles, 2, board.NopLogger{})

	objs := []*board.Placeable{
		{Type: "tree", Cell: board.GridCell{X: 1, Y: 1}},
		{Type: "tree", Cell: board.GridCell{X: 2, Y: 1}},
		{Type: "tree", Cell: board.GridCell{X: 3, Y: 1}},
	}
	for _, o := range objs {
		if _, ok := pool.Add(o); !ok {
			t.Fatalf("add %v failed", o.Cell)
		}
	}
	if n := pool.Flush(); n != 2 {
		t.Errorf("flush committed %d groups, want 2", n)
	}
	total := 0
	for _, ib := range b.Batches() {
		total += len(ib.Visible())
	}
	if total != 3 {
		t.Errorf("visible instances = %d, want 3", total)
	}

	pool.Remove(objs[0])
	pool.Flush()
	total = 0
	for _, ib := range b.Batches() {
		total += len(ib.Visible())
	}
	if total != 2 {
		t.Errorf("visible after remove = %d, want 2", total)
	}

	pool.Release()
	if n := len(b.Batches()); n != 0 {
		t.Errorf("batches after pool release = %d, want 0", n)
	}
}
