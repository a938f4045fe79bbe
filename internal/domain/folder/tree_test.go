package folder

import (
	"context"
	"errors"
	"testing"
)

type memLookup map[uint64]*Folder

func (m memLookup) GetByID(_ context.Context, id uint64) (*Folder, error) {
	f, ok := m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

func (m memLookup) ListChildren(_ context.Context, parentID uint64) ([]Folder, error) {
	var out []Folder
	// stable order for assertions
	for id := uint64(1); id <= uint64(len(m))+1; id++ {
		if f, ok := m[id]; ok && f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func ptr(v uint64) *uint64 { return &v }

// docs(1) -> loans(2) -> 2025(3); docs(1) -> ids(4); other(5)
func sampleTree() memLookup {
	return memLookup{
		1: {ID: 1, Name: "docs"},
		2: {ID: 2, Name: "loans", ParentID: ptr(1)},
		3: {ID: 3, Name: "2025", ParentID: ptr(2)},
		4: {ID: 4, Name: "ids", ParentID: ptr(1)},
		5: {ID: 5, Name: "other"},
	}
}

func TestFullPath(t *testing.T) {
	m := sampleTree()
	got, err := FullPath(context.Background(), m, m[3])
	if err != nil {
		t.Fatalf("FullPath: %v", err)
	}
	if got != "docs/loans/2025" {
		t.Fatalf("path = %q", got)
	}
	if got, _ := FullPath(context.Background(), m, m[5]); got != "other" {
		t.Fatalf("root path = %q", got)
	}
}

func TestDescendants(t *testing.T) {
	m := sampleTree()
	got, err := Descendants(context.Background(), m, m[1])
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	ids := []uint64{}
	for _, f := range got {
		ids = append(ids, f.ID)
	}
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 4 || ids[2] != 3 {
		t.Fatalf("ids = %v, want [2 4 3]", ids)
	}
	if got, _ := Descendants(context.Background(), m, m[3]); len(got) != 0 {
		t.Fatalf("leaf descendants = %v", got)
	}
}

func TestIsAncestorOf(t *testing.T) {
	m := sampleTree()
	ctx := context.Background()
	cases := []struct {
		anc, f uint64
		want   bool
	}{
		{1, 3, true},
		{2, 3, true},
		{3, 1, false},
		{4, 3, false},
		{5, 3, false},
		{1, 1, false},
	}
	for _, c := range cases {
		got, err := IsAncestorOf(ctx, m, m[c.anc], m[c.f])
		if err != nil {
			t.Fatalf("IsAncestorOf(%d,%d): %v", c.anc, c.f, err)
		}
		if got != c.want {
			t.Fatalf("IsAncestorOf(%d,%d) = %v, want %v", c.anc, c.f, got, c.want)
		}
	}
}

func TestWalksAreDepthBounded(t *testing.T) {
	// a corrupted parent loop must not spin forever
	m := memLookup{
		1: {ID: 1, Name: "a", ParentID: ptr(2)},
		2: {ID: 2, Name: "b", ParentID: ptr(1)},
	}
	ctx := context.Background()
	if _, err := FullPath(ctx, m, m[1]); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("FullPath err = %v", err)
	}
	if _, err := IsAncestorOf(ctx, m, &Folder{ID: 99}, m[1]); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("IsAncestorOf err = %v", err)
	}
	if _, err := Descendants(ctx, m, m[1]); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("Descendants err = %v", err)
	}
	if _, err := Depth(ctx, m, m[1]); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("Depth err = %v", err)
	}
	if _, err := Height(ctx, m, m[1]); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("Height err = %v", err)
	}
}

func TestDepthAndHeight(t *testing.T) {
	m := sampleTree()
	ctx := context.Background()
	cases := []struct {
		id            uint64
		depth, height int
	}{
		{1, 0, 2},
		{2, 1, 1},
		{3, 2, 0},
		{4, 1, 0},
		{5, 0, 0},
	}
	for _, c := range cases {
		d, err := Depth(ctx, m, m[c.id])
		if err != nil || d != c.depth {
			t.Fatalf("Depth(%d) = %d, %v; want %d", c.id, d, err, c.depth)
		}
		h, err := Height(ctx, m, m[c.id])
		if err != nil || h != c.height {
			t.Fatalf("Height(%d) = %d, %v; want %d", c.id, h, err, c.height)
		}
	}
}

func TestFits(t *testing.T) {
	if !Fits(MaxDepth-2, 0) {
		t.Fatalf("leaf at the last level should fit")
	}
	if Fits(MaxDepth-1, 0) {
		t.Fatalf("leaf past the last level should not fit")
	}
	if Fits(10, MaxDepth-11) {
		t.Fatalf("subtree reaching MaxDepth should not fit")
	}
	if !Fits(10, MaxDepth-12) {
		t.Fatalf("subtree ending on the last level should fit")
	}
}
