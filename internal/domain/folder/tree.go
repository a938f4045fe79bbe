package folder

import (
	"context"
	"strings"
)

// Lookup is the read side the tree walks need.
type Lookup interface {
	GetByID(ctx context.Context, id uint64) (*Folder, error)
	ListChildren(ctx context.Context, parentID uint64) ([]Folder, error)
}

// FullPath joins the names from the root down to f with "/".
func FullPath(ctx context.Context, l Lookup, f *Folder) (string, error) {
	names := []string{f.Name}
	cur := f
	for depth := 0; cur.ParentID != nil; depth++ {
		if depth >= MaxDepth {
			return "", ErrTooDeep
		}
		parent, err := l.GetByID(ctx, *cur.ParentID)
		if err != nil {
			return "", err
		}
		names = append(names, parent.Name)
		cur = parent
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/"), nil
}

// Descendants returns every folder below root, breadth first.
func Descendants(ctx context.Context, l Lookup, root *Folder) ([]Folder, error) {
	type item struct {
		id    uint64
		depth int
	}
	var out []Folder
	queue := []item{{id: root.ID}}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next.depth >= MaxDepth {
			return nil, ErrTooDeep
		}
		children, err := l.ListChildren(ctx, next.id)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			out = append(out, c)
			queue = append(queue, item{id: c.ID, depth: next.depth + 1})
		}
	}
	return out, nil
}

// Depth counts the folders above f. A root has depth 0.
func Depth(ctx context.Context, l Lookup, f *Folder) (int, error) {
	depth := 0
	for cur := f; cur.ParentID != nil; depth++ {
		if depth >= MaxDepth {
			return 0, ErrTooDeep
		}
		parent, err := l.GetByID(ctx, *cur.ParentID)
		if err != nil {
			return 0, err
		}
		cur = parent
	}
	return depth, nil
}

// Height is the number of levels below root. A leaf has height 0.
func Height(ctx context.Context, l Lookup, root *Folder) (int, error) {
	height := 0
	level := []uint64{root.ID}
	for len(level) > 0 {
		var next []uint64
		for _, id := range level {
			children, err := l.ListChildren(ctx, id)
			if err != nil {
				return 0, err
			}
			for _, c := range children {
				next = append(next, c.ID)
			}
		}
		if len(next) == 0 {
			break
		}
		height++
		if height >= MaxDepth {
			return 0, ErrTooDeep
		}
		level = next
	}
	return height, nil
}

// Fits reports whether a subtree of the given height can hang below a
// parent at parentDepth without any folder reaching MaxDepth.
func Fits(parentDepth, height int) bool {
	return parentDepth+1+height < MaxDepth
}

// IsAncestorOf reports whether ancestor sits somewhere above f.
func IsAncestorOf(ctx context.Context, l Lookup, ancestor, f *Folder) (bool, error) {
	cur := f
	for depth := 0; cur.ParentID != nil; depth++ {
		if depth >= MaxDepth {
			return false, ErrTooDeep
		}
		if *cur.ParentID == ancestor.ID {
			return true, nil
		}
		parent, err := l.GetByID(ctx, *cur.ParentID)
		if err != nil {
			return false, err
		}
		cur = parent
	}
	return false, nil
}
