package unionfind

import "testing"

func TestFindRewritesChain(t *testing.T) {
	uf := New[int]()
	keys := make([]Key, 5)
	for i := range keys {
		keys[i] = uf.Allocate(i)
	}
	// keys[4] -> keys[3] -> ... -> keys[0]
	for i := len(keys) - 1; i > 0; i-- {
		uf.UnionWith(keys[i-1], keys[i], 0)
	}
	if got := uf.slots[4].next; got != 3 {
		t.Fatalf("before find: slot 4 points at %d, want 3", got)
	}

	root, _ := uf.Find(keys[4])
	if root != keys[0] {
		t.Fatalf("root = %v, want %v", root, keys[0])
	}
	for i := 1; i < len(keys); i++ {
		if uf.slots[i].leaf {
			t.Fatalf("slot %d became a leaf", i)
		}
		if got := uf.slots[i].next; got != root.index {
			t.Errorf("slot %d points at %d, want %d", i, got, root.index)
		}
	}
}
