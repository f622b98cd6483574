package status

import "testing"

func TestGetReturnsCachedPointer(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get("track.segments")
	b := r.Ints.Get("track.segments")
	if a != b {
		t.Fatal("Get must return the same pointer for a key")
	}
	a.Add(3)
	if b.Load() != 3 {
		t.Errorf("shared pointer value = %d, want 3", b.Load())
	}
}

func TestSnapshotCopiesValues(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("score").Store(15)
	r.Floats.Get("runner.speed").Set(8.5)
	r.Bools.Get("session.over").Store(true)
	r.Strings.Get("difficulty.phase").Store("active")

	s := r.Snapshot()
	if s.Ints["score"] != 15 || s.Floats["runner.speed"] != 8.5 || !s.Bools["session.over"] || s.Strings["difficulty.phase"] != "active" {
		t.Errorf("snapshot = %+v", s)
	}

	r.Ints.Get("score").Store(20)
	if s.Ints["score"] != 15 {
		t.Error("snapshot must not alias live metrics")
	}
	if r.TotalCount() != 4 {
		t.Errorf("TotalCount = %d, want 4", r.TotalCount())
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("zero value must be empty")
	}
	s.Store("abcdefghijklmnopqrstuvwxyz0123")
	if got := s.Load(); len(got) != MaxStringLen {
		t.Errorf("len = %d, want %d", len(got), MaxStringLen)
	}
}

func TestAtomicFloatAdd(t *testing.T) {
	var f AtomicFloat
	f.Set(1.5)
	if got := f.Add(2); got != 3.5 {
		t.Errorf("Add = %v, want 3.5", got)
	}
}

func TestAtomicStringKeepsRunesWhole(t *testing.T) {
	var s AtomicString
	// 23 ASCII bytes then a two-byte rune straddling the limit
	s.Store("abcdefghijklmnopqrstuvwé")
	if got := s.Load(); got != "abcdefghijklmnopqrstuvw" {
		t.Errorf("Load = %q", got)
	}
}

func TestKeysFiltersByPrefix(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("track.spawned")
	r.Ints.Get("track.recycled")
	r.Ints.Get("coins.score")
	r.Ints.Get("track.spawned")

	keys := r.Ints.Keys("track.")
	if len(keys) != 2 || keys[0] != "track.recycled" || keys[1] != "track.spawned" {
		t.Fatalf("Keys = %v", keys)
	}
	if r.Ints.Count() != 3 {
		t.Fatalf("Count = %d, want 3", r.Ints.Count())
	}
}
