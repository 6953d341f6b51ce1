package wfc

import "testing"

func TestNewBitsetWordCount(t *testing.T) {
	cases := []struct {
		n     int
		words int
	}{
		{0, 0},
		{1, 1},
		{64, 1},
		{65, 2},
		{128, 2},
		{129, 3},
	}
	for _, c := range cases {
		b := newBitset(c.n)
		if len(b.words) != c.words {
			t.Errorf("newBitset(%d): got %d words, want %d", c.n, len(b.words), c.words)
		}
	}
}

func TestNewFullBitsetMasksTail(t *testing.T) {
	b := newFullBitset(70)
	if b.popcount() != 70 {
		t.Fatalf("popcount = %d, want 70", b.popcount())
	}
	for p := 70; p < 128; p++ {
		if b.get(p) {
			t.Fatalf("bit %d set beyond n=70", p)
		}
	}
}

func TestSetClearGet(t *testing.T) {
	b := newBitset(100)
	if b.get(5) {
		t.Fatal("bit 5 should start clear")
	}
	if !b.set(5) {
		t.Fatal("set(5) should report newly set")
	}
	if b.set(5) {
		t.Fatal("set(5) again should report already set")
	}
	if !b.get(5) {
		t.Fatal("bit 5 should now be set")
	}
	if !b.clear(5) {
		t.Fatal("clear(5) should report newly cleared")
	}
	if b.clear(5) {
		t.Fatal("clear(5) again should report already clear")
	}
}

func TestPopcount(t *testing.T) {
	b := newBitset(200)
	for _, p := range []int{0, 63, 64, 127, 199} {
		b.set(p)
	}
	if got := b.popcount(); got != 5 {
		t.Fatalf("popcount = %d, want 5", got)
	}
}

func TestIsZero(t *testing.T) {
	b := newBitset(10)
	if !b.isZero() {
		t.Fatal("fresh bitset should be zero")
	}
	b.set(3)
	if b.isZero() {
		t.Fatal("bitset with a set bit should not be zero")
	}
}

func TestClone(t *testing.T) {
	a := newBitset(10)
	a.set(2)
	b := a.clone()
	b.set(4)
	if a.get(4) {
		t.Fatal("clone should not share storage with original")
	}
	if !b.get(2) || !b.get(4) {
		t.Fatal("clone should carry forward original bits")
	}
}

func TestForEach(t *testing.T) {
	b := newBitset(200)
	want := []int{1, 64, 65, 150}
	for _, p := range want {
		b.set(p)
	}
	var got []int
	b.forEach(func(p int) bool {
		got = append(got, p)
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("forEach visited %d bits, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("forEach order[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestForEachEarlyStop(t *testing.T) {
	b := newBitset(200)
	b.set(1)
	b.set(2)
	b.set(3)
	count := 0
	b.forEach(func(p int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("forEach should stop after first fn() returning false, visited %d", count)
	}
}

func TestIntersects(t *testing.T) {
	a := newBitset(128)
	b := newBitset(128)
	a.set(10)
	b.set(20)
	if a.intersects(&b) {
		t.Fatal("disjoint bitsets should not intersect")
	}
	b.set(10)
	if !a.intersects(&b) {
		t.Fatal("bitsets sharing bit 10 should intersect")
	}
}
