package sim

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := range 100 {
		if a.Next() != b.Next() {
			t.Fatalf("sequences diverged at draw %d", i)
		}
	}
}

func TestRNGZeroSeed(t *testing.T) {
	if NewRNG(0).State() == 0 {
		t.Error("zero seed should be remapped")
	}
}

func TestRNGRanges(t *testing.T) {
	r := NewRNG(7)
	for range 1000 {
		if v := r.Intn(5); v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d", v)
		}
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v", v)
		}
		if v := r.Range(20, 70); v < 20 || v >= 70 {
			t.Fatalf("Range(20, 70) = %v", v)
		}
	}
	if r.Intn(0) != 0 {
		t.Error("Intn(0) should be 0")
	}
	if r.Chance(0) || !r.Chance(1) {
		t.Error("Chance should be exact at 0 and 1")
	}
}
