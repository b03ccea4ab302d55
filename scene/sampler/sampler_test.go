package sampler

import "testing"

func TestRandomRange(t *testing.T) {
	s := NewRandom(42)
	for i := 0; i < 1000; i++ {
		v := s.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("[sample %d] expected value in [0, 1); got %f", i, v)
		}
	}
}

func TestRandomSeedIsDeterministic(t *testing.T) {
	s1 := NewRandom(7)
	s2 := NewRandom(7)
	for i := 0; i < 100; i++ {
		if a, b := s1.Get2D(), s2.Get2D(); a != b {
			t.Fatalf("[sample %d] expected samplers with the same seed to agree; got %v and %v", i, a, b)
		}
	}
}

func TestRandomReseed(t *testing.T) {
	s := NewRandom(7)
	first := s.Get1D()
	s.Get1D()

	s.Seed(7)
	if v := s.Get1D(); v != first {
		t.Fatalf("expected reseeded sampler to replay its sequence; got %f, expected %f", v, first)
	}
}

func TestFixedWrapsAround(t *testing.T) {
	s := NewFixed(0.1, 0.2, 0.3)
	exp := []float32{0.1, 0.2, 0.3, 0.1, 0.2}
	for i, e := range exp {
		if v := s.Get1D(); v != e {
			t.Fatalf("[sample %d] expected %f; got %f", i, e, v)
		}
	}

	if v := NewFixed().Get1D(); v != 0.5 {
		t.Fatalf("expected default fixed sampler to return 0.5; got %f", v)
	}
}
