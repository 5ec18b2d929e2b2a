package testutil

import (
	"math"
	"testing"
)

func TestLinSpace(t *testing.T) {
	s := LinSpace(-12, 4, 17)
	if len(s) != 17 {
		t.Fatalf("len = %d, want 17", len(s))
	}
	if s[0] != -12 || s[16] != 4 {
		t.Fatalf("endpoints = %v, %v, want -12, 4", s[0], s[16])
	}
	if math.Abs(s[1]-s[0]-1) > 1e-12 {
		t.Fatalf("step = %v, want 1", s[1]-s[0])
	}
}

func TestLinSpaceSinglePoint(t *testing.T) {
	s := LinSpace(3, 9, 1)
	if len(s) != 1 || s[0] != 3 {
		t.Fatalf("got %v, want [3]", s)
	}
}

func TestLogSpace(t *testing.T) {
	s := LogSpace(-2, 2, 5)
	want := []float64{0.01, 0.1, 1, 10, 100}
	for i := range want {
		if math.Abs(s[i]-want[i]) > 1e-12*want[i] {
			t.Errorf("s[%d] = %v, want %v", i, s[i], want[i])
		}
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 64)
	b := DeterministicNoise(42, 0.5, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
	for i, v := range a {
		if v < -0.5 || v > 0.5 {
			t.Fatalf("a[%d] = %v out of range", i, v)
		}
	}
}
