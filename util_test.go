package main

import (
	"strings"
	"testing"
)

func TestGenerateIDLength(t *testing.T) {
	if id := GenerateID(4); len(id) != 8 { // 4 bytes = 8 hex chars
		t.Errorf("expected 8 chars, got %d: %s", len(id), id)
	}
	if id := GenerateID(8); len(id) != 16 {
		t.Errorf("expected 16 chars, got %d: %s", len(id), id)
	}
}

func TestGenerateUUIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateUUID()
		if seen[id] {
			t.Fatalf("duplicate UUID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); d != 5 {
		t.Errorf("Distance(0,0,3,4) = %f, want 5", d)
	}
}

func TestRandFloatRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := randFloat()
		if v < 0 || v >= 1 {
			t.Fatalf("randFloat() = %f, out of [0,1)", v)
		}
	}
}

func TestGenerateGuestName(t *testing.T) {
	name := GenerateGuestName()
	if !strings.HasPrefix(name, "Guest_") || len(name) != len("Guest_")+6 {
		t.Errorf("unexpected guest name %q", name)
	}
}
