package lgca

import (
	"math/bits"
	"testing"
)

func TestCollisionTablePinnedValues(t *testing.T) {
	cases := []struct {
		variant int
		input   byte
		want    byte
	}{
		{0, 0x00, 0x00},
		{0, 0x05, 0x42},
		{0, 0x0A, 0x44},
		{0, 0x15, 0x2A},
		{1, 0x05, 0x42},
		{1, 0x09, 0x12},
		{0, 0x80, 0x80},
		{0, 0x81, 0x88},
		{0, 0xFF, 0xFF},
	}
	for _, c := range cases {
		got := collisionTable.At(c.variant, c.input)
		if got != c.want {
			t.Errorf("table[%d][0x%02x] = 0x%02x, want 0x%02x", c.variant, c.input, got, c.want)
		}
	}
}

func TestCollisionTableMassConservation(t *testing.T) {
	for b := 0; b < 256; b++ {
		in := popcount7(byte(b))
		for variant := 0; variant < 2; variant++ {
			out := popcount7(collisionTable.At(variant, byte(b)))
			if out != in {
				t.Fatalf("variant %d, b=0x%02x: mass %d != %d", variant, b, out, in)
			}
		}
	}
}

func TestCollisionTableMomentumConservationNonWall(t *testing.T) {
	for b := 0; b < 128; b++ {
		inVX, inVY := regionVX(byte(b)), regionVY(byte(b))
		for variant := 0; variant < 2; variant++ {
			out := collisionTable.At(variant, byte(b))
			outVX, outVY := regionVX(out), regionVY(out)
			if outVX != inVX || outVY != inVY {
				t.Fatalf("variant %d, b=0x%02x: momentum (%d,%d) != (%d,%d)", variant, b, outVX, outVY, inVX, inVY)
			}
		}
	}
}

func TestCollisionTableWallBounceBack(t *testing.T) {
	rotate := func(b byte) byte {
		var out byte
		for d := 0; d < 6; d++ {
			if b&(1<<uint(d)) != 0 {
				out |= 1 << uint((d+3)%6)
			}
		}
		return out | (b & bitRest)
	}

	for b := 128; b < 256; b++ {
		for variant := 0; variant < 2; variant++ {
			out := collisionTable.At(variant, byte(b))
			if out&bitWall == 0 {
				t.Fatalf("variant %d, b=0x%02x: wall bit lost", variant, b)
			}
			wantDirs := rotate(byte(b) & 0x7f)
			gotDirs := out & 0x7f
			if gotDirs != wantDirs {
				t.Fatalf("variant %d, b=0x%02x: direction bits 0x%02x, want rotated 0x%02x", variant, b, gotDirs, wantDirs)
			}
		}
	}
}

func TestAmbiguousMatchesTableDisagreement(t *testing.T) {
	for b := 0; b < 256; b++ {
		want := collisionTable.At(0, byte(b)) != collisionTable.At(1, byte(b))
		if got := collisionTable.Ambiguous(byte(b)); got != want {
			t.Errorf("Ambiguous(0x%02x) = %v, want %v", b, got, want)
		}
	}
}

func TestCollideUnambiguousIgnoresCoin(t *testing.T) {
	for b := 0; b < 256; b++ {
		if collisionTable.Ambiguous(byte(b)) {
			continue
		}
		want := collisionTable.At(0, byte(b))
		if got := Collide(byte(b), 0); got != want {
			t.Errorf("Collide(0x%02x, 0) = 0x%02x, want 0x%02x", b, got, want)
		}
		if got := Collide(byte(b), 1); got != want {
			t.Errorf("Collide(0x%02x, 1) = 0x%02x, want 0x%02x", b, got, want)
		}
	}
}

func TestCollideAmbiguousUsesCoin(t *testing.T) {
	found := false
	for b := 0; b < 256; b++ {
		if !collisionTable.Ambiguous(byte(b)) {
			continue
		}
		found = true
		if got := Collide(byte(b), 0); got != collisionTable.At(0, byte(b)) {
			t.Errorf("Collide(0x%02x, 0) = 0x%02x, want table[0]", b, got)
		}
		if got := Collide(byte(b), 1); got != collisionTable.At(1, byte(b)) {
			t.Errorf("Collide(0x%02x, 1) = 0x%02x, want table[1]", b, got)
		}
	}
	if !found {
		t.Fatal("expected at least one ambiguous entry in the collision table")
	}
}

func init() {
	// sanity check popcount7 itself against the stdlib, since several
	// tests above lean on it to check mass conservation.
	if popcount7(0xFF) != bits.OnesCount8(0x7f) {
		panic("popcount7 disagrees with bits.OnesCount8")
	}
}
