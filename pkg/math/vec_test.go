package math

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func num(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := ParseNumber(s)
	if err != nil {
		t.Fatalf("ParseNumber(%q): %v", s, err)
	}
	return d
}

func TestParseNumberInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "--1"} {
		if _, err := ParseNumber(s); err == nil {
			t.Errorf("ParseNumber(%q) expected error", s)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "1"},
		{"1.000000", "1.000000"},
		{"-2.5", "-2.5"},
		{"0.5", "0.5"},
		{"100", "100"},
		{"0.000001", "0.000001"},
		{"0.0000001", "1E-7"},
		{"0.0000000", "0E-7"},
		{"1e2", "1E+2"},
		{"1.5e3", "1.5E+3"},
		{"-0.0012", "-0.0012"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatNumber(num(t, tt.in)); got != tt.want {
				t.Errorf("FormatNumber(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatNumberArithmetic(t *testing.T) {
	got := FormatNumber(num(t, "1.000").Sub(num(t, "1")))
	if got != "0.000" {
		t.Errorf("1.000 - 1 = %q, want 0.000", got)
	}

	got = FormatNumber(num(t, "2.50").Sub(num(t, "0.25")))
	if got != "2.25" {
		t.Errorf("2.50 - 0.25 = %q, want 2.25", got)
	}
}

func TestVec3Key(t *testing.T) {
	a := Vec3{num(t, "1.0"), num(t, "2"), num(t, "0.000")}
	b := Vec3{num(t, "1"), num(t, "2.00"), num(t, "0")}

	if !a.Equal(b) {
		t.Error("expected numerically equal vectors to be Equal")
	}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == NewVec3(1, 2, 3).Key() {
		t.Error("distinct vectors share a key")
	}
}

func TestVec3Sub(t *testing.T) {
	got := NewVec3(1, 1, 1).Sub(NewVec3(1, 0, 0))
	if !got.Equal(NewVec3(0, 1, 1)) {
		t.Errorf("Sub = %v, want (0,1,1)", got.Strings())
	}
}

func TestVec3NegZ(t *testing.T) {
	got := NewVec3(1, 2, 3).NegZ()
	if !got.Equal(NewVec3(1, 2, -3)) {
		t.Errorf("NegZ = %v, want (1,2,-3)", got.Strings())
	}
}

func TestVec2FlipV(t *testing.T) {
	v := Vec2{num(t, "0.2"), num(t, "0.9")}
	got := v.FlipV()
	if s := got.Strings(); s[0] != "0.2" || s[1] != "0.1" {
		t.Errorf("FlipV = %v, want [0.2 0.1]", s)
	}
}

func TestAverageNormal(t *testing.T) {
	n := AverageNormal([]Vec3{NewVec3(1, 0, 0), NewVec3(0, 1, 0)}, 15)

	x, y, z := n.Float64()
	if math.Abs(x-math.Sqrt2/2) > 1e-12 || math.Abs(y-math.Sqrt2/2) > 1e-12 || z != 0 {
		t.Errorf("AverageNormal = (%v, %v, %v), want (0.707..., 0.707..., 0)", x, y, z)
	}
	if l := n.Length(); l < 0.999999 || l > 1.000001 {
		t.Errorf("length = %v, want ~1", l)
	}
	if got := FormatNumber(n.X); got != "0.707106781186548" {
		t.Errorf("X = %q, want 0.707106781186548", got)
	}
}

func TestAverageNormalDegenerate(t *testing.T) {
	n := AverageNormal([]Vec3{NewVec3(1, 0, 0), NewVec3(-1, 0, 0)}, 15)
	if !n.Equal(Vec3{}) {
		t.Errorf("opposing normals should average to zero, got %v", n.Strings())
	}
	if !AverageNormal(nil, 15).Equal(Vec3{}) {
		t.Error("empty input should yield zero vector")
	}
}

func TestVec4XYZ(t *testing.T) {
	v := Vec4{One, Zero, One, One}
	if !v.XYZ().Equal(NewVec3(1, 0, 1)) {
		t.Errorf("XYZ = %v", v.XYZ().Strings())
	}
	if !White.Equal(Vec4{One, One, One, One}) {
		t.Error("White should be opaque white")
	}
}
