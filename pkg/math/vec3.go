package math

import (
	"math"

	"github.com/shopspring/decimal"
)

// Vec3 is a 3D decimal vector.
type Vec3 struct {
	X, Y, Z decimal.Decimal
}

// NewVec3 builds a Vec3 from integers.
func NewVec3(x, y, z int64) Vec3 {
	return Vec3{decimal.NewFromInt(x), decimal.NewFromInt(y), decimal.NewFromInt(z)}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X.Add(other.X), v.Y.Add(other.Y), v.Z.Add(other.Z)}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X.Sub(other.X), v.Y.Sub(other.Y), v.Z.Sub(other.Z)}
}

// NegZ returns v with the Z component negated.
func (v Vec3) NegZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z.Neg()}
}

// Equal reports numeric equality.
func (v Vec3) Equal(other Vec3) bool {
	return v.X.Equal(other.X) && v.Y.Equal(other.Y) && v.Z.Equal(other.Z)
}

// Float64 returns the components as float64.
func (v Vec3) Float64() (x, y, z float64) {
	return v.X.InexactFloat64(), v.Y.InexactFloat64(), v.Z.InexactFloat64()
}

// Length returns the magnitude as float64.
func (v Vec3) Length() float64 {
	x, y, z := v.Float64()
	return math.Sqrt(x*x + y*y + z*z)
}

// Key returns a canonical string; numerically equal vectors share a key.
func (v Vec3) Key() string {
	return key(v.X) + " " + key(v.Y) + " " + key(v.Z)
}

// Strings returns the components as decimal text.
func (v Vec3) Strings() []string {
	return []string{FormatNumber(v.X), FormatNumber(v.Y), FormatNumber(v.Z)}
}

// AverageNormal returns the component-wise mean of normals scaled to unit
// length. Sums are exact; the mean and the square root are taken in float64
// and each component is converted back with the given number of significant
// digits. A zero-length mean yields the zero vector.
func AverageNormal(normals []Vec3, digits int) Vec3 {
	if len(normals) == 0 {
		return Vec3{}
	}

	var sum Vec3
	for _, n := range normals {
		sum = sum.Add(n)
	}

	count := float64(len(normals))
	x, y, z := sum.Float64()
	x, y, z = x/count, y/count, z/count

	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return Vec3{}
	}

	return Vec3{
		FromFloat(x/l, digits),
		FromFloat(y/l, digits),
		FromFloat(z/l, digits),
	}
}
