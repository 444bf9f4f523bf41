package math

import "github.com/shopspring/decimal"

// Vec4 is a 4D decimal vector, used for homogeneous positions and colours.
type Vec4 struct {
	X, Y, Z, W decimal.Decimal
}

// White is opaque white.
var White = Vec4{One, One, One, One}

// XYZ drops the W component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Equal reports numeric equality.
func (v Vec4) Equal(other Vec4) bool {
	return v.X.Equal(other.X) && v.Y.Equal(other.Y) && v.Z.Equal(other.Z) && v.W.Equal(other.W)
}

// Key returns a canonical string; numerically equal vectors share a key.
func (v Vec4) Key() string {
	return key(v.X) + " " + key(v.Y) + " " + key(v.Z) + " " + key(v.W)
}
