package math

import "github.com/shopspring/decimal"

// Vec2 is a 2D decimal vector, used for texture coordinates.
type Vec2 struct {
	X, Y decimal.Decimal
}

// NewVec2 builds a Vec2 from integers.
func NewVec2(x, y int64) Vec2 {
	return Vec2{decimal.NewFromInt(x), decimal.NewFromInt(y)}
}

// Equal reports numeric equality.
func (v Vec2) Equal(other Vec2) bool {
	return v.X.Equal(other.X) && v.Y.Equal(other.Y)
}

// FlipV returns (X, 1-Y).
func (v Vec2) FlipV() Vec2 {
	return Vec2{v.X, One.Sub(v.Y)}
}

// Key returns a canonical string; numerically equal vectors share a key.
func (v Vec2) Key() string {
	return key(v.X) + " " + key(v.Y)
}

// Strings returns the components as decimal text.
func (v Vec2) Strings() []string {
	return []string{FormatNumber(v.X), FormatNumber(v.Y)}
}
