package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySideClosedChainOuterAndInner(t *testing.T) {
	c := squareChain(t)
	tol := 0.01

	outer := NewLine(Point{-1, -1}, Point{11, -1})
	tag, confidence := ClassifySide(outer, c, 1, tol)
	assert.Equal(t, SideOuter, tag)
	assert.InDelta(t, 1, confidence, 1e-9)

	inner := NewLine(Point{3, 3}, Point{7, 3})
	tag, confidence = ClassifySide(inner, c, -1, tol)
	assert.Equal(t, SideInner, tag)
	assert.InDelta(t, 1, confidence, 1e-9)
}

func TestClassifySideOpenChainLeftAndRight(t *testing.T) {
	c := Chain{ID: "open", Shapes: []Shape{NewLine(Point{0, 0}, Point{10, 0})}}
	tol := 0.01

	left := NewLine(Point{0, 2}, Point{10, 2})
	tag, _ := ClassifySide(left, c, 2, tol)
	assert.Equal(t, SideLeft, tag)

	right := NewLine(Point{0, -2}, Point{10, -2})
	tag, _ = ClassifySide(right, c, -2, tol)
	assert.Equal(t, SideRight, tag)
}
