// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPosRenderings(t *testing.T) {
	t.Parallel()
	pos := NewPos(2, 4)
	require.Equal(t, "3:5", pos.String())
	require.Equal(t, "2:4", pos.GoString())
}

func TestPosOrder(t *testing.T) {
	t.Parallel()
	require.Negative(t, NewPos(0, 9).Compare(NewPos(1, 0)))
	require.Negative(t, NewPos(1, 0).Compare(NewPos(1, 1)))
	require.Zero(t, NewPos(1, 1).Compare(NewPos(1, 1)))
	require.Positive(t, NewPos(2, 0).Compare(NewPos(1, 9)))
}

func TestRangeRenderings(t *testing.T) {
	t.Parallel()
	span := NewRange(NewPos(0, 2), NewPos(0, 5))
	require.Equal(t, "1:3-1:5", span.String())
	require.Equal(t, "[0:2, 0:5)", span.GoString())
}

func TestRangeConcat(t *testing.T) {
	t.Parallel()
	left := NewRange(NewPos(0, 0), NewPos(0, 3))
	right := NewRange(NewPos(0, 4), NewPos(1, 2))
	joined := left.Concat(right)
	require.Equal(t, NewPos(0, 0), joined.Start())
	require.Equal(t, NewPos(1, 2), joined.End())
}

func TestRangeConcatOutOfOrderPanics(t *testing.T) {
	t.Parallel()
	left := NewRange(NewPos(0, 2), NewPos(0, 6))
	right := NewRange(NewPos(0, 4), NewPos(0, 8))
	require.Panics(t, func() {
		left.Concat(right)
	})
}

func TestInvertedRangePanics(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() {
		NewRange(NewPos(1, 0), NewPos(0, 0))
	})
}

func TestPosExcerpt(t *testing.T) {
	t.Parallel()
	log := NewLog()
	log.Append("let x = 1;\n")
	buf := &bytes.Buffer{}
	require.NoError(t, NewPos(0, 4).Excerpt(buf, log))
	require.Equal(t, "let  !-> x = 1;\n", buf.String())
}

func TestRangeExcerptSingleLine(t *testing.T) {
	t.Parallel()
	log := NewLog()
	log.Append("let x = 1;\n")
	buf := &bytes.Buffer{}
	require.NoError(t, NewRange(NewPos(0, 4), NewPos(0, 5)).Excerpt(buf, log))
	require.Equal(t, "let  !-> x <-!  = 1;\n", buf.String())
}

func TestRangeExcerptMultiLine(t *testing.T) {
	t.Parallel()
	log := NewLog()
	log.Append("a \"open\n")
	log.Append("middle\n")
	log.Append("close\" b\n")
	buf := &bytes.Buffer{}
	span := NewRange(NewPos(0, 2), NewPos(2, 6))
	require.NoError(t, span.Excerpt(buf, log))
	require.Equal(t, "a  !-> \"open\nmiddle\nclose\" <-!  b\n", buf.String())
}

func TestRangeExcerptZeroWidth(t *testing.T) {
	t.Parallel()
	log := NewLog()
	log.Append("ab\n")
	buf := &bytes.Buffer{}
	require.NoError(t, RangeAt(NewPos(0, 1)).Excerpt(buf, log))
	require.Equal(t, "a !-> b\n", buf.String())
}
