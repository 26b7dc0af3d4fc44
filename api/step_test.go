package api

import (
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	p := PropertyStep("a")
	assert.Equal(t, StepProperty, p.Kind())
	assert.Equal(t, "a", p.Name())
	assert.Equal(t, `"a"`, p.String())
	assert.False(t, p.IsAnyIndex())

	i := IndexStep(3)
	assert.Equal(t, StepIndex, i.Kind())
	assert.Equal(t, 3, i.Index())
	assert.Equal(t, "3", i.String())

	assert.True(t, IndexStep(-7).IsAnyIndex())
	assert.Equal(t, AnyIndexStep(), IndexStep(-1))
	assert.Equal(t, "*", AnyIndexStep().String())
	assert.Equal(t, "?", Step{}.String())

	assert.Equal(t, "object-property", StepProperty.String())
	assert.Equal(t, "array-index", StepIndex.String())
}

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "$", Position{}.String())
	assert.Equal(t, "$.arr[1].x", Position{PropertyStep("arr"), IndexStep(1), PropertyStep("x")}.String())
}

func TestPosition_Expr(t *testing.T) {
	data, err := oj.ParseString(`{"arr": [{"x": 1}, {"x": 2}], "a/b": {"~": true}}`)
	require.NoError(t, err)

	got := Position{PropertyStep("arr"), IndexStep(1), PropertyStep("x")}.Expr().Get(data)
	assert.Equal(t, []any{int64(2)}, got)

	got = Position{PropertyStep("arr"), AnyIndexStep(), PropertyStep("x")}.Expr().Get(data)
	assert.ElementsMatch(t, []any{int64(1), int64(2)}, got)

	got = Position{PropertyStep("a/b"), PropertyStep("~")}.Expr().Get(data)
	assert.Equal(t, []any{true}, got)
}

func TestPosition_Equal(t *testing.T) {
	a := Position{PropertyStep("a"), IndexStep(0)}
	assert.True(t, a.Equal(Position{PropertyStep("a"), IndexStep(0)}))
	assert.False(t, a.Equal(Position{PropertyStep("a")}))
	assert.False(t, a.Equal(Position{PropertyStep("a"), IndexStep(1)}))
	assert.False(t, a.Equal(Position{PropertyStep("a"), PropertyStep("0")}))
	assert.True(t, Position{}.Equal(nil))
}

func TestPointer(t *testing.T) {
	tests := []struct {
		pos Position
		ptr string
	}{
		{Position{}, ""},
		{Position{PropertyStep("a"), IndexStep(0)}, "/a/0"},
		{Position{PropertyStep("a/b"), PropertyStep("~c")}, "/a~1b/~0c"},
		{Position{PropertyStep("")}, "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ptr, tt.pos.Pointer())
		assert.Equal(t, tt.pos, ParsePointer(tt.ptr), tt.ptr)
	}
	assert.Equal(t, "/a/*", Position{PropertyStep("a"), AnyIndexStep()}.Pointer())
}

func TestSegmentStep(t *testing.T) {
	assert.Equal(t, IndexStep(0), SegmentStep("0"))
	assert.Equal(t, IndexStep(12), SegmentStep("12"))
	assert.Equal(t, PropertyStep("012"), SegmentStep("012"))
	assert.Equal(t, PropertyStep("-1"), SegmentStep("-1"))
	assert.Equal(t, PropertyStep("x1"), SegmentStep("x1"))
	assert.Equal(t, PropertyStep(""), SegmentStep(""))
}

func TestLineColumn(t *testing.T) {
	src := []byte("ab\ncé\nx")
	tests := []struct {
		off, line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{6, 2, 3},
		{7, 3, 1},
		{100, 3, 2},
		{-5, 1, 1},
	}
	for _, tt := range tests {
		line, col := LineColumn(src, tt.off)
		assert.Equal(t, tt.line, line, "offset %d", tt.off)
		assert.Equal(t, tt.col, col, "offset %d", tt.off)
	}

	off, ok := Offset(src, 2, 3)
	require.True(t, ok)
	assert.Equal(t, 6, off)

	off, ok = Offset(src, 1, 99)
	require.True(t, ok)
	assert.Equal(t, 2, off)

	_, ok = Offset(src, 4, 1)
	assert.False(t, ok)
	_, ok = Offset(src, 0, 1)
	assert.False(t, ok)
}

func TestSpan(t *testing.T) {
	s := Span{Start: 2, End: 5}
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))
	assert.Equal(t, 3, s.Len())
}
