package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func child(name string, y, x int) Child {
	return Child{Name: name, Range: &PositionRange{XStart: x, XEnd: x + 1, YStart: y, YEnd: y + 1}}
}

func TestSortChildren_ReadingOrder(t *testing.T) {
	children := []Child{
		child("a", 1, 5),
		child("b", 0, 2),
		child("c", 1, 1),
		child("d", 0, 9),
	}

	SortChildren(children)

	var names []string
	for _, c := range children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, names)
}

func TestSortChildren_UnpositionedLast(t *testing.T) {
	children := []Child{{Name: "loose"}, child("placed", 3, 3)}
	SortChildren(children)
	assert.Equal(t, "placed", children[0].Name)
	assert.Equal(t, "loose", children[1].Name)
}

func TestRangeOf(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		p, err := RangeOf(Attributes{})
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("complete across spellings", func(t *testing.T) {
		attrs := Attributes{"x_start_position": 0, "xEndPosition": 2, "y_start_position": 1, "y_end_position": 3}
		p, err := RangeOf(attrs)
		require.NoError(t, err)
		assert.Equal(t, &PositionRange{XStart: 0, XEnd: 2, YStart: 1, YEnd: 3}, p)
	})

	t.Run("partial", func(t *testing.T) {
		attrs := Attributes{"x_start_position": 0, "x_end_position": 2, "y_start_position": 1}
		_, err := RangeOf(attrs)
		var ierr *InternalError
		assert.ErrorAs(t, err, &ierr)
	})
}

func TestPositionRange_ApplyAndClear(t *testing.T) {
	attrs := Attributes{}
	PositionRange{XStart: 1, XEnd: 2, YStart: 3, YEnd: 4}.Apply(attrs)
	assert.Len(t, attrs, 8)

	ClearPosition(attrs)
	assert.Len(t, attrs, 8)
	for _, f := range PositionFields {
		for _, key := range f.Keys() {
			v, ok := attrs[key]
			assert.True(t, ok, key)
			assert.Nil(t, v, key)
		}
	}
	p, err := RangeOf(attrs)
	require.NoError(t, err)
	assert.Nil(t, p)
}
