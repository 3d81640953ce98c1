package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	p, err := NewPlan([]string{"a", "b", "c"}, []int{5, 7, 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, []PlanEntry{
		{Path: "a", StartPage: 1, StartOffset: 0, Lines: 5},
		{Path: "b", StartPage: 2, StartOffset: 1, Lines: 7},
		{Path: "c", StartPage: 4, StartOffset: 0, Lines: 3},
	}, p.Entries)
	assert.Equal(t, 4, p.Pages)
}

func TestNewPlan_Invalid(t *testing.T) {
	_, err := NewPlan(nil, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	_, err = NewPlan([]string{"a"}, nil, 10)
	assert.Error(t, err)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 50))
	assert.Equal(t, 1, PageCount(50, 50))
	assert.Equal(t, 2, PageCount(51, 50))
}

func TestPaginator(t *testing.T) {
	p := NewPaginator(3)
	var breaks []int
	for i := 0; i < 7; i++ {
		if p.Next() {
			breaks = append(breaks, i)
		}
	}
	assert.Equal(t, []int{3, 6}, breaks)
	assert.Equal(t, 7, p.Count())
}
