package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination_Clamps(t *testing.T) {
	p := NewPagination(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = NewPagination(3, 5000)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 2*MaxPageSize, p.GetOffset())
}

func TestFromStartLimit(t *testing.T) {
	p := FromStartLimit(20, 10)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.GetOffset())
	assert.Equal(t, 10, p.GetLimit())
}

func TestSetTotal(t *testing.T) {
	p := NewPagination(2, 10)
	p.SetTotal(25)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
