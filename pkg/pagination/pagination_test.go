package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Query
		want Query
	}{
		{"defaults", Query{}, Query{Limit: 10, Page: 1}},
		{"within bounds", Query{Limit: 25, Page: 3}, Query{Limit: 25, Page: 3}},
		{"limit capped", Query{Limit: 500, Page: 1}, Query{Limit: 50, Page: 1}},
		{"negative values", Query{Limit: -5, Page: -2}, Query{Limit: 10, Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.Clamp(10, 50))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	p := New(Query{Limit: 10, Page: 2}, 25)
	assert.Equal(t, 10, p.Offset)
	assert.Equal(t, 3, p.Pages)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 3, p.Next())

	last := New(Query{Limit: 10, Page: 3}, 25)
	assert.False(t, last.HasNext())

	empty := New(Query{Limit: 10, Page: 1}, 0)
	assert.Equal(t, 0, empty.Pages)
	assert.False(t, empty.HasPrev())
	assert.False(t, empty.HasNext())
}
