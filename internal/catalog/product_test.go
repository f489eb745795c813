package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStars(t *testing.T) {
	tests := []struct {
		name     string
		rating   int
		expected string
	}{
		{"zero", 0, "☆☆☆☆☆"},
		{"mid", 3, "★★★☆☆"},
		{"full", 5, "★★★★★"},
		{"clamped below", -2, "☆☆☆☆☆"},
		{"clamped above", 9, "★★★★★"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Product{Rating: tt.rating}.Stars())
		})
	}
}

func TestIndex(t *testing.T) {
	products := []Product{{ID: "A", Cost: 10}, {ID: "B", Cost: 20}}

	idx := Index(products)

	assert.Len(t, idx, 2)
	assert.Equal(t, 20, idx["B"].Cost)
	_, ok := idx["missing"]
	assert.False(t, ok)
}
