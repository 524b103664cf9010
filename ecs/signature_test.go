package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/skirmish/ecs"
	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	var sig ecs.Signature
	assert.True(t, sig.IsEmpty())
	assert.Equal(t, "0", sig.String())

	sig.Set(0)
	sig.Set(3)
	sig.Set(70)

	assert.True(t, sig.Has(3))
	assert.True(t, sig.Has(70))
	assert.False(t, sig.Has(1))
	assert.Equal(t, 3, sig.Count())
	assert.Equal(t, []ecs.ComponentId{0, 3, 70}, slices.Collect(sig.Ids()))
	assert.Equal(t, "1001", sig.String()[:4])

	sig.Clear(3)
	assert.False(t, sig.Has(3))

	sig.Reset()
	assert.True(t, sig.IsEmpty())
}

func TestSignatureContains(t *testing.T) {
	tests := []struct {
		name     string
		entity   []ecs.ComponentId
		required []ecs.ComponentId
		want     bool
	}{
		{"exact", []ecs.ComponentId{1, 2}, []ecs.ComponentId{1, 2}, true},
		{"superset", []ecs.ComponentId{1, 2, 5}, []ecs.ComponentId{1, 2}, true},
		{"missing one", []ecs.ComponentId{1}, []ecs.ComponentId{1, 2}, false},
		{"empty requirement", []ecs.ComponentId{4}, nil, true},
		{"both empty", nil, nil, true},
		{"high word", []ecs.ComponentId{100}, []ecs.ComponentId{100}, true},
		{"high word missing", []ecs.ComponentId{1}, []ecs.ComponentId{100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entity, required ecs.Signature
			for _, id := range tt.entity {
				entity.Set(id)
			}
			for _, id := range tt.required {
				required.Set(id)
			}
			assert.Equal(t, tt.want, entity.Contains(required))
		})
	}
}
