package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry(
		Category{Key: "lunch", Name: "Lunch", DurationMin: 45, Capacity: 5},
		Category{Key: "smoke", Name: "Smoke break", DurationMin: 10, Capacity: 3},
	)

	cat, ok := reg.Lookup("lunch")
	assert.True(t, ok)
	assert.Equal(t, "Lunch", cat.Name)
	assert.Equal(t, 45*time.Minute, cat.Duration())

	_, ok = reg.Lookup("coffee")
	assert.False(t, ok)
}

func TestRegistryCategoriesKeepRegistrationOrder(t *testing.T) {
	reg := NewRegistry(
		Category{Key: "b", Name: "B"},
		Category{Key: "a", Name: "A"},
		Category{Key: "b", Name: "B again"},
	)

	cats := reg.Categories()
	assert.Len(t, cats, 2)
	assert.Equal(t, "b", cats[0].Key)
	assert.Equal(t, "B", cats[0].Name)
	assert.Equal(t, "a", cats[1].Key)
}
