package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDirectionsKeyDeterministic(t *testing.T) {
	dep := time.Date(2026, 7, 31, 8, 15, 3, 0, time.UTC)
	a := DirectionsKey(2.35, 48.85, 2.36, 48.86, dep)
	b := DirectionsKey(2.35, 48.85, 2.36, 48.86, dep)
	assert.Equal(t, a, b)
}

func TestDirectionsKeyBucketsByMinute(t *testing.T) {
	base := time.Date(2026, 7, 31, 8, 15, 0, 0, time.UTC)
	plus30s := base.Add(30 * time.Second)
	assert.Equal(t,
		DirectionsKey(0, 0, 1, 1, base),
		DirectionsKey(0, 0, 1, 1, plus30s))
}

func TestDirectionsKeyChangesWithCoordinates(t *testing.T) {
	dep := time.Date(2026, 7, 31, 8, 0, 0, 0, time.UTC)
	a := DirectionsKey(0, 0, 1, 1, dep)
	b := DirectionsKey(0, 0, 1, 2, dep)
	assert.NotEqual(t, a, b)
}
