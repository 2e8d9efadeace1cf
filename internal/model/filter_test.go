package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterValuesOmitsUnsetFields(t *testing.T) {
	assert.Empty(t, Filter{}.Values())
	assert.True(t, Filter{}.IsZero())

	v := Filter{Year: 2025}.Values()
	assert.Equal(t, "2025", v.Get("year"))
	assert.False(t, v.Has("month"))
	assert.False(t, v.Has("day"))

	v = Filter{Year: 2025, Month: 2, Day: 14}.Values()
	assert.Equal(t, "2025", v.Get("year"))
	assert.Equal(t, "2", v.Get("month"))
	assert.Equal(t, "14", v.Get("day"))
}
