package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidType(t *testing.T) {
	assert.True(t, ValidType(TypeFiveASide))
	assert.True(t, ValidType(TypeElevenASide))
	assert.False(t, ValidType("7x7"))
	assert.False(t, ValidType(""))
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 10, Capacity(TypeFiveASide))
	assert.Equal(t, 22, Capacity(TypeElevenASide))
}

func TestDefaultSlots(t *testing.T) {
	slots := DefaultSlots()
	require.Len(t, slots, 7)
	assert.Equal(t, "08:00", slots[0].Start)
	assert.Equal(t, "10:00", slots[0].End)
	assert.Equal(t, "20:00", slots[6].Start)
	assert.Equal(t, "22:00", slots[6].End)

	// Windows tile the day back to back.
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].End, slots[i].Start)
	}
}
