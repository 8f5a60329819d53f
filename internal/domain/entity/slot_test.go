package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSlots(t *testing.T) {
	slots := []Slot{
		{ID: "c", Start: "2025-03-10T10:00:00"},
		{ID: "a", Start: "2025-03-10T08:00:00"},
		{ID: "b", Start: "2025-03-10T09:00:00"},
	}
	SortSlots(slots)
	assert.Equal(t, []string{"a", "b", "c"}, []string{slots[0].ID, slots[1].ID, slots[2].ID})
}

func TestFindSlot(t *testing.T) {
	slots := []Slot{{ID: "a"}, {ID: "b", Status: SlotStatusFree}}
	found := FindSlot(slots, "b")
	if assert.NotNil(t, found) {
		assert.True(t, found.IsFree())
	}
	assert.Nil(t, FindSlot(slots, "z"))
}

func TestPatientMatches(t *testing.T) {
	p := &Patient{Name: "Ana Souza", Email: "ana@medlink.com", Phone: "(11) 98765-4321"}
	assert.True(t, p.Matches(""))
	assert.True(t, p.Matches("souza"))
	assert.True(t, p.Matches("MEDLINK"))
	assert.True(t, p.Matches("98765"))
	assert.False(t, p.Matches("carlos"))
}

func TestNameMapLabel(t *testing.T) {
	m := NameMap{"1": "Dra. Ana"}
	assert.Equal(t, "Dra. Ana", m.Label("1"))
	assert.Equal(t, "2", m.Label("2"))
}
