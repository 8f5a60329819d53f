package entity

import "sort"

// SlotStatus is the availability state of a slot.
type SlotStatus string

const (
	SlotStatusFree      SlotStatus = "LIVRE"
	SlotStatusReserved  SlotStatus = "RESERVADO"
	SlotStatusCancelled SlotStatus = "CANCELADO"
)

// Slot is a bookable interval of a doctor's agenda.
type Slot struct {
	ID         string        `json:"id"`
	DoctorID   string        `json:"medicoId,omitempty"`
	DoctorName string        `json:"medicoNome,omitempty"`
	Date       string        `json:"data,omitempty"`
	Start      LocalDateTime `json:"inicio"`
	End        LocalDateTime `json:"fim"`
	Status     SlotStatus    `json:"status"`
}

func (s *Slot) IsFree() bool {
	return s.Status == SlotStatusFree
}

// SortSlots orders slots by start time, ascending, in place.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Less(slots[j].Start)
	})
}

// FindSlot returns the slot with the given id, or nil.
func FindSlot(slots []Slot, id string) *Slot {
	for i := range slots {
		if slots[i].ID == id {
			return &slots[i]
		}
	}
	return nil
}
