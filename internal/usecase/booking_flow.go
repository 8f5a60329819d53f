package usecase

import (
	"errors"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/domain/entity"
)

var ErrSlotUnavailable = errors.New("slot is not available")

// BookingFlow is the patient's pick doctor, pick date, pick slot sequence.
// Changing the doctor or the date always drops the chosen slot.
type BookingFlow struct {
	DoctorID string
	Date     string
	SlotID   string
	Note     string
	Slots    []entity.Slot
}

func NewBookingFlow(doctorID, date string) *BookingFlow {
	f := &BookingFlow{}
	f.SelectDoctor(doctorID)
	f.SelectDate(date)
	return f
}

func (f *BookingFlow) SelectDoctor(id string) {
	f.DoctorID = id
	f.SlotID = ""
	f.Slots = nil
}

func (f *BookingFlow) SelectDate(date string) {
	f.Date = date
	f.SlotID = ""
	f.Slots = nil
}

// ReadyForSlots reports whether the free-slot list may be fetched.
func (f *BookingFlow) ReadyForSlots() bool {
	return f.DoctorID != "" && f.Date != ""
}

// Query is the slot lookup for the current doctor and date.
func (f *BookingFlow) Query() dto.SlotQuery {
	return dto.SlotQuery{DoctorID: f.DoctorID, Date: f.Date}
}

// LoadSlots installs the fetched list for the current doctor and date.
func (f *BookingFlow) LoadSlots(slots []entity.Slot) {
	f.Slots = slots
	if f.SlotID != "" {
		if s := entity.FindSlot(slots, f.SlotID); s == nil || !s.IsFree() {
			f.SlotID = ""
		}
	}
}

// SelectSlot accepts only a free slot from the loaded list.
func (f *BookingFlow) SelectSlot(id string) error {
	s := entity.FindSlot(f.Slots, id)
	if s == nil || !s.IsFree() {
		return ErrSlotUnavailable
	}
	f.SlotID = id
	return nil
}

// SlotTaken clears the selection after the backend refused it, keeping the
// doctor and date so the patient can pick again.
func (f *BookingFlow) SlotTaken() {
	f.SlotID = ""
}

func (f *BookingFlow) CanSubmit() bool {
	return f.ReadyForSlots() && f.SlotID != ""
}

func (f *BookingFlow) Payload() dto.BookSlotPayload {
	return dto.BookSlotPayload{SlotID: f.SlotID, Notes: f.Note}
}
