package dto

// BookSlotRequest is the patient booking form.
type BookSlotRequest struct {
	DoctorID string `form:"medicoId" json:"-" validate:"required" message:"Selecione um médico"`
	Date     string `form:"data" json:"-" validate:"required" message:"Informe a data"`
	SlotID   string `form:"slotId" json:"slotId" validate:"required" message:"Selecione um horário"`
	Notes    string `form:"observacoes" json:"observacoes"`
}

// BookSlotPayload is the body the backend expects for booking by slot.
type BookSlotPayload struct {
	SlotID string `json:"slotId"`
	Notes  string `json:"observacoes"`
}
