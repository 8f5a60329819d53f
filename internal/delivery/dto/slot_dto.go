package dto

// CreateSlotsRequest asks the backend to split [HoraInicio, HoraFim) on Data
// into slots of IntervaloMinutos.
type CreateSlotsRequest struct {
	DoctorID string `form:"medicoId" json:"medicoId" validate:"required" message:"Selecione um médico"`
	Date     string `form:"data" json:"data" validate:"required" message:"Informe a data"`
	Start    string `form:"horaInicio" json:"horaInicio" validate:"hhmm" message:"Formato HH:mm"`
	End      string `form:"horaFim" json:"horaFim" validate:"hhmm" message:"Formato HH:mm"`
	Interval int    `form:"intervaloMinutos" json:"intervaloMinutos" validate:"gte=15,lte=120" message:"gte=Mínimo 15 minutos;lte=Máximo 120 minutos"`
}

func (r CreateSlotsRequest) SlotWindow() (string, string, string) {
	return r.Date, r.Start, r.End
}

// SlotQuery selects the slots of one doctor on one date.
type SlotQuery struct {
	DoctorID string `form:"medicoId"`
	Date     string `form:"data"`
}

func (q SlotQuery) Complete() bool {
	return q.DoctorID != "" && q.Date != ""
}
