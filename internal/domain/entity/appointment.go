package entity

import "time"

// AppointmentStatus is the lifecycle state of a consulta.
type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMADO"
	AppointmentStatusCancelled AppointmentStatus = "CANCELADO"
	AppointmentStatusCompleted AppointmentStatus = "CONCLUIDO"
)

var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusConfirmed,
	AppointmentStatusCancelled,
	AppointmentStatusCompleted,
}

func (s AppointmentStatus) Valid() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the admin table's wording for the status.
func (s AppointmentStatus) Label() string {
	switch s {
	case AppointmentStatusConfirmed:
		return "Agendada"
	case AppointmentStatusCancelled:
		return "Cancelada"
	case AppointmentStatusCompleted:
		return "Finalizada"
	}
	return string(s)
}

// MinCancelNotice is how far ahead of its start a patient may still cancel.
const MinCancelNotice = time.Hour

// CancelBlock explains why an appointment cannot be cancelled.
type CancelBlock int

const (
	CancelAllowed CancelBlock = iota
	CancelBlockedStatus
	CancelBlockedTooLate
)

// Appointment mirrors the consulta DTOs of every area. The backend names the
// note "observacao" in some responses and "observacoes" in others.
type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"pacienteId,omitempty"`
	PatientName string            `json:"pacienteNome,omitempty"`
	DoctorID    string            `json:"medicoId"`
	DoctorName  string            `json:"medicoNome,omitempty"`
	Specialty   string            `json:"especialidade,omitempty"`
	DateTime    LocalDateTime     `json:"dataHora"`
	Note        string            `json:"observacao,omitempty"`
	Notes       string            `json:"observacoes,omitempty"`
	Status      AppointmentStatus `json:"status,omitempty"`
}

// Observation returns whichever note field the backend filled.
func (a *Appointment) Observation() string {
	if a.Notes != "" {
		return a.Notes
	}
	return a.Note
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// CancelState applies the patient cancellation policy: only confirmed
// appointments starting at least MinCancelNotice after now. An unparsable
// start time blocks cancellation.
func (a *Appointment) CancelState(now time.Time, loc *time.Location) CancelBlock {
	if a.Status != AppointmentStatusConfirmed {
		return CancelBlockedStatus
	}
	start, err := a.DateTime.In(loc)
	if err != nil || start.Sub(now) < MinCancelNotice {
		return CancelBlockedTooLate
	}
	return CancelAllowed
}

func (a *Appointment) CanCancel(now time.Time, loc *time.Location) bool {
	return a.CancelState(now, loc) == CancelAllowed
}

// VisibleAppointments drops cancelled entries, as the patient and doctor lists do.
func VisibleAppointments(list []Appointment) []Appointment {
	out := make([]Appointment, 0, len(list))
	for _, a := range list {
		if !a.IsCancelled() {
			out = append(out, a)
		}
	}
	return out
}
