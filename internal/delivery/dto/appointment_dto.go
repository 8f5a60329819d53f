package dto

import "medlink-portal/internal/domain/entity"

var PageSizes = []int{10, 20, 50}

const DefaultPageSize = 10

// AppointmentListQuery is the admin appointment list's query string.
type AppointmentListQuery struct {
	Query     string `form:"q"`
	Status    string `form:"status"`
	DoctorID  string `form:"medicoId"`
	PatientID string `form:"pacienteId"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}

func (q AppointmentListQuery) Filter() entity.AppointmentFilter {
	status := entity.AppointmentStatus(q.Status)
	if !status.Valid() {
		status = ""
	}
	return entity.AppointmentFilter{
		Query:     q.Query,
		Status:    status,
		DoctorID:  q.DoctorID,
		PatientID: q.PatientID,
		From:      q.From,
		To:        q.To,
	}
}

// Normalize clamps page to >= 1 and size to one of PageSizes.
func (q *AppointmentListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	for _, s := range PageSizes {
		if q.Size == s {
			return
		}
	}
	q.Size = DefaultPageSize
}

// AdminAppointmentRow is one line of the admin appointment table with
// names resolved.
type AdminAppointmentRow struct {
	entity.Appointment
	DoctorLabel  string
	PatientLabel string
	StatusLabel  string
}

type AppointmentPage struct {
	Rows       []AdminAppointmentRow
	Page       int
	Size       int
	Total      int
	TotalPages int
}

// PatientAppointmentRow carries the cancel policy result for the list view.
type PatientAppointmentRow struct {
	entity.Appointment
	CanCancel   bool
	CancelTitle string
}
