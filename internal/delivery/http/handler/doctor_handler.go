package handler

import (
	"net/http"

	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/usecase"
)

const dashboardUpcoming = 5

// DoctorHandler serves the doctor's area.
type DoctorHandler struct {
	*Base
	appointments usecase.AppointmentUsecase
}

func NewDoctorHandler(base *Base, appointments usecase.AppointmentUsecase) *DoctorHandler {
	return &DoctorHandler{Base: base, appointments: appointments}
}

func (h *DoctorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Área do médico")
	p.Data = []entity.Appointment{}

	list, err := h.appointments.ListDoctor(r.Context())
	if err != nil {
		h.loadFailed(w, r, "doctor-dashboard", "doctor_dashboard", p, "Erro ao carregar consultas.", err)
		return
	}
	if len(list) > dashboardUpcoming {
		list = list[:dashboardUpcoming]
	}

	p.Data = list
	h.render(w, http.StatusOK, "doctor_dashboard", p)
}

func (h *DoctorHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Minhas consultas")

	list, err := h.appointments.ListDoctor(r.Context())
	if err != nil {
		h.loadFailed(w, r, "doctor-appointments", "doctor_appointments", p, "Erro ao carregar consultas.", err)
		return
	}

	p.Data = list
	h.render(w, http.StatusOK, "doctor_appointments", p)
}

func (h *DoctorHandler) Availability(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "doctor_availability", h.page(w, r, "Disponibilidades"))
}
