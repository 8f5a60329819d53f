package handler

import (
	"errors"
	"net/http"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/delivery/http/flash"
	"medlink-portal/internal/usecase"

	"github.com/gorilla/mux"
)

const (
	msgCancelTooLate    = "Cancelamento indisponível a menos de 1 hora do início."
	msgCancelWrongState = "Esta consulta não pode ser cancelada no estado atual."
)

var (
	cancelAppointmentErrors = ErrorMessages{
		BadRequest: Toast{Kind: flash.KindInfo, Text: msgCancelTooLate, Fixed: true},
		Forbidden:  Toast{Kind: flash.KindWarning, Text: "Você não tem permissão para cancelar esta consulta."},
		NotFound:   Toast{Text: "Consulta não encontrada."},
		Conflict:   Toast{Kind: flash.KindInfo, Text: msgCancelWrongState},
		Default:    Toast{Text: "Erro ao cancelar consulta."},
	}
	updateProfileErrors = ErrorMessages{
		Default: Toast{Text: "Erro ao atualizar perfil."},
	}
)

// PatientHandler serves the patient's appointment list and profile.
type PatientHandler struct {
	*Base
	patients     usecase.PatientUsecase
	appointments usecase.AppointmentUsecase
}

func NewPatientHandler(base *Base, patients usecase.PatientUsecase, appointments usecase.AppointmentUsecase) *PatientHandler {
	return &PatientHandler{Base: base, patients: patients, appointments: appointments}
}

func (h *PatientHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Minhas consultas")

	rows, err := h.appointments.ListPatient(r.Context(), h.now())
	if err != nil {
		h.loadFailed(w, r, "patient-appointments", "patient_appointments", p, "Erro ao carregar consultas.", err)
		return
	}

	p.Data = rows
	h.render(w, http.StatusOK, "patient_appointments", p)
}

// CancelAppointment refuses locally what the cancel policy forbids; the
// backend only sees requests the list would have allowed.
func (h *PatientHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	back := "/paciente/consultas"

	msg, err := h.appointments.CancelPatient(r.Context(), id, h.now())
	switch {
	case err == nil:
		if msg == "" {
			msg = "Consulta cancelada."
		}
		h.redirect(w, r, back, flash.New(flash.KindSuccess, msg))
	case errors.Is(err, usecase.ErrCancelTooLate):
		h.redirect(w, r, back, flash.New(flash.KindInfo, msgCancelTooLate))
	case errors.Is(err, usecase.ErrCancelNotAllowed):
		h.redirect(w, r, back, flash.New(flash.KindInfo, msgCancelWrongState))
	default:
		h.fail(w, r, "cancel-appointment", err, cancelAppointmentErrors, back)
	}
}

func (h *PatientHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Meu perfil")

	profile, err := h.patients.Profile(r.Context())
	if err != nil {
		h.loadFailed(w, r, "patient-profile", "patient_profile", p, "Erro ao carregar perfil.", err)
		return
	}

	p.Data = profile
	p.Form = &dto.UpdateProfileRequest{Name: profile.Name, Phone: profile.Phone, Address: profile.Address}
	h.render(w, http.StatusOK, "patient_profile", p)
}

func (h *PatientHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Meu perfil")
	back := "/paciente/perfil"

	var req dto.UpdateProfileRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		if profile, perr := h.patients.Profile(r.Context()); perr == nil {
			p.Data = profile
		}
		h.invalid(w, "patient_profile", p, &req, err)
		return
	}

	if _, err := h.patients.UpdateProfile(r.Context(), &req); err != nil {
		h.fail(w, r, "update-profile", err, updateProfileErrors, back)
		return
	}

	h.redirect(w, r, back, flash.New(flash.KindSuccess, "Perfil atualizado com sucesso!"))
}
