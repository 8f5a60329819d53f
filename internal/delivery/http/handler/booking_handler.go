package handler

import (
	"errors"
	"net/http"
	"net/url"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/delivery/http/flash"
	"medlink-portal/internal/delivery/http/view"
	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/infrastructure/backend"
	"medlink-portal/internal/usecase"
)

const msgSlotTaken = "Esse horário acabou de ser reservado. Escolha outro."

var bookErrors = ErrorMessages{
	BadRequest: Toast{Text: "Dados inválidos."},
	Forbidden:  Toast{Text: "Você não tem permissão para agendar. Faça login como paciente."},
	NotFound:   Toast{Text: "Slot não encontrado."},
	Default:    Toast{Text: "Erro ao agendar consulta."},
}

// BookingHandler drives the patient's doctor, date and slot selection.
type BookingHandler struct {
	*Base
	doctors      usecase.DoctorUsecase
	slots        usecase.SlotUsecase
	appointments usecase.AppointmentUsecase
}

func NewBookingHandler(base *Base, doctors usecase.DoctorUsecase, slots usecase.SlotUsecase, appointments usecase.AppointmentUsecase) *BookingHandler {
	return &BookingHandler{
		Base:         base,
		doctors:      doctors,
		slots:        slots,
		appointments: appointments,
	}
}

type bookingData struct {
	Doctors   []entity.Doctor
	Flow      *usecase.BookingFlow
	CanSubmit bool
}

func bookingURL(doctorID, date string) string {
	v := url.Values{}
	if doctorID != "" {
		v.Set("medicoId", doctorID)
	}
	if date != "" {
		v.Set("data", date)
	}
	if len(v) == 0 {
		return "/paciente/consultas/nova"
	}
	return "/paciente/consultas/nova?" + v.Encode()
}

// prepare loads the doctor list and, once doctor and date are chosen, the
// free slots of that day.
func (h *BookingHandler) prepare(r *http.Request, flow *usecase.BookingFlow) (bookingData, error) {
	data := bookingData{Flow: flow}

	doctors, err := h.doctors.ListForPatient(r.Context())
	if err != nil {
		return data, err
	}
	data.Doctors = doctors

	if flow.ReadyForSlots() {
		slots, err := h.slots.ListFree(r.Context(), flow.Query())
		if err != nil {
			return data, err
		}
		flow.LoadSlots(slots)
	}
	return data, nil
}

func (h *BookingHandler) Page(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Agendar consulta")
	q := r.URL.Query()
	flow := usecase.NewBookingFlow(q.Get("medicoId"), q.Get("data"))

	data, err := h.prepare(r, flow)
	p.Data = data
	if err != nil {
		h.loadFailed(w, r, "booking-page", "patient_book", p, "Erro ao carregar horários.", err)
		return
	}

	if id := q.Get("slotId"); id != "" {
		_ = flow.SelectSlot(id)
	}
	data.CanSubmit = flow.CanSubmit()
	p.Data = data
	h.render(w, http.StatusOK, "patient_book", p)
}

// Book submits the chosen slot. Nothing is sent unless doctor, date and a
// free slot of the loaded list are selected.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Agendar consulta")

	var req dto.BookSlotRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	flow := usecase.NewBookingFlow(req.DoctorID, req.Date)
	flow.Note = req.Notes
	back := bookingURL(req.DoctorID, req.Date)

	if err := h.validate.Validate(&req); err != nil {
		h.renderInvalid(w, r, p, flow, &req, err)
		return
	}

	if _, err := h.prepare(r, flow); err != nil {
		h.fail(w, r, "booking-slots", err, bookErrors, back)
		return
	}
	if err := flow.SelectSlot(req.SlotID); err != nil {
		h.redirect(w, r, back, flash.New(flash.KindWarning, msgSlotTaken))
		return
	}

	err := h.appointments.BookBySlot(r.Context(), flow)
	switch {
	case err == nil:
		h.redirect(w, r, "/paciente/consultas", flash.New(flash.KindSuccess, "Consulta agendada com sucesso!"))
	case errors.Is(err, usecase.ErrSlotNotSelected):
		h.redirect(w, r, back, flash.New(flash.KindWarning, "Selecione um horário"))
	case backend.StatusOf(err) == http.StatusConflict:
		flow.SlotTaken()
		h.slots.RefreshFree(r.Context(), flow.Query())
		h.redirect(w, r, back, flash.New(flash.KindWarning, msgSlotTaken))
	default:
		h.fail(w, r, "book-slot", err, bookErrors, back)
	}
}

func (h *BookingHandler) renderInvalid(w http.ResponseWriter, r *http.Request, p *view.Page, flow *usecase.BookingFlow, form *dto.BookSlotRequest, verr error) {
	data, err := h.prepare(r, flow)
	if h.endSession(w, r, err) {
		return
	}
	if err != nil {
		h.logFailure(r, "booking-page", err)
	}
	data.CanSubmit = flow.CanSubmit()
	p.Data = data
	h.invalid(w, "patient_book", p, form, verr)
}
