package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/delivery/http/flash"
	"medlink-portal/internal/delivery/http/view"
	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/usecase"

	"github.com/gorilla/mux"
)

var (
	createSlotsErrors = ErrorMessages{
		BadRequest: Toast{Text: "Dados inválidos. Verifique os horários."},
		Forbidden:  Toast{Text: "Você não tem permissão para criar slots."},
		NotFound:   Toast{Text: "Médico não encontrado."},
		Default:    Toast{Text: "Erro ao criar slots. Tente novamente."},
	}
	cancelSlotErrors = ErrorMessages{
		BadRequest: Toast{Text: "Não é possível cancelar este slot.", Fixed: true},
		Forbidden:  Toast{Text: "Você não tem permissão para cancelar slots."},
		NotFound:   Toast{Text: "Slot não encontrado."},
		Default:    Toast{Text: "Erro ao cancelar slot."},
	}
)

const msgSelectDoctorAndDate = "Selecione médico e data para buscar slots."

// SlotHandler manages doctors' agendas from the admin area.
type SlotHandler struct {
	*Base
	doctors usecase.DoctorUsecase
	slots   usecase.SlotUsecase
}

func NewSlotHandler(base *Base, doctors usecase.DoctorUsecase, slots usecase.SlotUsecase) *SlotHandler {
	return &SlotHandler{Base: base, doctors: doctors, slots: slots}
}

type slotsData struct {
	Query    dto.SlotQuery
	Doctors  []entity.Doctor
	Slots    []entity.Slot
	Searched bool
}

func slotsURL(q dto.SlotQuery) string {
	if !q.Complete() {
		return "/admin/slots"
	}
	v := url.Values{}
	v.Set("medicoId", q.DoctorID)
	v.Set("data", q.Date)
	return "/admin/slots?" + v.Encode()
}

// load fills the page data: the doctor picker always, the slot table only
// when both doctor and date are chosen.
func (h *SlotHandler) load(r *http.Request, q dto.SlotQuery) (slotsData, error) {
	data := slotsData{Query: q}

	doctors, err := h.doctors.ListAdmin(r.Context())
	if err != nil {
		return data, err
	}
	data.Doctors = doctors

	if !q.Complete() {
		return data, nil
	}
	slots, err := h.slots.ListAdmin(r.Context(), q)
	if err != nil {
		return data, err
	}
	data.Slots = slots
	data.Searched = true
	return data, nil
}

func (h *SlotHandler) Slots(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Slots")

	var q dto.SlotQuery
	values := r.URL.Query()
	_ = decodeValues(values, &q)

	data, err := h.load(r, q)
	p.Data = data
	if err != nil {
		h.loadFailed(w, r, "list-slots", "admin_slots", p, "Erro ao carregar slots.", err)
		return
	}

	_, askedDoctor := values["medicoId"]
	_, askedDate := values["data"]
	if (askedDoctor || askedDate) && !q.Complete() && p.Flash == nil {
		p.Flash = flash.New(flash.KindWarning, msgSelectDoctorAndDate)
	}
	h.render(w, http.StatusOK, "admin_slots", p)
}

// Create validates the window locally; an invalid form never reaches the
// backend.
func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Slots")

	var req dto.CreateSlotsRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	q := dto.SlotQuery{DoctorID: req.DoctorID, Date: req.Date}

	if err := h.validate.Validate(&req); err != nil {
		h.renderInvalid(w, r, p, q, &req, err)
		return
	}

	count, err := h.slots.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, "create-slots", err, createSlotsErrors, slotsURL(q))
		return
	}

	h.redirect(w, r, slotsURL(q), flash.New(flash.KindSuccess, fmt.Sprintf("%s slot(s) criado(s) com sucesso!", count)))
}

func (h *SlotHandler) renderInvalid(w http.ResponseWriter, r *http.Request, p *view.Page, q dto.SlotQuery, form *dto.CreateSlotsRequest, verr error) {
	data, err := h.load(r, q)
	if h.endSession(w, r, err) {
		return
	}
	if err != nil {
		h.logFailure(r, "list-slots", err)
	}
	p.Data = data
	h.invalid(w, "admin_slots", p, form, verr)
}

func (h *SlotHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var q dto.SlotQuery
	if err := decodeForm(r, &q); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if err := h.slots.Cancel(r.Context(), id); err != nil {
		h.fail(w, r, "cancel-slot", err, cancelSlotErrors, slotsURL(q))
		return
	}

	h.redirect(w, r, slotsURL(q), flash.New(flash.KindSuccess, "Slot cancelado com sucesso!"))
}
