package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/delivery/http/flash"
	"medlink-portal/internal/infrastructure/backend"
	"medlink-portal/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/spf13/cast"
)

var createDoctorErrors = ErrorMessages{
	BadRequest: Toast{Text: "Dados inválidos. Verifique os campos."},
	Forbidden:  Toast{Text: "Você não tem permissão para cadastrar médicos."},
	Conflict:   Toast{Text: "Este e-mail já está cadastrado."},
	Default:    Toast{Text: "Erro ao cadastrar médico. Tente novamente."},
}

// AdminHandler serves the admin dashboard and its doctor, patient and
// appointment pages.
type AdminHandler struct {
	*Base
	doctors      usecase.DoctorUsecase
	patients     usecase.PatientUsecase
	appointments usecase.AppointmentUsecase
}

func NewAdminHandler(base *Base, doctors usecase.DoctorUsecase, patients usecase.PatientUsecase, appointments usecase.AppointmentUsecase) *AdminHandler {
	return &AdminHandler{
		Base:         base,
		doctors:      doctors,
		patients:     patients,
		appointments: appointments,
	}
}

type dashboardData struct {
	Doctors      string
	Patients     string
	Appointments string
}

// Dashboard shows one counter per list. A list that fails to load shows a
// dash instead of failing the page.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Painel administrativo")
	data := dashboardData{Doctors: "—", Patients: "—", Appointments: "—"}

	doctors, err := h.doctors.ListAdmin(r.Context())
	if h.endSession(w, r, err) {
		return
	}
	if err == nil {
		data.Doctors = cast.ToString(len(doctors))
	}

	patients, err := h.patients.ListAdmin(r.Context(), "")
	if h.endSession(w, r, err) {
		return
	}
	if err == nil {
		data.Patients = cast.ToString(len(patients))
	}

	page, err := h.appointments.ListAdmin(r.Context(), dto.AppointmentListQuery{})
	if h.endSession(w, r, err) {
		return
	}
	if err == nil {
		data.Appointments = cast.ToString(page.Total)
	}

	p.Data = data
	h.render(w, http.StatusOK, "admin_dashboard", p)
}

func (h *AdminHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Médicos")

	doctors, err := h.doctors.ListAdmin(r.Context())
	if err != nil {
		h.loadFailed(w, r, "list-doctors", "admin_doctors", p, "Erro ao carregar médicos.", err)
		return
	}

	p.Data = doctors
	h.render(w, http.StatusOK, "admin_doctors", p)
}

func (h *AdminHandler) NewDoctorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "admin_doctor_new", h.page(w, r, "Novo médico"))
}

func (h *AdminHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Novo médico")

	var req dto.CreateDoctorRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		h.invalid(w, "admin_doctor_new", p, &req, err)
		return
	}

	if err := h.doctors.Create(r.Context(), &req); err != nil {
		if h.endSession(w, r, err) {
			return
		}
		h.logFailure(r, "create-doctor", err)
		req.Password = ""
		p.Form = &req
		p.Flash = createDoctorErrors.Message(err)
		h.render(w, http.StatusOK, "admin_doctor_new", p)
		return
	}

	h.redirect(w, r, "/admin/medicos", flash.New(flash.KindSuccess, "Médico cadastrado com sucesso!"))
}

type patientsData struct {
	Query    string
	Patients interface{}
}

func (h *AdminHandler) Patients(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Pacientes")
	search := r.URL.Query().Get("q")

	patients, err := h.patients.ListAdmin(r.Context(), search)
	if err != nil {
		p.Data = patientsData{Query: search}
		h.loadFailed(w, r, "list-patients", "admin_patients", p, "Erro ao carregar pacientes.", err)
		return
	}

	p.Data = patientsData{Query: search, Patients: patients}
	h.render(w, http.StatusOK, "admin_patients", p)
}

type appointmentsData struct {
	Query dto.AppointmentListQuery
	Page  *dto.AppointmentPage
	Sizes []int
}

// PageLink is the query string of another page of the same search.
func (d appointmentsData) PageLink(page int) string {
	v := url.Values{}
	for key, val := range map[string]string{
		"q":          d.Query.Query,
		"status":     d.Query.Status,
		"medicoId":   d.Query.DoctorID,
		"pacienteId": d.Query.PatientID,
		"from":       d.Query.From,
		"to":         d.Query.To,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	v.Set("page", cast.ToString(page))
	v.Set("size", cast.ToString(d.Query.Size))
	return v.Encode()
}

func appointmentQuery(v url.Values) dto.AppointmentListQuery {
	q := dto.AppointmentListQuery{
		Query:     v.Get("q"),
		Status:    v.Get("status"),
		DoctorID:  v.Get("medicoId"),
		PatientID: v.Get("pacienteId"),
		From:      v.Get("from"),
		To:        v.Get("to"),
		Page:      cast.ToInt(v.Get("page")),
		Size:      cast.ToInt(v.Get("size")),
	}
	q.Normalize()
	return q
}

func (h *AdminHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Consultas")
	q := appointmentQuery(r.URL.Query())
	data := appointmentsData{Query: q, Sizes: dto.PageSizes}

	page, err := h.appointments.ListAdmin(r.Context(), q)
	if err != nil {
		p.Data = data
		h.loadFailed(w, r, "list-appointments", "admin_appointments", p, "Erro ao carregar consultas.", err)
		return
	}

	data.Page = page
	data.Query.Page = page.Page
	p.Data = data
	h.render(w, http.StatusOK, "admin_appointments", p)
}

// CancelAppointment reports failures with the backend's raw answer.
func (h *AdminHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	back := "/admin/consultas"

	if err := h.appointments.CancelAdmin(r.Context(), id); err != nil {
		if h.endSession(w, r, err) {
			return
		}
		h.logFailure(r, "cancel-appointment", err)
		h.redirect(w, r, back, flash.New(flash.KindError, cancelFailure(err)))
		return
	}

	h.redirect(w, r, back, flash.New(flash.KindSuccess, "Consulta cancelada com sucesso!"))
}

func cancelFailure(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Falha ao cancelar: %d %s", apiErr.Status, apiErr.Body)
	}
	return "Falha ao cancelar: " + err.Error()
}
