package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/infrastructure/cache"

	"github.com/sirupsen/logrus"
)

var (
	ErrCancelNotAllowed = errors.New("appointment cannot be cancelled in its current state")
	ErrCancelTooLate    = errors.New("appointment starts in less than one hour")
	ErrSlotNotSelected  = errors.New("doctor, date and slot must be selected")
)

// Reasons shown on the disabled cancel button.
const (
	CancelTitleAllowed = "Cancelar consulta"
	CancelTitleBlocked = "Esta consulta não pode ser cancelada."
	CancelTitleTooLate = "Não é possível cancelar a menos de 1h do início"
)

type AppointmentUsecase interface {
	ListAdmin(ctx context.Context, q dto.AppointmentListQuery) (*dto.AppointmentPage, error)
	CancelAdmin(ctx context.Context, id string) error
	ListPatient(ctx context.Context, now time.Time) ([]dto.PatientAppointmentRow, error)
	CancelPatient(ctx context.Context, id string, now time.Time) (string, error)
	BookBySlot(ctx context.Context, flow *BookingFlow) error
	ListDoctor(ctx context.Context) ([]entity.Appointment, error)
}

type appointmentUsecase struct {
	log      *logrus.Logger
	backend  BackendAPI
	query    *cache.Query
	doctors  DoctorUsecase
	patients PatientUsecase
	loc      *time.Location
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	backend BackendAPI,
	query *cache.Query,
	doctors DoctorUsecase,
	patients PatientUsecase,
	loc *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:      log,
		backend:  backend,
		query:    query,
		doctors:  doctors,
		patients: patients,
		loc:      loc,
	}
}

func (u *appointmentUsecase) ListAdmin(ctx context.Context, q dto.AppointmentListQuery) (*dto.AppointmentPage, error) {
	q.Normalize()
	filter := q.Filter()
	params := filter.Values()

	key := cache.Key(resAdminAppointments, params.Encode())
	list, err := cache.Fetch(ctx, u.query, key, ttlList, func(ctx context.Context) ([]entity.Appointment, error) {
		var list []entity.Appointment
		if err := u.backend.Get(ctx, pathAdminAppointments, params, &list); err != nil {
			u.log.Warnf("Failed to list appointments: %+v", err)
			return nil, err
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}

	// Names are cosmetic: a failing map falls back to raw ids.
	doctorNames, err := u.doctors.NameMap(ctx)
	if err != nil {
		if isUnauthorized(err) {
			return nil, err
		}
		doctorNames = entity.NameMap{}
	}
	patientNames, err := u.patients.NameMap(ctx)
	if err != nil {
		if isUnauthorized(err) {
			return nil, err
		}
		patientNames = entity.NameMap{}
	}

	page := &dto.AppointmentPage{
		Page:  q.Page,
		Size:  q.Size,
		Total: len(list),
	}
	page.TotalPages = (page.Total + q.Size - 1) / q.Size
	if page.TotalPages == 0 {
		page.TotalPages = 1
	}
	if page.Page > page.TotalPages {
		page.Page = page.TotalPages
	}

	start := (page.Page - 1) * q.Size
	end := start + q.Size
	if end > len(list) {
		end = len(list)
	}
	for _, a := range list[start:end] {
		row := dto.AdminAppointmentRow{
			Appointment:  a,
			DoctorLabel:  a.DoctorName,
			PatientLabel: a.PatientName,
			StatusLabel:  a.Status.Label(),
		}
		if row.DoctorLabel == "" {
			row.DoctorLabel = doctorNames.Label(a.DoctorID)
		}
		if row.PatientLabel == "" {
			row.PatientLabel = patientNames.Label(a.PatientID)
		}
		page.Rows = append(page.Rows, row)
	}
	return page, nil
}

func (u *appointmentUsecase) CancelAdmin(ctx context.Context, id string) error {
	if err := u.backend.Post(ctx, pathAdminAppointments+"/"+escapePath(id)+"/cancelar", nil, nil); err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return err
	}
	u.query.Invalidate(ctx, cache.Key(resAdminAppointments))
	return nil
}

func (u *appointmentUsecase) patientAppointments(ctx context.Context) ([]entity.Appointment, error) {
	sub, err := subject(ctx)
	if err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, u.query, cache.Key(resPatientAppointment, sub), ttlList, func(ctx context.Context) ([]entity.Appointment, error) {
		var list []entity.Appointment
		if err := u.backend.Get(ctx, pathPatientAppointments, nil, &list); err != nil {
			u.log.Warnf("Failed to list patient appointments: %+v", err)
			return nil, err
		}
		return list, nil
	})
}

// ListPatient returns the patient's non-cancelled appointments, soonest
// first, each with its cancel policy evaluated at now.
func (u *appointmentUsecase) ListPatient(ctx context.Context, now time.Time) ([]dto.PatientAppointmentRow, error) {
	list, err := u.patientAppointments(ctx)
	if err != nil {
		return nil, err
	}

	visible := entity.VisibleAppointments(list)
	sortAppointments(visible)

	rows := make([]dto.PatientAppointmentRow, 0, len(visible))
	for _, a := range visible {
		row := dto.PatientAppointmentRow{Appointment: a}
		switch a.CancelState(now, u.loc) {
		case entity.CancelAllowed:
			row.CanCancel = true
			row.CancelTitle = CancelTitleAllowed
		case entity.CancelBlockedStatus:
			row.CancelTitle = CancelTitleBlocked
		case entity.CancelBlockedTooLate:
			row.CancelTitle = CancelTitleTooLate
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CancelPatient re-applies the cancel policy to the cached appointment before
// calling the backend. Unknown ids go straight to the backend, which decides.
// The backend's confirmation text is returned.
func (u *appointmentUsecase) CancelPatient(ctx context.Context, id string, now time.Time) (string, error) {
	sub, err := subject(ctx)
	if err != nil {
		return "", err
	}

	list, err := u.patientAppointments(ctx)
	if err != nil {
		return "", err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		switch list[i].CancelState(now, u.loc) {
		case entity.CancelBlockedStatus:
			return "", ErrCancelNotAllowed
		case entity.CancelBlockedTooLate:
			return "", ErrCancelTooLate
		}
	}

	var msg string
	if err := u.backend.Delete(ctx, pathPatientAppointment+escapePath(id), &msg); err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return "", err
	}

	u.query.Invalidate(ctx, bookingKeys(sub)...)
	return msg, nil
}

func (u *appointmentUsecase) BookBySlot(ctx context.Context, flow *BookingFlow) error {
	if !flow.CanSubmit() {
		return ErrSlotNotSelected
	}
	sub, err := subject(ctx)
	if err != nil {
		return err
	}

	var created entity.Appointment
	if err := u.backend.Post(ctx, pathBookBySlot, flow.Payload(), &created); err != nil {
		u.log.Warnf("Failed to book slot %s: %+v", flow.SlotID, err)
		return err
	}

	u.query.Invalidate(ctx, bookingKeys(sub)...)
	return nil
}

// ListDoctor returns the logged-in doctor's non-cancelled appointments.
func (u *appointmentUsecase) ListDoctor(ctx context.Context) ([]entity.Appointment, error) {
	sub, err := subject(ctx)
	if err != nil {
		return nil, err
	}
	list, err := cache.Fetch(ctx, u.query, cache.Key(resDoctorAppointments, sub), ttlList, func(ctx context.Context) ([]entity.Appointment, error) {
		var list []entity.Appointment
		if err := u.backend.Get(ctx, pathDoctorAppointments, nil, &list); err != nil {
			u.log.Warnf("Failed to list doctor appointments: %+v", err)
			return nil, err
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}

	visible := entity.VisibleAppointments(list)
	sortAppointments(visible)
	return visible, nil
}

func sortAppointments(list []entity.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].DateTime.Less(list[j].DateTime)
	})
}
