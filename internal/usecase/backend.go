package usecase

import (
	"context"
	"errors"
	"net/url"

	"medlink-portal/internal/infrastructure/backend"
	"medlink-portal/internal/session"
)

// BackendAPI is the subset of the backend client the usecases need.
type BackendAPI interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}

// Backend endpoints.
const (
	pathLogin           = "/medlink/login"
	pathRegisterPatient = "/medlink/paciente/register"
	pathRegisterDoctor  = "/medlink/medico/register"

	pathAdminDoctors      = "/medlink/admin/medicos"
	pathAdminPatients     = "/medlink/admin/pacientes"
	pathAdminAppointments = "/medlink/admin/consultas"
	pathAdminSlots        = "/medlink/admin/slots"

	pathPatientProfile      = "/medlink/paciente"
	pathPatientDoctors      = "/medlink/paciente/medicos"
	pathPatientAppointments = "/medlink/paciente/consultas"
	pathPatientAppointment  = "/medlink/paciente/consulta/"
	pathBookBySlot          = "/medlink/paciente/consulta/por-slot"

	pathDoctorAppointments = "/medlink/medico/consultas"
)

var ErrNoSession = errors.New("no session")

// subject returns the logged-in user's id for per-user cache keys.
func subject(ctx context.Context) (string, error) {
	s, ok := session.FromContext(ctx)
	if !ok || s.Subject() == "" {
		return "", ErrNoSession
	}
	return s.Subject(), nil
}

func escapePath(segment string) string {
	return url.PathEscape(segment)
}

func isUnauthorized(err error) bool {
	return errors.Is(err, backend.ErrUnauthorized)
}
