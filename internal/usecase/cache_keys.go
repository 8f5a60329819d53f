package usecase

import (
	"time"

	"medlink-portal/internal/infrastructure/cache"
)

// Query cache resources. Per-user resources add the subject as the first
// parameter; parametrized lists add their filters.
const (
	resAdminDoctors       = "admin-medicos"
	resAdminDoctorsMap    = "admin-medicos-map"
	resPatientDoctors     = "paciente-medicos"
	resAdminPatients      = "admin-pacientes"
	resAdminPatientsMap   = "admin-pacientes-map"
	resPatientProfile     = "paciente-profile"
	resAdminAppointments  = "admin-consultas"
	resPatientAppointment = "consultas-paciente"
	resDoctorAppointments = "medico-consultas"
	resAdminSlots         = "admin-slots"
	resFreeSlots          = "slots"
)

const (
	ttlList    = 30 * time.Second
	ttlDoctors = time.Minute
	ttlNameMap = 5 * time.Minute
	ttlProfile = 5 * time.Minute
)

// userScoped lists the resources keyed by subject, dropped on login and
// logout so nothing of a previous session is served.
var userScoped = []string{resPatientProfile, resPatientAppointment, resDoctorAppointments}

func userKeys(sub string) []string {
	keys := make([]string, 0, len(userScoped))
	for _, res := range userScoped {
		keys = append(keys, cache.Key(res, sub))
	}
	return keys
}

// bookingKeys are invalidated whenever a booking is created or cancelled.
func bookingKeys(sub string) []string {
	return []string{
		cache.Key(resPatientAppointment, sub),
		cache.Key(resFreeSlots),
		cache.Key(resAdminSlots),
		cache.Key(resAdminAppointments),
	}
}
