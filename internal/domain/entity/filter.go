package entity

import "net/url"

// AppointmentFilter is the admin appointment search sent to the backend.
type AppointmentFilter struct {
	Query     string
	Status    AppointmentStatus
	DoctorID  string
	PatientID string
	From      string // YYYY-MM-DD
	To        string // YYYY-MM-DD
}

// Values encodes only the filters that are set.
func (f AppointmentFilter) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("q", f.Query)
	set("status", string(f.Status))
	set("medicoId", f.DoctorID)
	set("pacienteId", f.PatientID)
	set("from", f.From)
	set("to", f.To)
	return v
}
