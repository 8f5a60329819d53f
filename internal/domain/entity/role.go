package entity

// Role names as they appear in the session token's role claim.
const (
	RoleAdmin    = "ADMIN"
	RoleDoctor   = "MEDICO"
	RolePatient  = "PACIENTE"
	AuthorityPfx = "ROLE_"
)

// Roles lists every role the portal routes on.
var Roles = []string{RoleAdmin, RoleDoctor, RolePatient}
