package entity

// Specialty is the fixed set of medical specialties the backend accepts.
type Specialty string

const (
	SpecialtyOphthalmology Specialty = "OFTALMOLOGIA"
	SpecialtyCardiology    Specialty = "CARDIOLOGIA"
	SpecialtyOrthopedics   Specialty = "ORTOPEDIA"
	SpecialtyPediatrics    Specialty = "PEDIATRIA"
)

var Specialties = []Specialty{
	SpecialtyOphthalmology,
	SpecialtyCardiology,
	SpecialtyOrthopedics,
	SpecialtyPediatrics,
}

func (s Specialty) Valid() bool {
	for _, known := range Specialties {
		if s == known {
			return true
		}
	}
	return false
}

// Doctor mirrors the backend's medico DTO.
type Doctor struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Specialty Specialty `json:"especialidade,omitempty"`
	CRM       string    `json:"crm,omitempty"`
	Phone     string    `json:"telefone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"endereco,omitempty"`
}
