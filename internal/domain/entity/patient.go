package entity

import "strings"

// Patient mirrors the backend's paciente DTO.
type Patient struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	Email   string `json:"email"`
	Phone   string `json:"telefone,omitempty"`
	Address string `json:"endereco,omitempty"`
}

// Matches performs the case-insensitive search the admin patient list offers
// over name, e-mail and phone. An empty query matches everything.
func (p *Patient) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Email), q) ||
		strings.Contains(strings.ToLower(p.Phone), q)
}

// NameMap indexes names by id so list pages can label foreign keys.
type NameMap map[string]string

// Label returns the name for id, or id itself when unknown.
func (m NameMap) Label(id string) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return id
}
