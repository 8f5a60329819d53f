package dto

// CreateDoctorRequest is the admin "new doctor" form, posted to the
// backend's doctor registration endpoint as-is.
type CreateDoctorRequest struct {
	Email     string `form:"email" json:"email" validate:"emailpattern" message:"E-mail inválido"`
	Password  string `form:"password" json:"password" validate:"min=8" message:"Senha deve ter pelo menos 8 caracteres"`
	Name      string `form:"nome" json:"nome" validate:"min=3" message:"Informe o nome completo"`
	Address   string `form:"endereco" json:"endereco,omitempty"`
	Phone     string `form:"telefone" json:"telefone,omitempty"`
	Specialty string `form:"especialidade" json:"especialidade" validate:"oneof=OFTALMOLOGIA CARDIOLOGIA ORTOPEDIA PEDIATRIA" message:"Selecione uma especialidade"`
	CRM       string `form:"crm" json:"crm" validate:"min=3" message:"CRM inválido"`
}
