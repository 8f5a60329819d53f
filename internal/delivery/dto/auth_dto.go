package dto

// Request DTOs. The `form` tag names the HTML field, `json` the backend field.

type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"emailpattern" message:"E-mail inválido"`
	Password string `form:"password" json:"password" validate:"min=8" message:"Senha deve ter no mínimo 8 caracteres"`
}

type AdminLoginRequest struct {
	Email    string `form:"email" json:"email" validate:"emailpattern" message:"E-mail inválido"`
	Password string `form:"password" json:"password" validate:"min=8" message:"Senha deve ter ao menos 8 caracteres"`
}

// RegisterPatientRequest is the public sign-up form. The backend receives
// it as nome/email/telefone/password/endereco.
type RegisterPatientRequest struct {
	Name     string `form:"nome" json:"nome" validate:"min=5" message:"Campo obrigatório"`
	Email    string `form:"email" json:"email" validate:"min=5,emailpattern" message:"min=Campo obrigatório;emailpattern=E-mail inválido"`
	Phone    string `form:"telefone" json:"telefone" validate:"min=5,phonebr" message:"min=Campo obrigatório;phonebr=Telefone inválido"`
	Password string `form:"password" json:"password" validate:"min=8" message:"Senha deve ter no mínimo 8 caracteres"`
	Address  string `form:"endereco" json:"endereco"`
}

type ForgotPasswordRequest struct {
	Email string `form:"email" json:"email" validate:"required,email" message:"E-mail inválido"`
}

type ResetPasswordRequest struct {
	Token           string `form:"token" json:"token" validate:"required" message:"Token é obrigatório."`
	Password        string `form:"password" json:"password" validate:"min=6" message:"Senha precisa ter ao menos 6 caracteres"`
	ConfirmPassword string `form:"confirmPassword" json:"-" validate:"eqfield=Password" message:"As senhas não conferem"`
}

// Response DTOs

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ForgotPasswordResponse is returned by the demo reset endpoint. DemoURL is
// only filled in development.
type ForgotPasswordResponse struct {
	Message string `json:"message"`
	DemoURL string `json:"demoUrl,omitempty"`
}

type ResetPasswordResponse struct {
	Message     string `json:"message"`
	DemoResetID string `json:"demoResetId,omitempty"`
}
