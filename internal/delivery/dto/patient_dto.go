package dto

type UpdateProfileRequest struct {
	Name    string `form:"nome" json:"nome" validate:"min=3" message:"Nome deve ter pelo menos 3 caracteres"`
	Phone   string `form:"telefone" json:"telefone" validate:"min=10" message:"Telefone deve ter pelo menos 10 caracteres"`
	Address string `form:"endereco" json:"endereco" validate:"min=5" message:"Endereço deve ter pelo menos 5 caracteres"`
}
