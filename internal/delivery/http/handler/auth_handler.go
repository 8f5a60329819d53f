package handler

import (
	"errors"
	"net/http"

	"medlink-portal/internal/access"
	"medlink-portal/internal/delivery/dto"
	"medlink-portal/internal/delivery/http/flash"
	"medlink-portal/internal/session"
	"medlink-portal/internal/usecase"

	"github.com/gorilla/mux"
)

var (
	loginErrors = ErrorMessages{
		Forbidden: Toast{Text: "Acesso negado. Verifique seu perfil ou permissões."},
		Default:   Toast{Text: "Erro ao realizar login. Tente novamente."},
	}
	registerErrors = ErrorMessages{
		BadRequest: Toast{Kind: flash.KindInfo, Text: "Verifique os dados informados."},
		Conflict:   Toast{Kind: flash.KindWarning, Text: "Este e-mail já está cadastrado. Tente outro."},
		Default:    Toast{Text: "Erro interno no servidor."},
	}
	forgotErrors = ErrorMessages{
		Default: Toast{Text: "Erro ao solicitar recuperação."},
	}
	resetErrors = ErrorMessages{
		BadRequest: Toast{Text: "Token inválido ou expirado.", Fixed: true},
		Default:    Toast{Text: "Erro ao redefinir senha."},
	}
)

type AuthHandler struct {
	*Base
}

func NewAuthHandler(base *Base) *AuthHandler {
	return &AuthHandler{Base: base}
}

func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home", h.page(w, r, ""))
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login", h.page(w, r, "Entrar"))
}

// Login signs a patient or doctor in and sends them to their area.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Entrar")

	var req dto.LoginRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		h.invalid(w, "login", p, &req, err)
		return
	}

	s, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		p.Form = &req
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			p.Flash = flash.New(flash.KindWarning, "Credenciais inválidas. Tente novamente.")
		} else {
			h.logFailure(r, "login", err)
			p.Flash = loginErrors.Message(err)
		}
		h.render(w, http.StatusOK, "login", p)
		return
	}

	h.sessions.Set(w, s.Token)
	h.redirect(w, r, access.HomeFor(s.Claims), flash.New(flash.KindSuccess, "Login realizado com sucesso!"))
}

func (h *AuthHandler) AdminLoginPage(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Acesso administrativo")
	p.Data = safeRedirectParam(r.URL.Query().Get("redirect"))
	h.render(w, http.StatusOK, "admin_login", p)
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Acesso administrativo")

	var req dto.AdminLoginRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	redirectParam := safeRedirectParam(r.PostForm.Get("redirect"))
	p.Data = redirectParam

	if err := h.validate.Validate(&req); err != nil {
		h.invalid(w, "admin_login", p, &req, err)
		return
	}

	login := dto.LoginRequest{Email: req.Email, Password: req.Password}
	s, err := h.auth.Login(r.Context(), &login)
	if err != nil {
		p.Form = &req
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			p.Flash = flash.New(flash.KindError, "Credenciais inválidas")
		} else {
			h.logFailure(r, "admin-login", err)
			p.Flash = loginErrors.Message(err)
		}
		h.render(w, http.StatusOK, "admin_login", p)
		return
	}

	h.sessions.Set(w, s.Token)
	h.redirect(w, r, access.AdminLoginTarget(redirectParam, s.Claims), flash.New(flash.KindSuccess, "Login realizado com sucesso!"))
}

func safeRedirectParam(v string) string {
	if access.SafeRedirect(v) {
		return v
	}
	return ""
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, access.PathLogin)
}

func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, access.PathAdminLogin)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request, to string) {
	if s, ok := session.FromContext(r.Context()); ok {
		h.auth.Logout(r.Context(), s)
	}
	h.sessions.Clear(w)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register", h.page(w, r, "Criar conta"))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Criar conta")

	var req dto.RegisterPatientRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		h.invalid(w, "register", p, &req, err)
		return
	}

	if err := h.auth.Register(r.Context(), &req); err != nil {
		h.logFailure(r, "register", err)
		p.Form = &req
		p.Flash = registerErrors.Message(err)
		h.render(w, http.StatusOK, "register", p)
		return
	}

	h.redirect(w, r, access.PathLogin, flash.New(flash.KindSuccess, "Cadastro realizado com sucesso! Faça login para continuar."))
}

func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "forgot_password", h.page(w, r, "Recuperar senha"))
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Recuperar senha")

	var req dto.ForgotPasswordRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		h.invalid(w, "forgot_password", p, &req, err)
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), &req); err != nil {
		h.logFailure(r, "forgot-password", err)
		p.Form = &req
		p.Flash = forgotErrors.Message(err)
		h.render(w, http.StatusOK, "forgot_password", p)
		return
	}

	h.redirect(w, r, "/recuperar-senha", flash.New(flash.KindSuccess, "Se um usuário com esse e-mail existir, enviamos instruções."))
}

func (h *AuthHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Redefinir senha")
	p.Form = &dto.ResetPasswordRequest{Token: mux.Vars(r)["token"]}
	h.render(w, http.StatusOK, "reset_password", p)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Redefinir senha")

	var req dto.ResetPasswordRequest
	if err := decodeForm(r, &req); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req.Token = mux.Vars(r)["token"]
	if err := h.validate.Validate(&req); err != nil {
		h.invalid(w, "reset_password", p, &req, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), &req); err != nil {
		p.Form = &dto.ResetPasswordRequest{Token: req.Token}
		if errors.Is(err, usecase.ErrResetTokenInvalid) {
			p.Flash = flash.New(flash.KindError, resetErrors.BadRequest.Text)
		} else {
			h.logFailure(r, "reset-password", err)
			p.Flash = resetErrors.Message(err)
		}
		h.render(w, http.StatusOK, "reset_password", p)
		return
	}

	h.redirect(w, r, access.PathLogin, flash.New(flash.KindSuccess, "Senha redefinida com sucesso."))
}
