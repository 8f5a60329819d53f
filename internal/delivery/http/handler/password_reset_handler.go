package handler

import (
	"encoding/json"
	"net/http"

	"medlink-portal/internal/usecase"
	"medlink-portal/pkg/response"

	"github.com/sirupsen/logrus"
)

// PasswordResetHandler serves the demo JSON endpoints behind the
// forgot/reset pages.
type PasswordResetHandler struct {
	resets usecase.PasswordResetUsecase
	log    *logrus.Logger
}

func NewPasswordResetHandler(resets usecase.PasswordResetUsecase, log *logrus.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets, log: log}
}

type forgotPasswordBody struct {
	Email string `json:"email"`
}

type resetPasswordBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body forgotPasswordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.log.Warnf("Failed to decode forgot password body: %+v", err)
		response.InternalServerError(w, usecase.MsgResetRequestFailed)
		return
	}

	resp, err := h.resets.Forgot(r.Context(), body.Email)
	if err != nil {
		switch err {
		case usecase.ErrResetEmailRequired:
			response.BadRequest(w, usecase.MsgResetEmailRequired)
		default:
			h.log.Errorf("Forgot password failed: %+v", err)
			response.InternalServerError(w, usecase.MsgResetRequestFailed)
		}
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body resetPasswordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.log.Warnf("Failed to decode reset password body: %+v", err)
		response.InternalServerError(w, usecase.MsgResetFailed)
		return
	}

	resp, err := h.resets.Reset(r.Context(), body.Token, body.Password)
	if err != nil {
		switch err {
		case usecase.ErrResetTokenRequired:
			response.BadRequest(w, usecase.MsgResetTokenRequired)
		case usecase.ErrResetPasswordShort:
			response.BadRequest(w, usecase.MsgResetPasswordShort)
		case usecase.ErrResetTokenInvalid:
			response.BadRequest(w, usecase.MsgResetTokenInvalid)
		default:
			h.log.Errorf("Reset password failed: %+v", err)
			response.InternalServerError(w, usecase.MsgResetFailed)
		}
		return
	}

	response.JSON(w, http.StatusOK, resp)
}
