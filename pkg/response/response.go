package response

import (
	"encoding/json"
	"net/http"
)

// Message is the body of every JSON answer that carries no other payload.
type Message struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, Message{Message: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Muitas tentativas. Aguarde e tente novamente."
	}
	Error(w, http.StatusTooManyRequests, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Erro interno no servidor."
	}
	Error(w, http.StatusInternalServerError, message)
}
