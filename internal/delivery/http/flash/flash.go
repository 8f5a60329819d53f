// Package flash carries one toast message across a redirect in a short-lived
// cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "flash"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Duration is how long the toast stays on screen, in milliseconds.
func (k Kind) Duration() int {
	switch k {
	case KindError:
		return 4000
	case KindWarning:
		return 3500
	default:
		return 3000
	}
}

type Message struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text"`
	Duration int    `json:"duration"`
}

func New(kind Kind, text string) *Message {
	return &Message{Kind: kind, Text: text, Duration: kind.Duration()}
}

// Set stores m for the next request.
func Set(w http.ResponseWriter, m *Message) {
	if m == nil || m.Text == "" {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func Success(w http.ResponseWriter, text string) { Set(w, New(KindSuccess, text)) }
func Error(w http.ResponseWriter, text string)   { Set(w, New(KindError, text)) }
func Info(w http.ResponseWriter, text string)    { Set(w, New(KindInfo, text)) }
func Warning(w http.ResponseWriter, text string) { Set(w, New(KindWarning, text)) }

// Pop returns the pending message, if any, and clears it.
func Pop(w http.ResponseWriter, r *http.Request) *Message {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil || m.Text == "" {
		return nil
	}
	if m.Duration == 0 {
		m.Duration = m.Kind.Duration()
	}
	return &m
}
