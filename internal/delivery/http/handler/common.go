package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"medlink-portal/internal/access"
	"medlink-portal/internal/delivery/http/flash"
	"medlink-portal/internal/delivery/http/view"
	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/infrastructure/backend"
	"medlink-portal/internal/session"
	"medlink-portal/internal/usecase"
	"medlink-portal/pkg/validator"

	"github.com/go-viper/mapstructure/v2"
	"github.com/sirupsen/logrus"
)

const (
	MsgUnexpected     = "Ocorreu um erro inesperado. Tente novamente."
	MsgSessionExpired = "Sua sessão expirou. Faça login novamente."
)

// Toast is one configured user message.
type Toast struct {
	Kind flash.Kind
	Text string
	// Fixed keeps Text even when the backend sent its own 400 message.
	Fixed bool
}

// ErrorMessages maps backend statuses of one action to user messages.
// 401 is never listed here: it always ends the session.
type ErrorMessages struct {
	BadRequest Toast
	Forbidden  Toast
	NotFound   Toast
	Conflict   Toast
	Default    Toast
}

// Message picks the toast for err. A 400 prefers the backend's own message
// unless the configured one is Fixed. An unmatched status falls back to
// Default, then to the backend message, then to a generic text.
func (m ErrorMessages) Message(err error) *flash.Message {
	var t Toast
	switch backend.StatusOf(err) {
	case http.StatusBadRequest:
		t = m.BadRequest
		if msg := backend.MessageOf(err); msg != "" && !t.Fixed {
			t.Text = msg
		}
	case http.StatusForbidden:
		t = m.Forbidden
	case http.StatusNotFound:
		t = m.NotFound
	case http.StatusConflict:
		t = m.Conflict
	}

	if t.Text == "" {
		t = m.Default
		if t.Text == "" {
			t.Text = backend.MessageOf(err)
		}
		if t.Text == "" {
			t.Text = MsgUnexpected
		}
	}
	if t.Kind == "" {
		t.Kind = flash.KindError
	}
	return flash.New(t.Kind, t.Text)
}

// Base carries what every page handler needs.
type Base struct {
	view     *view.Renderer
	sessions *session.Manager
	auth     usecase.AuthUsecase
	validate *validator.CustomValidator
	log      *logrus.Logger
	now      func() time.Time
}

func NewBase(
	renderer *view.Renderer,
	sessions *session.Manager,
	auth usecase.AuthUsecase,
	validate *validator.CustomValidator,
	log *logrus.Logger,
) *Base {
	return &Base{
		view:     renderer,
		sessions: sessions,
		auth:     auth,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

// page starts the view data of a request, consuming any pending flash.
func (b *Base) page(w http.ResponseWriter, r *http.Request, title string) *view.Page {
	p := &view.Page{Title: title, Flash: flash.Pop(w, r)}
	if s, ok := session.FromContext(r.Context()); ok && s.Claims != nil {
		p.User = &view.User{ID: s.Subject(), Role: primaryRole(s)}
	}
	return p
}

func primaryRole(s *session.Session) string {
	for _, role := range entity.Roles {
		if s.Claims.HasRole(role) {
			return role
		}
	}
	return ""
}

func (b *Base) render(w http.ResponseWriter, status int, name string, p *view.Page) {
	b.view.Render(w, status, name, p)
}

// invalid re-renders a form with its field errors.
func (b *Base) invalid(w http.ResponseWriter, name string, p *view.Page, form interface{}, err error) {
	p.Form = form
	p.Errors = b.validate.FormatValidationErrors(form, err)
	b.render(w, http.StatusUnprocessableEntity, name, p)
}

// redirect finishes a POST: the message is shown on the next page.
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, to string, m *flash.Message) {
	flash.Set(w, m)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// endSession handles a 401 from the backend, or a protected call made
// without a usable session: drop the cached user data, clear the cookie and
// send the browser to the login page of the current area.
func (b *Base) endSession(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) && !errors.Is(err, usecase.ErrNoSession) {
		return false
	}
	if s, ok := session.FromContext(r.Context()); ok {
		b.auth.Logout(r.Context(), s)
	}
	b.sessions.Clear(w)
	b.redirect(w, r, access.LoginPathFor(r.URL.Path), flash.New(flash.KindWarning, MsgSessionExpired))
	return true
}

func (b *Base) logFailure(r *http.Request, op string, err error) {
	b.log.WithFields(logrus.Fields{
		"status": backend.StatusOf(err),
		"path":   r.URL.Path,
		"op":     op,
	}).Warnf("Request failed: %v", err)
}

// fail reports a failed mutation by redirecting back with a toast.
func (b *Base) fail(w http.ResponseWriter, r *http.Request, op string, err error, msgs ErrorMessages, back string) {
	if b.endSession(w, r, err) {
		return
	}
	b.logFailure(r, op, err)
	b.redirect(w, r, back, msgs.Message(err))
}

// loadFailed renders a page whose data could not be fetched.
func (b *Base) loadFailed(w http.ResponseWriter, r *http.Request, op, name string, p *view.Page, text string, err error) {
	if b.endSession(w, r, err) {
		return
	}
	b.logFailure(r, op, err)
	p.Error = text
	status := http.StatusBadGateway
	if backend.StatusOf(err) == http.StatusForbidden {
		status = http.StatusForbidden
	}
	b.render(w, status, name, p)
}

// decodeValues copies form or query values into dst by `form` tag. Values
// that do not convert leave the field zero for validation to report, so a
// partial decode is not an error.
func decodeValues(values url.Values, dst interface{}) error {
	input := make(map[string]interface{}, len(values))
	for k, v := range values {
		if len(v) > 0 {
			input[k] = v[0]
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	_ = dec.Decode(input)
	return nil
}

func decodeForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return decodeValues(r.PostForm, dst)
}
