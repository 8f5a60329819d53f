package view

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medlink-portal/internal/delivery/http/flash"
	"medlink-portal/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)
	r, err := NewRenderer(loc, log)
	require.NoError(t, err)
	return r
}

func TestRender_FieldErrorsAndFlash(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, http.StatusUnprocessableEntity, "login", &Page{
		Title:  "Entrar",
		Flash:  flash.New(flash.KindWarning, "Credenciais inválidas. Tente novamente."),
		Errors: map[string]string{"password": "Senha deve ter no mínimo 8 caracteres"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Senha deve ter no mínimo 8 caracteres")
	assert.Contains(t, body, `toast-warning`)
	assert.Contains(t, body, `data-duration="3500"`)
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, http.StatusOK, "nope", &Page{})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRender_NavigationFollowsRole(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, http.StatusOK, "admin_dashboard", &Page{
		User: &User{ID: "adm", Role: entity.RoleAdmin},
		Data: struct{ Doctors, Patients, Appointments string }{"2", "3", "4"},
	})

	assert.Contains(t, rec.Body.String(), `action="/admin/logout"`)
	assert.NotContains(t, rec.Body.String(), `href="/paciente/perfil"`)
}

func TestFuncs_DateTimeInLocation(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	funcs := Funcs(loc)

	dateTime := funcs["dateTime"].(func(entity.LocalDateTime) string)
	clock := funcs["clock"].(func(entity.LocalDateTime) string)

	assert.Equal(t, "10/03/2025 14:30", dateTime("2025-03-10T14:30:00"))
	assert.Equal(t, "14:30", clock("2025-03-10T14:30:00"))
	assert.Equal(t, "10/03/2025 14:30", dateTime("2025-03-10T17:30:00Z"))
	assert.Equal(t, "garbage", dateTime("garbage"))
}

func TestSpecialtyLabel(t *testing.T) {
	assert.Equal(t, "Oftalmologia", SpecialtyLabel(entity.SpecialtyOphthalmology))
	assert.Equal(t, "", SpecialtyLabel(""))
}

func TestStatic(t *testing.T) {
	rec := httptest.NewRecorder()
	Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "--brand")
}
