package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndPop(t *testing.T) {
	rec := httptest.NewRecorder()
	Warning(rec, "Esse horário acabou de ser reservado. Escolha outro.")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	rec = httptest.NewRecorder()
	m := Pop(rec, req)
	require.NotNil(t, m)
	assert.Equal(t, KindWarning, m.Kind)
	assert.Equal(t, 3500, m.Duration)
	assert.Equal(t, "Esse horário acabou de ser reservado. Escolha outro.", m.Text)

	cleared := rec.Result().Cookies()[0]
	assert.Equal(t, "flash", cleared.Name)
	assert.True(t, cleared.MaxAge < 0)
}

func TestPop_Garbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "flash", Value: "%%%"})
	assert.Nil(t, Pop(httptest.NewRecorder(), req))

	assert.Nil(t, Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestDurations(t *testing.T) {
	assert.Equal(t, 3000, KindSuccess.Duration())
	assert.Equal(t, 4000, KindError.Duration())
	assert.Equal(t, 3000, KindInfo.Duration())
	assert.Equal(t, 3500, KindWarning.Duration())
}
