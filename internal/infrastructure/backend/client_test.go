package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medlink-portal/config"
	"medlink-portal/internal/session"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(config.BackendConfig{URL: srv.URL + "/", Timeout: time.Second}, log)
}

func TestClient_AttachesBearerFromSession(t *testing.T) {
	var gotAuth, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id":"1","nome":"Dra. Ana"}]`))
	})

	ctx := session.NewContext(context.Background(), &session.Session{Token: "tok"})
	var out []map[string]string
	require.NoError(t, c.Get(ctx, "/medlink/admin/slots", map[string][]string{"data": {"2025-03-10"}}, &out))

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "data=2025-03-10", gotQuery)
	assert.Equal(t, "Dra. Ana", out[0]["nome"])
}

func TestClient_NoSessionNoHeader(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	})

	require.NoError(t, c.Post(context.Background(), "/medlink/login", map[string]string{"email": "a"}, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_PostsJSON(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"token":"abc"}`))
	})

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, c.Post(context.Background(), "/medlink/login", map[string]string{"email": "ana@medlink.com"}, &out))
	assert.Equal(t, "ana@medlink.com", got["email"])
	assert.Equal(t, "abc", out.Token)
}

func TestClient_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.Get(context.Background(), "/medlink/paciente", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestClient_ErrorMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Horário inválido"}`))
		case "/text":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("Slot já reservado"))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
		}
	})

	err := c.Get(context.Background(), "/json", nil, nil)
	assert.Equal(t, "Horário inválido", MessageOf(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))

	err = c.Get(context.Background(), "/text", nil, nil)
	assert.Equal(t, http.StatusConflict, StatusOf(err))
	assert.Equal(t, "Slot já reservado", MessageOf(err))

	err = c.Get(context.Background(), "/other", nil, nil)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.Empty(t, MessageOf(err))
}

func TestClient_StringBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Consulta cancelada com sucesso"))
	})

	var msg string
	require.NoError(t, c.Delete(context.Background(), "/medlink/paciente/consulta/1", &msg))
	assert.Equal(t, "Consulta cancelada com sucesso", msg)
}

func TestClient_ContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Get(ctx, "/slow", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, StatusOf(err))
}
