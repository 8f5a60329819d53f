package usecase

import (
	"context"
	"net/http"
	"testing"

	"medlink-portal/internal/delivery/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patientsJSON = `[
	{"id":"p1","nome":"Ana Souza","email":"ana@medlink.com","telefone":"(11) 98888-0000"},
	{"id":"p2","nome":"Carlos Lima","email":"carlos@medlink.com","telefone":"(21) 97777-1111"}
]`

func TestPatientUsecase_ListAdminSearch(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply("GET /medlink/admin/pacientes", http.StatusOK, patientsJSON)
	uc := NewPatientUsecase(quietLogger(), client, newQuery())
	ctx := userCtx("adm", "ADMIN")

	tests := []struct {
		search string
		ids    []string
	}{
		{"", []string{"p1", "p2"}},
		{"ana", []string{"p1"}},
		{"CARLOS@", []string{"p2"}},
		{"97777", []string{"p2"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got, err := uc.ListAdmin(ctx, tt.search)
		require.NoError(t, err)

		var ids []string
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, tt.ids, ids, tt.search)
	}
	assert.Equal(t, 1, fb.count("GET /medlink/admin/pacientes"))
}

func TestPatientUsecase_NameMap(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply("GET /medlink/admin/pacientes", http.StatusOK, patientsJSON)
	uc := NewPatientUsecase(quietLogger(), client, newQuery())

	names, err := uc.NameMap(userCtx("adm", "ADMIN"))
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", names.Label("p1"))
}

func TestPatientUsecase_ProfileRequiresSession(t *testing.T) {
	_, client := newFakeBackend(t)
	uc := NewPatientUsecase(quietLogger(), client, newQuery())

	_, err := uc.Profile(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestPatientUsecase_UpdateProfileInvalidatesOwnProfile(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.reply("GET /medlink/paciente", http.StatusOK, `{"id":"p1","nome":"Ana","email":"ana@medlink.com"}`)
	fb.reply("PUT /medlink/paciente", http.StatusOK, `{"id":"p1","nome":"Ana Souza","email":"ana@medlink.com"}`)
	uc := NewPatientUsecase(quietLogger(), client, newQuery())
	ana := userCtx("ana", "PACIENTE")
	bia := userCtx("bia", "PACIENTE")

	_, err := uc.Profile(ana)
	require.NoError(t, err)
	_, err = uc.Profile(bia)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.count("GET /medlink/paciente"))

	updated, err := uc.UpdateProfile(ana, &dto.UpdateProfileRequest{Name: "Ana Souza", Phone: "11988880000", Address: "Rua A, 10"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", updated.Name)

	_, _ = uc.Profile(ana)
	_, _ = uc.Profile(bia)
	assert.Equal(t, 3, fb.count("GET /medlink/paciente"))
}
