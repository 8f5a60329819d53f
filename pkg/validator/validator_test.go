package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `json:"email" validate:"emailpattern" message:"E-mail inválido"`
	Password string `json:"password" validate:"min=8" message:"min=Senha deve ter no mínimo 8 caracteres"`
	Phone    string `json:"telefone" validate:"omitempty,phonebr"`
}

type windowForm struct {
	Date  string `json:"data" validate:"required" message:"Informe a data"`
	Start string `json:"horaInicio" validate:"hhmm" message:"Formato HH:mm"`
	End   string `json:"horaFim" validate:"hhmm" message:"Formato HH:mm"`
}

func (f windowForm) SlotWindow() (string, string, string) { return f.Date, f.Start, f.End }

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
}

func TestValidate_MessageTags(t *testing.T) {
	v := NewValidator()
	form := loginForm{Email: "ana@", Password: "short", Phone: "123"}

	err := v.Validate(form)
	require.Error(t, err)

	errs := v.FormatValidationErrors(form, err)
	assert.Equal(t, "E-mail inválido", errs["email"])
	assert.Equal(t, "Senha deve ter no mínimo 8 caracteres", errs["password"])
	assert.Equal(t, "Telefone inválido", errs["telefone"])
}

func TestValidate_PatternsAccept(t *testing.T) {
	v := NewValidator()
	for _, phone := range []string{"(11) 98765-4321", "1198765432", "11 3456-7890"} {
		assert.NoError(t, v.Validate(loginForm{Email: "ana.souza@medlink.com.br", Password: "12345678", Phone: phone}), phone)
	}
}

func TestValidate_EndBeforeStart(t *testing.T) {
	v := NewValidator(WithClock(fixedClock()), WithLocation(time.UTC))
	form := windowForm{Date: "2025-03-11", Start: "09:00", End: "08:30"}

	err := v.Validate(form)
	require.Error(t, err)

	errs := v.FormatValidationErrors(form, err)
	assert.Equal(t, MsgEndBeforeStart, errs["horaFim"])
	assert.NotContains(t, errs, "horaInicio")
}

func TestValidate_StartInPast(t *testing.T) {
	v := NewValidator(WithClock(fixedClock()), WithLocation(time.UTC))

	form := windowForm{Date: "2025-03-10", Start: "11:59", End: "13:00"}
	errs := v.FormatValidationErrors(form, v.Validate(form))
	assert.Equal(t, MsgStartInPast, errs["horaInicio"])

	// The current minute is still accepted.
	assert.NoError(t, v.Validate(windowForm{Date: "2025-03-10", Start: "12:00", End: "13:00"}))
}

func TestValidate_WindowSkippedWhenTagsFail(t *testing.T) {
	v := NewValidator(WithClock(fixedClock()), WithLocation(time.UTC))
	form := windowForm{Date: "2025-03-11", Start: "9h", End: "08:30"}

	errs := v.FormatValidationErrors(form, v.Validate(form))
	assert.Equal(t, map[string]string{"horaInicio": "Formato HH:mm"}, errs)
}
