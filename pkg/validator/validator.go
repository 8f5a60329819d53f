package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[\w.-]+@[a-zA-Z\d.-]+\.[a-zA-Z]{2,}(\.[a-zA-Z]{2,})?$`)
	phonePattern = regexp.MustCompile(`^\(?\d{2}\)?\s?\d{4,5}-?\d{4}$`)
	hhmmPattern  = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Field messages for the slot form's cross-field rules.
const (
	MsgEndBeforeStart = "Hora final deve ser posterior à hora inicial"
	MsgStartInPast    = "A data/hora inicial deve ser no futuro"
)

// SlotWindow is implemented by forms that describe a time window on a date.
// The validator checks that the end is after the start and that the start is
// not in the past.
type SlotWindow interface {
	SlotWindow() (date, start, end string)
}

type CustomValidator struct {
	validator *validator.Validate
	now       func() time.Time
	loc       *time.Location
}

type Option func(*CustomValidator)

// WithClock overrides the time source used by the "not in the past" rule.
func WithClock(now func() time.Time) Option {
	return func(cv *CustomValidator) { cv.now = now }
}

// WithLocation sets the zone form dates and times are entered in.
func WithLocation(loc *time.Location) Option {
	return func(cv *CustomValidator) { cv.loc = loc }
}

func NewValidator(opts ...Option) *CustomValidator {
	cv := &CustomValidator{
		validator: validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(cv)
	}

	cv.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = cv.validator.RegisterValidation("emailpattern", matcher(emailPattern))
	_ = cv.validator.RegisterValidation("phonebr", matcher(phonePattern))
	_ = cv.validator.RegisterValidation("hhmm", matcher(hhmmPattern))

	return cv
}

func matcher(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Validate runs the struct tags, then the slot window rules for forms that
// implement SlotWindow. Window errors are returned as *WindowError.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	if w, ok := i.(SlotWindow); ok {
		return cv.checkWindow(w)
	}
	return nil
}

// WindowError carries field-level failures of the slot window rules.
type WindowError struct {
	Fields map[string]string
}

func (e *WindowError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func (cv *CustomValidator) checkWindow(w SlotWindow) error {
	date, start, end := w.SlotWindow()
	fields := map[string]string{}

	s, errS := time.Parse("15:04", start)
	e, errE := time.Parse("15:04", end)
	if errS != nil || errE != nil || !e.After(s) {
		fields["horaFim"] = MsgEndBeforeStart
	}

	// Start may be the current minute; anything earlier is in the past.
	begin, err := time.ParseInLocation("2006-01-02 15:04", date+" "+start, cv.loc)
	if err != nil || begin.Before(cv.now().In(cv.loc).Truncate(time.Minute)) {
		fields["horaInicio"] = MsgStartInPast
	}

	if len(fields) > 0 {
		return &WindowError{Fields: fields}
	}
	return nil
}

// FormatValidationErrors maps each failing field to one message. Messages
// come from the struct's `message` tag ("tag=text;tag=text"), falling back
// to a generic text per tag. The first failure of a field wins.
func (cv *CustomValidator) FormatValidationErrors(obj interface{}, err error) map[string]string {
	errs := make(map[string]string)

	var windowErr *WindowError
	if errors.As(err, &windowErr) {
		for f, msg := range windowErr.Fields {
			errs[f] = msg
		}
		return errs
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errs
	}

	messages := messageTags(obj)
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		if msg, ok := messages[e.StructField()][e.Tag()]; ok {
			errs[field] = msg
			continue
		}
		if msg, ok := messages[e.StructField()]["*"]; ok {
			errs[field] = msg
			continue
		}
		switch e.Tag() {
		case "required":
			errs[field] = "Campo obrigatório"
		case "email", "emailpattern":
			errs[field] = "E-mail inválido"
		case "phonebr":
			errs[field] = "Telefone inválido"
		case "hhmm":
			errs[field] = "Formato HH:mm"
		case "min":
			errs[field] = "Deve ter no mínimo " + e.Param() + " caracteres"
		case "max":
			errs[field] = "Deve ter no máximo " + e.Param() + " caracteres"
		case "gte":
			errs[field] = "Deve ser maior ou igual a " + e.Param()
		case "lte":
			errs[field] = "Deve ser menor ou igual a " + e.Param()
		default:
			errs[field] = "Campo inválido"
		}
	}

	return errs
}

func messageTags(obj interface{}) map[string]map[string]string {
	out := map[string]map[string]string{}
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		raw := f.Tag.Get("message")
		if raw == "" {
			continue
		}
		m := map[string]string{}
		for _, pair := range strings.Split(raw, ";") {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				m["*"] = strings.TrimSpace(pair)
				continue
			}
			m[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		out[f.Name] = m
	}
	return out
}
