package form

import (
	"errors"
	"lostfound/internal/common/enum"
	"lostfound/internal/pkg/validation"
	"strings"
	"sync"
	"unicode"
)

var (
	ErrInvalid = errors.New("form has invalid fields")
	ErrBusy    = errors.New("form is already being submitted")
)

// Field describes one input of a form.
type Field struct {
	Name     string
	Label    string
	Kind     enum.FieldKindEnum
	Required bool
}

// FieldState is the validation annotation of one input.
type FieldState struct {
	Status  enum.ValidationStatusEnum
	Message string
	Value   string
}

func (s FieldState) Class() string {
	return s.Status.CSSClass()
}

// Form tracks validation state for one rendered form. Unknown field names
// are ignored by every event.
type Form struct {
	mu     sync.Mutex
	fields []Field
	state  map[string]FieldState
	busy   bool
}

func New(fields ...Field) *Form {
	f := &Form{fields: fields, state: make(map[string]FieldState, len(fields))}
	for _, field := range fields {
		f.state[field.Name] = FieldState{Status: enum.UNTOUCHED}
	}
	return f
}

func (f *Form) field(name string) (Field, bool) {
	for _, field := range f.fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (f *Form) evaluate(field Field, value string) FieldState {
	msg, ok := validation.ValidateField(value, field.Kind, field.Required)
	if !ok {
		return FieldState{Status: enum.INVALID, Message: msg, Value: value}
	}
	return FieldState{Status: enum.VALID, Value: value}
}

// Blur validates a field after the user leaves it.
func (f *Form) Blur(name, value string) FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.field(name)
	if !ok {
		return FieldState{Status: enum.UNTOUCHED}
	}
	state := f.evaluate(field, value)
	f.state[name] = state
	return state
}

// Input clears a field's annotation while the user types.
func (f *Form) Input(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.field(name); ok {
		f.state[name] = FieldState{Status: enum.UNTOUCHED, Value: value}
	}
}

// Submit validates every field. On failure the annotations stay and
// ErrInvalid is returned; on success the form turns busy until Done.
func (f *Form) Submit(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy {
		return ErrBusy
	}

	valid := true
	for _, field := range f.fields {
		state := f.evaluate(field, values[field.Name])
		f.state[field.Name] = state
		if state.Status == enum.INVALID {
			valid = false
		}
	}
	if !valid {
		return ErrInvalid
	}
	f.busy = true
	return nil
}

// Fail marks a field invalid with a message found outside the field rules,
// e.g. a server-side check, and re-enables submission.
func (f *Form) Fail(name, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.state[name]
	f.state[name] = FieldState{Status: enum.INVALID, Message: message, Value: state.Value}
	f.busy = false
}

// Done re-enables submission.
func (f *Form) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
}

func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

func (f *Form) State(name string) FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[name]
}

// States returns a copy of every field's state keyed by name, the shape the
// templates read.
func (f *Form) States() map[string]FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]FieldState, len(f.state))
	for k, v := range f.state {
		out[k] = v
	}
	return out
}

// Errors lists the invalid fields' messages keyed by name.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string)
	for k, v := range f.state {
		if v.Status == enum.INVALID {
			out[k] = v.Message
		}
	}
	return out
}

// FormatPhone groups digits as "(123) 456-7890" while they are typed.
// Non-digits are dropped; digits past the tenth are appended unformatted.
func FormatPhone(value string) string {
	var sb strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	d := sb.String()

	switch {
	case len(d) >= 6:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	case len(d) >= 3:
		return "(" + d[:3] + ") " + d[3:]
	}
	return d
}

func NormalizeCampusID(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
