package page

import (
	"html/template"
	"lostfound/internal/service/form"
	"time"
)

// FieldView is what the "field" partial renders.
type FieldView struct {
	Name     string
	Label    string
	Type     string
	Class    string
	Value    string
	Message  string
	Required bool
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"field": fieldView,
		"date":  formatDate,
		"add":   func(a, b int) int { return a + b },
	}
}

// fieldView joins a field's state with its markup. Password values are
// never echoed back.
func fieldView(states map[string]form.FieldState, name, label, typ string, required bool) FieldView {
	state := states[name]
	view := FieldView{
		Name:     name,
		Label:    label,
		Type:     typ,
		Class:    state.Class(),
		Value:    state.Value,
		Message:  state.Message,
		Required: required,
	}
	if typ == "password" {
		view.Value = ""
	}
	return view
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}
