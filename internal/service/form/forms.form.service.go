package form

import "lostfound/internal/common/enum"

// Field sets of the pages. Each request builds a fresh Form from these.

func RegisterFields() []Field {
	return []Field{
		{Name: "name", Label: "Full name", Kind: enum.TEXT, Required: true},
		{Name: "campus_id", Label: "Campus ID", Kind: enum.CAMPUSID, Required: true},
		{Name: "email", Label: "Email", Kind: enum.EMAIL, Required: true},
		{Name: "department", Label: "Department", Kind: enum.TEXT},
		{Name: "phone", Label: "Phone", Kind: enum.PHONE, Required: true},
		{Name: "password", Label: "Password", Kind: enum.PASSWORD, Required: true},
	}
}

func LoginFields() []Field {
	return []Field{
		{Name: "identifier", Label: "Campus ID or email", Kind: enum.TEXT, Required: true},
		{Name: "password", Label: "Password", Kind: enum.TEXT, Required: true},
	}
}

func ReportFields() []Field {
	return []Field{
		{Name: "title", Label: "Title", Kind: enum.TEXT, Required: true},
		{Name: "description", Label: "Description", Kind: enum.TEXT, Required: true},
		{Name: "contact_phone", Label: "Contact phone", Kind: enum.PHONE, Required: true},
	}
}

func VerifyEmailFields() []Field {
	return []Field{
		{Name: "email", Label: "Email", Kind: enum.EMAIL, Required: true},
		{Name: "code", Label: "Verification code", Kind: enum.TEXT, Required: true},
	}
}

func PhoneFields() []Field {
	return []Field{
		{Name: "phone", Label: "Phone", Kind: enum.PHONE, Required: true},
	}
}

func PhoneCodeFields() []Field {
	return []Field{
		{Name: "phone", Label: "Phone", Kind: enum.PHONE, Required: true},
		{Name: "code", Label: "Verification code", Kind: enum.TEXT, Required: true},
	}
}

func ResetPasswordFields() []Field {
	return []Field{
		{Name: "password", Label: "New password", Kind: enum.PASSWORD, Required: true},
	}
}
