package enum

// FieldKindEnum selects the rule a form field is checked against.
type FieldKindEnum string

const (
	TEXT     FieldKindEnum = "text"
	EMAIL    FieldKindEnum = "email"
	CAMPUSID FieldKindEnum = "campusid"
	PHONE    FieldKindEnum = "phone"
	PASSWORD FieldKindEnum = "password"
)

func (e FieldKindEnum) ToString() string {
	switch e {
	case TEXT:
		return "text"
	case EMAIL:
		return "email"
	case CAMPUSID:
		return "campusid"
	case PHONE:
		return "phone"
	case PASSWORD:
		return "password"
	}
	return ""
}

func (e FieldKindEnum) IsValid() bool {
	switch e {
	case TEXT, EMAIL, CAMPUSID, PHONE, PASSWORD:
		return true
	}
	return false
}

type ValidationStatusEnum string

const (
	UNTOUCHED ValidationStatusEnum = "untouched"
	VALID     ValidationStatusEnum = "valid"
	INVALID   ValidationStatusEnum = "invalid"
)

func (e ValidationStatusEnum) ToString() string {
	return string(e)
}

// CSSClass mirrors the bootstrap classes the templates use.
func (e ValidationStatusEnum) CSSClass() string {
	switch e {
	case VALID:
		return "is-valid"
	case INVALID:
		return "is-invalid"
	}
	return ""
}
