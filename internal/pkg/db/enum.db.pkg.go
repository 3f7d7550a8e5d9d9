package database

type DirectionEnum string

const (
	ASC  DirectionEnum = "asc"
	DESC DirectionEnum = "desc"
)

func (e DirectionEnum) ToString() string {
	switch e {
	case ASC, DESC:
		return string(e)
	}
	return ""
}

func (e DirectionEnum) IsValid() bool {
	return e == ASC || e == DESC
}

// Newest orders a time or id column newest first.
func Newest(field string) OrderField {
	return OrderField{Field: field, Direction: DESC}
}
