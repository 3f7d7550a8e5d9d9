package enum

type ItemTypeEnum string

const (
	LOST  ItemTypeEnum = "lost"
	FOUND ItemTypeEnum = "found"
)

func (e ItemTypeEnum) ToString() string {
	switch e {
	case LOST:
		return "lost"
	case FOUND:
		return "found"
	}
	return ""
}

func (e ItemTypeEnum) IsValid() bool {
	switch e {
	case LOST, FOUND:
		return true
	}
	return false
}

// Title is used in flash messages, e.g. "Lost item reported successfully!".
func (e ItemTypeEnum) Title() string {
	switch e {
	case LOST:
		return "Lost"
	case FOUND:
		return "Found"
	}
	return ""
}

type ItemStatusEnum string

const (
	ACTIVE   ItemStatusEnum = "active"
	RESOLVED ItemStatusEnum = "resolved"
)

func (e ItemStatusEnum) ToString() string {
	switch e {
	case ACTIVE:
		return "active"
	case RESOLVED:
		return "resolved"
	}
	return ""
}

func (e ItemStatusEnum) IsValid() bool {
	switch e {
	case ACTIVE, RESOLVED:
		return true
	}
	return false
}
