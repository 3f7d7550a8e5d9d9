package enum

type EnvEnum string

const (
	DEVELOPMENT EnvEnum = "development"
	PRODUCTION  EnvEnum = "production"
	STAGING     EnvEnum = "staging"
	TEST        EnvEnum = "test"
)

func (e EnvEnum) ToString() string {
	return string(e)
}

func (e EnvEnum) IsValid() bool {
	switch e {
	case DEVELOPMENT, PRODUCTION, STAGING, TEST:
		return true
	}
	return false
}

// Debug reports whether responses may carry debug details.
func (e EnvEnum) Debug() bool {
	return e == DEVELOPMENT || e == TEST
}
