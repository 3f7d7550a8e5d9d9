package helper

func StringPtr(s string) *string {
	return &s
}
