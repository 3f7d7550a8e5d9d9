package enum

import "strings"

type HTTPContentTypeEnum string

const (
	ApplicationJSON  HTTPContentTypeEnum = "application/json"
	ApplicationXform HTTPContentTypeEnum = "application/x-www-form-urlencoded"
	MultipartForm    HTTPContentTypeEnum = "multipart/form-data"
)

func (e HTTPContentTypeEnum) ToString() string {
	switch e {
	case ApplicationJSON, ApplicationXform, MultipartForm:
		return string(e)
	default:
		return ""
	}
}

// Accepts reports whether an Accept or Content-Type header mentions e.
func (e HTTPContentTypeEnum) Accepts(header string) bool {
	return e != "" && strings.Contains(header, string(e))
}
