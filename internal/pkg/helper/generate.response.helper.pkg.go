package helper

import (
	_type "lostfound/internal/common/type"
	"net/http"
)

func ParseResponse(r *_type.Response) *_type.Response {
	if r.Code == 0 {
		r.Code = http.StatusOK
	}
	if r.Code < 200 || r.Code >= 599 {
		r.Code = http.StatusInternalServerError
	}
	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
		if r.Code == http.StatusOK {
			r.Message = "Success"
		}
	}
	return r
}
