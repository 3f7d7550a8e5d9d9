package enum

type HTTPMethodEnum string

const (
	GET    HTTPMethodEnum = "GET"
	POST   HTTPMethodEnum = "POST"
	PUT    HTTPMethodEnum = "PUT"
	DELETE HTTPMethodEnum = "DELETE"
)

func (e HTTPMethodEnum) ToString() string {
	switch e {
	case GET, POST, PUT, DELETE:
		return string(e)
	default:
		return ""
	}
}
