package types

import "time"

type Response struct {
	Data    any
	Message string
	Code    int
	Error   error
}

type ResponseAPIDebug struct {
	RequestID string    `json:"requestId,omitempty"`
	Version   string    `json:"version,omitempty"`
	Error     *string   `json:"error,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	RuntimeMs int64     `json:"runtimeMs"`
}

type ResponseAPI struct {
	Data    any               `json:"data"`
	Message string            `json:"message"`
	Debug   *ResponseAPIDebug `json:"debug,omitempty"`
}

// Flash is a one-shot page message, category is "success", "error" or "info".
type Flash struct {
	Category string
	Message  string
}
