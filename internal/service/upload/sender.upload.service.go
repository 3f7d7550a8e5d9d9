package upload

import (
	"context"
	"fmt"
	"lostfound/internal/common/enum"
	"lostfound/internal/pkg/helper"
	"net/http"
)

// Sender delivers a submitted payload and returns the acknowledgment text.
type Sender interface {
	Send(ctx context.Context, payload Payload) (string, error)
}

type SenderFunc func(ctx context.Context, payload Payload) (string, error)

func (f SenderFunc) Send(ctx context.Context, payload Payload) (string, error) {
	return f(ctx, payload)
}

// HTTPSender posts the payload as multipart/form-data, one photos part per
// file.
type HTTPSender struct {
	URL     string
	Headers http.Header
	Client  *http.Client
}

func (s *HTTPSender) Send(ctx context.Context, payload Payload) (string, error) {
	body := make(map[string]interface{}, len(payload.Fields)+1)
	for k, v := range payload.Fields {
		body[k] = v
	}
	body[enum.PhotoField] = payload.Files

	headers := s.Headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	headers.Set("Content-Type", enum.MultipartForm.ToString())
	headers.Set("Accept", enum.ApplicationJSON.ToString())

	resp, err := helper.HTTPRequest(&helper.HTTPRequestPayload{
		Method: enum.POST,
		URL:    s.URL,
		Body:   body,
	}, &helper.HTTPRequestConfig{
		Ctx:     ctx,
		Headers: headers,
		Client:  s.Client,
	})
	if err != nil {
		return "", fmt.Errorf("post %s: %w", s.URL, err)
	}

	ack := acknowledgment(resp.Data)
	if !resp.OK() {
		return "", fmt.Errorf("post %s: status %d: %s", s.URL, resp.StatusCode, ack)
	}
	return ack, nil
}

// acknowledgment pulls a message out of a JSON response, or returns a
// plain-text body as is.
func acknowledgment(data interface{}) string {
	switch v := data.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case map[string]interface{}:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
		text, _ := helper.JSONToString(v)
		return text
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
