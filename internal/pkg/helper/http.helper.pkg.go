package helper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"lostfound/internal/common/enum"
	_type "lostfound/internal/common/type"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"
)

type HTTPAPIResponse struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	Data       interface{} `json:"data"`
}

// OK reports a 2xx status.
func (r *HTTPAPIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type HTTPRequestPayload struct {
	Method enum.HTTPMethodEnum
	URL    string
	Body   interface{}
	Params map[string]string
}

type HTTPRequestConfig struct {
	Ctx     context.Context
	Headers http.Header
	Client  *http.Client
}

var defaultClient = &http.Client{Timeout: 1 * time.Minute}

func HTTPRequest(
	payload *HTTPRequestPayload,
	config *HTTPRequestConfig,
) (*HTTPAPIResponse, error) {
	if config.Headers == nil {
		config.Headers = http.Header{}
	}
	if config.Ctx == nil {
		config.Ctx = context.Background()
	}

	requestBody, err := handleRequestBody(payload, config)
	if err != nil {
		return nil, err
	}

	req, err := prepareRequest(payload, requestBody, config)
	if err != nil {
		return nil, err
	}

	client := config.Client
	if client == nil {
		client = defaultClient
	}
	return executeRequest(req, client)
}

func handleRequestBody(payload *HTTPRequestPayload, config *HTTPRequestConfig) (io.Reader, error) {
	if payload.Method == enum.GET {
		return nil, nil
	}

	switch config.Headers.Get("Content-Type") {
	case enum.ApplicationXform.ToString():
		if payload.Body == nil {
			return nil, nil
		}
		return createFormURLEncodedBody(payload.Body)
	case enum.MultipartForm.ToString():
		if payload.Body == nil {
			return nil, nil
		}
		body, ct, err := createMultipartBody(payload.Body)
		if err != nil {
			return nil, err
		}
		config.Headers.Set("Content-Type", ct)
		return body, nil
	case enum.ApplicationJSON.ToString():
		return createJSONBody(payload.Body)
	case "":
		config.Headers.Set("Content-Type", enum.ApplicationJSON.ToString())
		return createJSONBody(payload.Body)
	default:
		return nil, errors.New("unsupported content type")
	}
}

func prepareRequest(payload *HTTPRequestPayload, body io.Reader, config *HTTPRequestConfig) (*http.Request, error) {
	target := payload.URL
	if len(payload.Params) > 0 {
		u, err := url.Parse(target)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for k, v := range payload.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(config.Ctx, payload.Method.ToString(), target, body)
	if err != nil {
		return nil, err
	}

	for key, values := range config.Headers {
		req.Header[key] = append(req.Header[key], values...)
	}

	return req, nil
}

func executeRequest(req *http.Request, client *http.Client) (*HTTPAPIResponse, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result, err := parseResponseBody(resp)
	if err != nil {
		return nil, err
	}

	return &HTTPAPIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Data:       result,
	}, nil
}

func parseResponseBody(resp *http.Response) (interface{}, error) {
	contentType := resp.Header.Get("Content-Type")
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.Contains(contentType, "application/json"):
		var result interface{}
		if len(responseBody) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(responseBody, &result); err != nil {
			return nil, err
		}
		return result, nil
	case strings.HasPrefix(contentType, "text/"):
		return string(responseBody), nil
	default:
		return responseBody, nil
	}
}

func createJSONBody(body interface{}) (io.Reader, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(jsonData), nil
}

func createFormURLEncodedBody(body interface{}) (io.Reader, error) {
	formData, ok := body.(map[string]string)
	if !ok {
		return nil, errors.New("body must be a map[string]string for form-urlencoded content type")
	}
	values := url.Values{}
	for key, value := range formData {
		values.Set(key, value)
	}
	return strings.NewReader(values.Encode()), nil
}

// createMultipartBody writes fields in key order so payloads are
// reproducible. Files go out as one part per file under their key.
func createMultipartBody(body interface{}) (io.Reader, string, error) {
	formData, ok := body.(map[string]interface{})
	if !ok {
		return nil, "", errors.New("body must be a map[string]interface{} for multipart/form-data content type")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(formData))
	for key := range formData {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := formData[key].(type) {
		case string:
			if err := writer.WriteField(key, v); err != nil {
				return nil, "", err
			}
		case []byte:
			part, err := writer.CreateFormFile(key, key)
			if err != nil {
				return nil, "", err
			}
			if _, err = part.Write(v); err != nil {
				return nil, "", err
			}
		case []_type.BufferedFile:
			for i := range v {
				if err := writeFilePart(writer, key, &v[i]); err != nil {
					return nil, "", err
				}
			}
		case _type.BufferedFile:
			if err := writeFilePart(writer, key, &v); err != nil {
				return nil, "", err
			}
		default:
			return nil, "", fmt.Errorf("unsupported multipart data type %T for %q", v, key)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, key string, f *_type.BufferedFile) error {
	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, key, f.OriginalName)},
		"Content-Type":        []string{mimeType},
	})
	if err != nil {
		return err
	}
	_, err = part.Write(f.Buffer)
	return err
}
