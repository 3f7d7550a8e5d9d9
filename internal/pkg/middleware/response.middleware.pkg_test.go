package middleware

import (
	"encoding/json"
	"errors"
	_type "lostfound/internal/common/type"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendEngine(r *_type.Response) *gin.Engine {
	e := gin.New()
	e.Use(RequestInit(), ResponseInit())
	e.GET("/", func(c *gin.Context) {
		send := c.MustGet("send").(func(r *_type.Response))
		send(r)
	})
	return e
}

func serve(t *testing.T, e *gin.Engine, header http.Header) (*httptest.ResponseRecorder, _type.ResponseAPI) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body _type.ResponseAPI
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestResponseInit_Messages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		response _type.Response
		wantCode int
		wantMsg  string
	}{
		{"ok default", _type.Response{}, http.StatusOK, "Success"},
		{"explicit message", _type.Response{Code: http.StatusCreated, Message: "Created it"}, http.StatusCreated, "Created it"},
		{"client error text", _type.Response{Code: http.StatusBadRequest, Error: errors.New("title is required")}, http.StatusBadRequest, "title is required"},
		{"client error no cause", _type.Response{Code: http.StatusNotFound}, http.StatusNotFound, "Not Found"},
		{"server error hidden", _type.Response{Code: http.StatusInternalServerError, Error: errors.New("db down")}, http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.response
			rec, body := serve(t, sendEngine(&r), nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Nil(t, body.Debug)
		})
	}
}

func TestResponseInit_DebugCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.DebugMode)
	defer gin.SetMode(gin.TestMode)

	rec, body := serve(t, sendEngine(&_type.Response{Code: http.StatusInternalServerError, Error: errors.New("db down")}),
		http.Header{RequestIDHeader: []string{"req-42"}})

	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	require.NotNil(t, body.Debug)
	assert.Equal(t, "req-42", body.Debug.RequestID)
	assert.Equal(t, "1.0.0", body.Debug.Version)
	require.NotNil(t, body.Debug.Error)
	assert.Equal(t, "db down", *body.Debug.Error)
	assert.False(t, body.Debug.EndTime.Before(body.Debug.StartTime))
}
