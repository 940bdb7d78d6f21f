package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hostly/shared/constant"
	"hostly/shared/failure"
	"hostly/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "failure keeps code and message",
			err:  failure.Conflict("room is already booked for these dates"),
			code: http.StatusConflict,
			body: `{"error":"room is already booked for these dates"}`,
		},
		{
			name: "wrapped failure",
			err:  errors.Join(errors.New("context"), failure.NotFound("booking")),
			code: http.StatusNotFound,
			body: `{"error":"booking"}`,
		},
		{
			name: "infrastructure error is masked",
			err:  errors.New("pq: connection refused"),
			code: http.StatusInternalServerError,
			body: `{"error":"` + constant.ResponseErrorInternal + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
		})
	}
}

func TestWithJSONAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "BKG-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"BKG-1"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	response.WithMessage(rec, http.StatusOK, "Booking cancelled successfully")

	assert.JSONEq(t, `{"message":"Booking cancelled successfully"}`, rec.Body.String())
}

func TestWithFile(t *testing.T) {
	rec := httptest.NewRecorder()
	content := []byte("PK\x03\x04")

	response.WithFile(rec, constant.ContentTypeXLSX, "report-2024-01.xlsx", content)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypeXLSX, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, `attachment; filename="report-2024-01.xlsx"`, rec.Header().Get(constant.RequestHeaderContentDisposition))
	assert.Equal(t, "4", rec.Header().Get(constant.RequestHeaderContentLength))
	assert.Equal(t, content, rec.Body.Bytes())
}

func TestDefaultResponses(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithRequestLimitExceeded(rec)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	response.WithPreparingShutdown(rec)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
