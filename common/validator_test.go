package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=5"`
}

func newJSONRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"valid", `{"email":"a@b.com","name":"abc"}`, nil},
		{"malformed json", `{"email":`, []string{"Invalid request body"}},
		{"missing email", `{"name":"abc"}`, []string{"email is required."}},
		{
			"bad email and long name",
			`{"email":"nope","name":"abcdefgh"}`,
			[]string{"email must be a valid email address.", "name must be at most 5 characters long."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p samplePayload
			assert.Equal(t, tt.want, DecodeAndValidate(newJSONRequest(tt.body), &p))
		})
	}
}

func TestValidateAndDecode(t *testing.T) {
	var p samplePayload
	appErr := ValidateAndDecode(newJSONRequest(`{}`), &p)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, "email is required.", appErr.Message)
	}

	assert.Nil(t, ValidateAndDecode(newJSONRequest(`{"email":"a@b.com"}`), &p))
}

func TestAppError_Send(t *testing.T) {
	rr := httptest.NewRecorder()
	NewAppError(http.StatusNotFound, "Post not found", nil).Send(rr)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":404,"message":"Post not found"}`, rr.Body.String())
}
