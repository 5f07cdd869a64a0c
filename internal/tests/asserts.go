package tests

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorResponse checks status and the standard {"errors": [...]} body.
func AssertErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder, status int, messages []string) {
	t.Helper()

	assert.Equal(t, status, recorder.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, messages, body.Errors)
}
