package steamlang

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithHeaders(headers map[string]string) *http.Response {
	response := &http.Response{Header: make(http.Header)}
	for key, value := range headers {
		response.Header.Set(key, value)
	}
	return response
}

func TestEnsureEResultResponse(t *testing.T) {
	t.Run("no header is success", func(t *testing.T) {
		assert.NoError(t, EnsureEResultResponse(responseWithHeaders(nil)))
	})

	t.Run("OK result is success", func(t *testing.T) {
		assert.NoError(t, EnsureEResultResponse(responseWithHeaders(map[string]string{"X-Eresult": "1"})))
	})

	t.Run("non-OK result carries message", func(t *testing.T) {
		err := EnsureEResultResponse(responseWithHeaders(map[string]string{
			"X-Eresult":       "15",
			"X-Error_message": "nope",
		}))
		require.Error(t, err)

		var resultErr *EResultError
		require.True(t, errors.As(err, &resultErr))
		assert.Equal(t, AccessDeniedResult, resultErr.Result)
		assert.Equal(t, "nope", resultErr.Message)
		assert.Contains(t, err.Error(), "AccessDenied")
	})
}

func TestEResultString(t *testing.T) {
	assert.Equal(t, "Timeout", TimeoutResult.String())
	assert.Equal(t, "EResult(999)", EResult(999).String())
}
