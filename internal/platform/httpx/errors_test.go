package httpx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-io/gatehouse/internal/platform/httpx"
	"github.com/gatehouse-io/gatehouse/internal/shared"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{shared.ErrInvalidToken, http.StatusUnauthorized},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{shared.ErrAccountNotApproved, http.StatusForbidden},
		{shared.ErrForbidden, http.StatusForbidden},
		{shared.ErrIdentityNotFound, http.StatusNotFound},
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrDuplicateEmail, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		res := httptest.NewRecorder()
		httpx.RespondError(res, tc.err)
		assert.Equal(t, tc.status, res.Code, "error %v", tc.err)
		assert.Equal(t, "application/json", res.Header().Get("Content-Type"))

		var problem httpx.ProblemDetail
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &problem), "error %v", tc.err)
		assert.Equal(t, tc.status, problem.Status)
		assert.NotEmpty(t, problem.Title)
	}
}

func TestRespondErrorUnwrapsWrappedSentinels(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, fmt.Errorf("%w: user 42", shared.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, errors.New("pq: connection refused"))

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &problem))
	assert.Empty(t, problem.Detail)
}
