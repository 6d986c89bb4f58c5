package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "records-system/pkg/errors"
)

func apperrorsNotFound() error { return apperrors.ErrNotFound }

func requireHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr, "ожидалась HttpError, получено: %v", err)
	assert.Equal(t, code, httpErr.Code, "сообщение: %s", httpErr.Message)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(s)), sub)
}
