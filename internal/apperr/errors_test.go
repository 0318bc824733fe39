package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, KindInvalidInput.HTTPStatus())
	require.Equal(t, http.StatusUnauthorized, KindUnauthorized.HTTPStatus())
	require.Equal(t, http.StatusForbidden, KindForbidden.HTTPStatus())
	require.Equal(t, http.StatusNotFound, KindNotFound.HTTPStatus())
	require.Equal(t, http.StatusConflict, KindConflict.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, KindInternal.HTTPStatus())
}

func TestWrapPassesDomainErrorsThrough(t *testing.T) {
	orig := Conflict("Username already exists")
	require.Same(t, orig, Wrap(orig))

	wrapped := Wrap(fmt.Errorf("pq: connection refused"))
	require.Equal(t, KindInternal, wrapped.Kind)
	require.Equal(t, "Internal server error", wrapped.Message)
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("Player not found"))
	require.True(t, errors.Is(err, NotFound("")))
	require.False(t, errors.Is(err, Conflict("")))
	require.Equal(t, KindNotFound, KindOf(err))
}
