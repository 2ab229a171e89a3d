package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
)

func TestRecover(t *testing.T) {
	boom := errors.New("boom")

	tcs := []struct {
		name  string
		env   switchback.Environment
		panic any
		err   error
	}{
		{"Error", switchback.Development, boom, boom},
		{"Not-Error", switchback.Development, "boom", switchback.ErrUnexpected},
		{"Reported", switchback.Testing, boom, boom},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			rec := new(recorder)
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			h := middleware.Recover(tc.env, rec)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic(tc.panic)
			}))

			// Act
			require.NotPanics(t, func() { h.ServeHTTP(w, r) })

			// Assert
			require.Equal(t, http.StatusInternalServerError, w.Code)
			require.Len(t, rec.records, 1)
			require.ErrorIs(t, rec.records[0].ctx.Error, tc.err)
		})
	}
}
