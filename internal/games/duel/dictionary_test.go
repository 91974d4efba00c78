package duel

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/apple":
			w.WriteHeader(http.StatusOK)
		case "/zzzzz":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	checker := NewDictionaryCheckerWithURL(srv.URL)

	ok, err := checker.IsValidWord("apple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.IsValidWord("zzzzz")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = checker.IsValidWord("boom")
	require.Error(t, err)
}
