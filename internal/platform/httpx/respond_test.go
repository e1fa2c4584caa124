package httpx

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body decodes", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"asha"}`))
		var p payload
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &p))
		require.Equal(t, "asha", p.Name)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"asha","extra":1}`))
		var p payload
		require.Error(t, DecodeJSON(httptest.NewRecorder(), r, &p))
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		big := `{"name":"` + strings.Repeat("x", maxBodySize) + `"}`
		r := httptest.NewRequest("POST", "/", strings.NewReader(big))
		var p payload
		require.Error(t, DecodeJSON(httptest.NewRecorder(), r, &p))
	})
}
