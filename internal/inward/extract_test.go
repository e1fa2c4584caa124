package inward

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

func TestExtractPO(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	fields := `{"supplier_name":"BLUE HILLS AGRO","po_number":"PO-881","total_amount":125000.5,` +
		`"articles":[{"item_description":"ALMOND FLAKES","po_weight":500}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req extractRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "application/pdf", req.MediaType)
		require.Equal(t, base64.StdEncoding.EncodeToString(pdf), req.Document)

		// The backend wraps its answer in a markdown fence.
		_ = json.NewEncoder(w).Encode(map[string]string{
			"result": "```json\n" + fields + "\n```",
		})
	}))
	defer server.Close()

	client := NewExtractClient(server.URL, "sk-test")
	extraction, err := client.ExtractPO(context.Background(), pdf)
	require.NoError(t, err)
	require.Equal(t, "BLUE HILLS AGRO", *extraction.SupplierName)
	require.Equal(t, "PO-881", *extraction.PONumber)
	require.Equal(t, 125000.5, *extraction.TotalAmount)
	require.Len(t, extraction.Articles, 1)
	require.Equal(t, 500.0, *extraction.Articles[0].POWeight)
}

func TestExtractPOBadResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"result": "sorry, not a document"})
	}))
	defer server.Close()

	client := NewExtractClient(server.URL, "sk-test")
	_, err := client.ExtractPO(context.Background(), []byte("x"))
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestStripFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
