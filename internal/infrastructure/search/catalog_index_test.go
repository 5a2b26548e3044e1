package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHitsFillsMissingIDs(t *testing.T) {
	body := `{"hits":{"hits":[
		{"_id":"a","_source":{"id":"a","name":"Paracetamol","indications":["fever"]}},
		{"_id":"b","_source":{"name":"Ibuprofen"}}
	]}}`

	got, err := decodeHits(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Paracetamol", got[0].Name)
	assert.Equal(t, []string{"fever"}, got[0].Indications)
	assert.Equal(t, "b", got[1].ID)
}

func TestSearchQueryBoostsName(t *testing.T) {
	q := searchQuery("para", 5)
	assert.Equal(t, 5, q["size"])
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "para", mm["query"])
	assert.Contains(t, mm["fields"], "name^3")
}

func TestSearchSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	}))
	defer srv.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}, MaxRetries: 0, DisableRetry: true})
	require.NoError(t, err)

	_, err = NewCatalogIndex(es, "global_medicines").Search(context.Background(), "para", 5)
	assert.Error(t, err)
}
