package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

// CatalogIndex stores catalog entries as Elasticsearch documents keyed by id.
type CatalogIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewCatalogIndex(es *elasticsearch.Client, index string) *CatalogIndex {
	return &CatalogIndex{ES: es, IndexName: index}
}

func (c *CatalogIndex) Index(ctx context.Context, g *entity.GlobalMedicine) error {
	b, err := json.Marshal(g)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: c.IndexName, DocumentID: g.ID, Body: bytes.NewReader(b), Refresh: "false"}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(ctx, c.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (c *CatalogIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: c.IndexName, DocumentID: id}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(ctx, c.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// searchQuery matches names with typo tolerance and boosts the primary name.
func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "brand_name^2", "generic_name^2", "category", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
}

func (c *CatalogIndex) Search(ctx context.Context, q string, limit int) ([]entity.GlobalMedicine, error) {
	b, err := json.Marshal(searchQuery(q, limit))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := c.ES.Search(
		c.ES.Search.WithContext(ctx),
		c.ES.Search.WithIndex(c.IndexName),
		c.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}
	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]entity.GlobalMedicine, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                `json:"_id"`
				Source entity.GlobalMedicine `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.GlobalMedicine, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		g := h.Source
		if g.ID == "" {
			g.ID = h.ID
		}
		out = append(out, g)
	}
	return out, nil
}

var _ application.CatalogIndex = (*CatalogIndex)(nil)
