// Package search answers catalog queries. With Elasticsearch configured it
// ranks by full-text relevance; otherwise it degrades to SQL pattern
// matching against the same product table.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/stubapi/models"
)

const productIndex = "products"

type Results struct {
	Total int64
	Items []models.Product
}

type ProductSearch struct {
	DB *gorm.DB
	ES *elasticsearch.Client
}

// NewESClient connects to Elasticsearch and verifies the cluster responds.
func NewESClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es error: %s: %s", res.Status(), body)
	}

	return client, nil
}

// IndexProduct mirrors a product document into the search index. Called at
// seed time; a nil ES client makes it a no-op.
func (s *ProductSearch) IndexProduct(ctx context.Context, p *models.Product) error {
	if s.ES == nil {
		return nil
	}

	doc, err := json.Marshal(map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"brand":       p.Brand,
	})
	if err != nil {
		return err
	}

	res, err := s.ES.Index(productIndex, bytes.NewReader(doc),
		s.ES.Index.WithDocumentID(p.ID.String()),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search returns products matching the query, optionally narrowed to a
// category, with offset/limit pagination.
func (s *ProductSearch) Search(ctx context.Context, query, category string, offset, limit int) (Results, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query = strings.TrimSpace(query)

	if query != "" && s.ES != nil {
		return s.searchES(ctx, query, category, offset, limit)
	}
	return s.searchSQL(ctx, query, category, offset, limit)
}

func (s *ProductSearch) searchSQL(ctx context.Context, query, category string, offset, limit int) (Results, error) {
	tx := s.DB.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return Results{}, err
	}

	items := make([]models.Product, 0, limit)
	if err := tx.Order("name").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return Results{}, err
	}
	return Results{Total: total, Items: items}, nil
}

func (s *ProductSearch) searchES(ctx context.Context, query, category string, offset, limit int) (Results, error) {
	must := []map[string]any{
		{"multi_match": map[string]any{
			"query":  query,
			"fields": []string{"name^3", "brand^2", "description"},
		}},
	}
	if category != "" {
		must = append(must, map[string]any{"term": map[string]any{"category": category}})
	}

	body, err := json.Marshal(map[string]any{
		"from":  offset,
		"size":  limit,
		"query": map[string]any{"bool": map[string]any{"must": must}},
	})
	if err != nil {
		return Results{}, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(productIndex),
		s.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return Results{}, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Results{}, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Results{}, fmt.Errorf("es decode: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return Results{Total: parsed.Hits.Total.Value, Items: []models.Product{}}, nil
	}

	var found []models.Product
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return Results{}, err
	}

	// Keep ES relevance order.
	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}

	return Results{Total: parsed.Hits.Total.Value, Items: items}, nil
}
