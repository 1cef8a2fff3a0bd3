// Package search keeps an Elasticsearch index of friends for name and notes
// lookups.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

const (
	DefaultIndex   = "friends"
	requestTimeout = 3 * time.Second
	maxSize        = 50
)

type FriendIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

// NewFriendIndex returns nil when es is nil.
func NewFriendIndex(es *elasticsearch.Client, index string) *FriendIndex {
	if es == nil {
		return nil
	}
	if index == "" {
		index = DefaultIndex
	}
	return &FriendIndex{ES: es, IndexName: index}
}

type friendDoc struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Notes       string `json:"notes,omitempty"`
	DateOfBirth string `json:"date_of_birth"`
	UpdatedAt   string `json:"updated_at"`
}

func newFriendDoc(f entity.Friend) friendDoc {
	doc := friendDoc{
		ID:          f.ID,
		OwnerID:     f.UserID,
		Name:        f.Name,
		DateOfBirth: birthday.FormatDate(f.DateOfBirth),
		UpdatedAt:   f.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if f.Notes != nil {
		doc.Notes = *f.Notes
	}
	return doc
}

// indexMapping keeps owner_id exact so the owner filter is a term match.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "owner_id":      {"type": "keyword"},
      "name":          {"type": "text"},
      "notes":         {"type": "text"},
      "date_of_birth": {"type": "date", "format": "yyyy-MM-dd"},
      "updated_at":    {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *FriendIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{x.IndexName}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: x.IndexName, Body: strings.NewReader(indexMapping)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 400 here is a concurrent create (resource_already_exists_exception).
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("es create index %s: %s", x.IndexName, res.Status())
	}
	return nil
}

func (x *FriendIndex) Index(ctx context.Context, f entity.Friend) error {
	b, err := json.Marshal(newFriendDoc(f))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: f.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", f.ID, res.Status())
	}
	return nil
}

// Remove deletes the document. A missing document is not an error.
func (x *FriendIndex) Remove(ctx context.Context, _ string, id string) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a fuzzy multi_match over name and notes restricted to userID's
// documents and returns ids by score.
func (x *FriendIndex) Search(ctx context.Context, userID, query string, size int) ([]string, error) {
	if size <= 0 || size > maxSize {
		size = 10
	}
	b, err := json.Marshal(searchQuery(userID, query, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		// Index not created yet: nothing has been indexed for anyone.
		if res.StatusCode == 404 {
			return []string{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func searchQuery(userID, query string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"owner_id": userID}},
				},
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "notes"},
						"fuzziness": "AUTO",
					},
				},
			},
		},
		"size": size,
	}
}
