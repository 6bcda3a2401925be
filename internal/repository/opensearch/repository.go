package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/repository"
)

// noteDocument is the indexed shape of a note.
type noteDocument struct {
	ID         string    `json:"id"`
	TenantSlug string    `json:"tenant_slug"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	Pinned     bool      `json:"pinned"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toDocument(note *domain.Note) noteDocument {
	return noteDocument{
		ID:         note.ID,
		TenantSlug: note.TenantSlug,
		UserID:     note.UserID,
		Title:      note.Title,
		Content:    note.Content,
		Category:   note.Category,
		Tags:       note.Tags,
		Pinned:     note.Pinned,
		UpdatedAt:  note.UpdatedAt,
	}
}

type searchRepository struct {
	client *opensearch.Client
	config *config.OpenSearchConfig
}

func NewRepository(client *opensearch.Client, config *config.OpenSearchConfig) repository.SearchRepository {
	return &searchRepository{
		client: client,
		config: config,
	}
}

// IndexNote upserts the note document. The tenant index must already exist; the index
// worker ensures it once per tenant.
func (r *searchRepository) IndexNote(ctx context.Context, note *domain.Note) error {
	data, err := json.Marshal(toDocument(note))
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      r.config.GetIndexName(note.TenantSlug),
		DocumentID: note.ID,
		Body:       strings.NewReader(string(data)),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

func (r *searchRepository) DeleteNote(ctx context.Context, tenantSlug, noteID string) error {
	req := opensearchapi.DeleteRequest{
		Index:      r.config.GetIndexName(tenantSlug),
		DocumentID: noteID,
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close()

	// Already gone is fine.
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error deleting document: %s", res.String())
	}

	return nil
}

func (r *searchRepository) DeleteUserNotes(ctx context.Context, tenantSlug, userID string) error {
	body, err := json.Marshal(map[string]any{
		"query": createTermQuery("user_id", userID),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.DeleteByQueryRequest{
		Index: []string{r.config.GetIndexName(tenantSlug)},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to delete user documents: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error deleting user documents: %s", res.String())
	}

	return nil
}

func (r *searchRepository) SearchNoteIDs(ctx context.Context, filter domain.NoteFilter) ([]string, int64, error) {
	if filter.TenantSlug == "" {
		return nil, 0, fmt.Errorf("tenant_slug is required")
	}

	queryJSON, err := json.Marshal(buildSearchQuery(filter))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{r.config.GetIndexName(filter.TenantSlug)},
		Body:  strings.NewReader(string(queryJSON)),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// No index yet means the tenant has never had a note indexed.
		if res.StatusCode == http.StatusNotFound {
			return []string{}, 0, nil
		}
		return nil, 0, fmt.Errorf("search request failed: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	ids := make([]string, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		ids = append(ids, hit.ID)
	}

	return ids, searchResult.Hits.Total.Value, nil
}

// buildSearchQuery matches q against title, content and tags, and applies the
// structured filters as non-scoring clauses.
func buildSearchQuery(filter domain.NoteFilter) map[string]any {
	filters := []map[string]any{
		createTermQuery("tenant_slug", filter.TenantSlug),
	}

	exactMatches := map[string]string{
		"user_id":  filter.UserID,
		"category": filter.Category,
		"tags":     filter.Tag,
	}
	for field, value := range exactMatches {
		if value != "" {
			filters = append(filters, createTermQuery(field, value))
		}
	}
	if filter.Pinned != nil {
		filters = append(filters, map[string]any{"term": map[string]any{"pinned": *filter.Pinned}})
	}
	if !filter.UpdatedAfter.IsZero() || !filter.UpdatedBefore.IsZero() {
		filters = append(filters, createTimeRangeQuery(filter.UpdatedAfter, filter.UpdatedBefore))
	}

	boolQuery := map[string]any{
		"filter": filters,
	}
	if filter.Query != "" {
		boolQuery["must"] = []map[string]any{
			{
				"multi_match": map[string]any{
					"query":     filter.Query,
					"fields":    []string{"title^3", "tags^2", "content"},
					"fuzziness": "AUTO",
				},
			},
		}
	}

	query := map[string]any{
		"query": map[string]any{
			"bool": boolQuery,
		},
		"_source":          false,
		"track_total_hits": true,
		"sort": []any{
			"_score",
			map[string]any{"updated_at": map[string]any{"order": "desc"}},
		},
	}

	if filter.Limit > 0 {
		query["from"] = filter.Offset
		query["size"] = filter.Limit
	}

	return query
}

func createTermQuery(field, value string) map[string]any {
	return map[string]any{
		"term": map[string]any{
			field: value,
		},
	}
}

func createTimeRangeQuery(after, before time.Time) map[string]any {
	timeRange := make(map[string]any)
	if !after.IsZero() {
		timeRange["gte"] = after
	}
	if !before.IsZero() {
		timeRange["lte"] = before
	}
	return map[string]any{
		"range": map[string]any{
			"updated_at": timeRange,
		},
	}
}

const noteIndexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"tenant_slug": { "type": "keyword" },
			"user_id": { "type": "keyword" },
			"title": { "type": "text" },
			"content": { "type": "text" },
			"category": { "type": "keyword" },
			"tags": { "type": "keyword", "fields": { "text": { "type": "text" } } },
			"pinned": { "type": "boolean" },
			"updated_at": { "type": "date" }
		}
	},
	"settings": {
		"index": {
			"number_of_shards": 1,
			"number_of_replicas": 1,
			"refresh_interval": "1s"
		}
	}
}`

func (r *searchRepository) EnsureIndex(ctx context.Context, tenantSlug string) error {
	indexName := r.config.GetIndexName(tenantSlug)

	exists := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}
	res, err := exists.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(noteIndexMapping),
	}

	res, err = create.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	// A concurrent worker may have created it first.
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	return nil
}

func (r *searchRepository) DeleteIndex(ctx context.Context, tenantSlug string) error {
	req := opensearchapi.IndicesDeleteRequest{
		Index: []string{r.config.GetIndexName(tenantSlug)},
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error deleting index: %s", res.String())
	}

	return nil
}
