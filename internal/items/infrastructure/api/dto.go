package api

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/daybook/internal/items/domain"
)

// itemDTO mirrors the backend's item JSON. The backend emits numeric
// ids; the client treats them as opaque strings.
type itemDTO struct {
	ID             json.Number `json:"id"`
	Type           string      `json:"type"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Datetime       *string     `json:"datetime"`
	Priority       string      `json:"priority"`
	Tags           []string    `json:"tags"`
	Completed      bool        `json:"completed"`
	RelevanceScore *float64    `json:"relevance_score,omitempty"`
}

// datetimeLayouts are the timestamp shapes the backend is known to
// emit, most specific first.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (d itemDTO) toDomain() domain.Item {
	it := domain.Item{
		ID:             d.ID.String(),
		Type:           domain.ItemType(d.Type),
		Title:          d.Title,
		Description:    d.Description,
		Priority:       domain.NormalizePriority(domain.Priority(d.Priority)),
		Tags:           d.Tags,
		Completed:      d.Completed,
		RelevanceScore: d.RelevanceScore,
	}
	if d.Datetime != nil && *d.Datetime != "" {
		for _, layout := range datetimeLayouts {
			if ts, err := time.ParseInLocation(layout, *d.Datetime, time.Local); err == nil {
				it.Datetime = &ts
				break
			}
		}
	}
	return it
}

func toDomainItems(dtos []itemDTO) []domain.Item {
	items := make([]domain.Item, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, d.toDomain())
	}
	return items
}

type itemListResponse struct {
	Success bool      `json:"success"`
	Items   []itemDTO `json:"items"`
	Count   int       `json:"count"`
}

type groupedResponse struct {
	Success bool      `json:"success"`
	View    string    `json:"view"`
	Items   []itemDTO `json:"items"`
}

type groupedAllResponse struct {
	Success bool                 `json:"success"`
	Items   map[string][]itemDTO `json:"items"`
}

type itemResponse struct {
	Success bool    `json:"success"`
	Item    itemDTO `json:"item"`
}

type parseRequest struct {
	Input string `json:"input"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type syncResponse struct {
	Success bool `json:"success"`
	Synced  struct {
		Calendar int `json:"calendar"`
		Email    int `json:"email"`
	} `json:"synced"`
}

type visualizeRequest struct {
	Date string `json:"date"`
}

type visualizeResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
