package campaign

import (
	"github.com/google/uuid"
)

// CreateCampaignRequest is the request to create a new campaign
type CreateCampaignRequest struct {
	UserID             uuid.UUID         `json:"-"` // Set from context
	Name               string            `json:"name" form:"name"`
	MessageTemplate    string            `json:"message_template" form:"message_template"`
	Media              []MediaAttachment `json:"media" form:"media"`
	SearchQuery        string            `json:"search_query" form:"search_query"`
	City               string            `json:"city" form:"city"`
	State              string            `json:"state" form:"state"`
	Country            string            `json:"country" form:"country"`
	MinIntervalMinutes int               `json:"min_interval_minutes" form:"min_interval_minutes"`
	MaxIntervalMinutes int               `json:"max_interval_minutes" form:"max_interval_minutes"`
}

// UpdateCampaignRequest is the request to update a campaign
type UpdateCampaignRequest struct {
	UserID             uuid.UUID         `json:"-"`
	ID                 uuid.UUID         `json:"-"`
	Name               string            `json:"name" form:"name"`
	MessageTemplate    string            `json:"message_template" form:"message_template"`
	Media              []MediaAttachment `json:"media" form:"media"`
	SearchQuery        string            `json:"search_query" form:"search_query"`
	City               string            `json:"city" form:"city"`
	State              string            `json:"state" form:"state"`
	Country            string            `json:"country" form:"country"`
	MinIntervalMinutes int               `json:"min_interval_minutes" form:"min_interval_minutes"`
	MaxIntervalMinutes int               `json:"max_interval_minutes" form:"max_interval_minutes"`
}
