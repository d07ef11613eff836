package campaign

import (
	"time"

	"github.com/google/uuid"
)

// CampaignStatus represents the lifecycle status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft      CampaignStatus = "draft"
	CampaignStatusSearching  CampaignStatus = "searching"
	CampaignStatusValidating CampaignStatus = "validating"
	CampaignStatusActive     CampaignStatus = "active"
	CampaignStatusPaused     CampaignStatus = "paused"
	CampaignStatusCompleted  CampaignStatus = "completed"
	CampaignStatusCancelled  CampaignStatus = "cancelled"
)

// InProgress reports whether the status is one the worker is driving.
func (s CampaignStatus) InProgress() bool {
	return s == CampaignStatusSearching || s == CampaignStatusValidating || s == CampaignStatusActive
}

// MessageStatus represents the delivery status of a campaign lead
type MessageStatus string

const (
	MessageStatusPending MessageStatus = "pending"
	MessageStatusSent    MessageStatus = "sent"
	MessageStatusFailed  MessageStatus = "failed"
)

// MediaAttachment is one media item sent after the campaign text message.
// Attachments are stored on the campaign row as a JSON array and sent in order.
type MediaAttachment struct {
	Type     string  `json:"type"` // image, video, document, audio
	URL      string  `json:"url"`
	MimeType *string `json:"mimetype,omitempty"`
	FileName *string `json:"file_name,omitempty"`
}

// Campaign represents one outbound-messaging run
type Campaign struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	Name            string            `json:"name"`
	MessageTemplate string            `json:"message_template"`
	Media           []MediaAttachment `json:"media,omitempty"`

	// Target audience for the search phase
	SearchQuery string `json:"search_query"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`

	// Dispatch pacing, in minutes; jitter is drawn uniformly from [min, max]
	MinIntervalMinutes int `json:"min_interval_minutes"`
	MaxIntervalMinutes int `json:"max_interval_minutes"`

	TotalLeads     int `json:"total_leads"`
	SentMessages   int `json:"sent_messages"`
	FailedMessages int `json:"failed_messages"`

	Status         CampaignStatus `json:"status"`
	ErrorMessage   *string        `json:"error_message,omitempty"`
	NextDispatchAt *time.Time     `json:"next_dispatch_at,omitempty"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Populated on demand
	Stats *CampaignStats `json:"stats,omitempty"`
}

// ApplyStatus moves the campaign to the given status and applies the
// transition side effects: started_at is stamped on first activation,
// completed_at on completion or cancellation, and the dispatch schedule is
// cleared whenever the campaign leaves active.
func (c *Campaign) ApplyStatus(status CampaignStatus, errMessage *string) {
	now := time.Now()
	c.Status = status
	c.ErrorMessage = errMessage

	switch status {
	case CampaignStatusActive:
		if c.StartedAt == nil {
			c.StartedAt = &now
		}
	case CampaignStatusCompleted, CampaignStatusCancelled:
		c.CompletedAt = &now
	}
	if status != CampaignStatusActive {
		c.NextDispatchAt = nil
	}
}

// CampaignLead is one business discovered for a campaign.
// WhatsAppValid is tri-state: nil means the number has not been checked yet.
type CampaignLead struct {
	ID            uuid.UUID     `json:"id"`
	CampaignID    uuid.UUID     `json:"campaign_id"`
	UserID        uuid.UUID     `json:"user_id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"` // normalized, digits only
	Address       *string       `json:"address,omitempty"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
	RemoteJID     *string       `json:"remote_jid,omitempty"`
	WhatsAppValid *bool         `json:"whatsapp_valid,omitempty"`
	MessageStatus MessageStatus `json:"message_status"`
	ErrorMessage  *string       `json:"error_message,omitempty"`
	SentAt        *time.Time    `json:"sent_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// MessagingInstance is a provider session through which messages are sent.
// The engine only reads these rows; connection state is owned by the provider.
type MessagingInstance struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	InstanceName string    `json:"instance_name"`
	Status       string    `json:"status"` // must be connected for dispatch/validation
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const InstanceStatusConnected = "connected"

// MessageLogEntry is one append-only row per send attempt
type MessageLogEntry struct {
	ID           uuid.UUID     `json:"id"`
	CampaignID   uuid.UUID     `json:"campaign_id"`
	LeadID       uuid.UUID     `json:"lead_id"`
	UserID       uuid.UUID     `json:"user_id"`
	Phone        string        `json:"phone"`
	Status       MessageStatus `json:"status"`
	ErrorMessage *string       `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Lead is the general contact book row mirrored from validated campaign leads
type Lead struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	RemoteJID *string   `json:"remote_jid,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// CampaignStats holds aggregate counters recomputed from the full lead set
type CampaignStats struct {
	TotalLeads     int `json:"total_leads"`
	ValidLeads     int `json:"valid_leads"`
	SentMessages   int `json:"sent_messages"`
	FailedMessages int `json:"failed_messages"`
}

// CampaignListResponse for pagination
type CampaignListResponse struct {
	Campaigns  []*Campaign `json:"campaigns"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// LeadListResponse for pagination
type LeadListResponse struct {
	Leads      []*CampaignLead `json:"leads"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// LogListResponse for pagination
type LogListResponse struct {
	Entries    []*MessageLogEntry `json:"entries"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// WorkerStatus is the supervisor's view of its own state
type WorkerStatus struct {
	Running   bool        `json:"running"`
	Scheduled []uuid.UUID `json:"scheduled_campaigns"`
}
