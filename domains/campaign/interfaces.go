package campaign

import (
	"context"

	"github.com/google/uuid"
)

// ICampaignRepository defines database operations for campaign entities
type ICampaignRepository interface {
	// Campaign operations
	CreateCampaign(ctx context.Context, campaign *Campaign) error
	GetCampaign(ctx context.Context, id uuid.UUID) (*Campaign, error)
	ListCampaigns(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Campaign, int, error)
	ListCampaignsByStatus(ctx context.Context, statuses []CampaignStatus) ([]*Campaign, error)
	UpdateCampaign(ctx context.Context, campaign *Campaign) error
	DeleteCampaign(ctx context.Context, id uuid.UUID) error

	// Campaign lead operations
	CreateCampaignLead(ctx context.Context, lead *CampaignLead) error
	GetCampaignLeadByPhone(ctx context.Context, campaignID uuid.UUID, phone string) (*CampaignLead, error)
	ListCampaignLeads(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*CampaignLead, int, error)
	ListUncheckedLeads(ctx context.Context, campaignID uuid.UUID) ([]*CampaignLead, error)
	NextSendableLead(ctx context.Context, campaignID uuid.UUID) (*CampaignLead, error)
	HasSendableLead(ctx context.Context, campaignID uuid.UUID) (bool, error)
	UpdateCampaignLead(ctx context.Context, lead *CampaignLead) error
	GetCampaignStats(ctx context.Context, campaignID uuid.UUID) (*CampaignStats, error)

	// Messaging instance operations
	GetConnectedInstance(ctx context.Context, userID uuid.UUID) (*MessagingInstance, error)
	GetAnyInstance(ctx context.Context, userID uuid.UUID) (*MessagingInstance, error)
	ListInstances(ctx context.Context, userID uuid.UUID) ([]*MessagingInstance, error)
	UpdateInstanceStatus(ctx context.Context, id uuid.UUID, status string) error

	// Message log operations
	AppendMessageLog(ctx context.Context, entry *MessageLogEntry) error
	ListMessageLogs(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*MessageLogEntry, int, error)

	// General lead mirror, dedup on (user_id, phone)
	CreateLead(ctx context.Context, lead *Lead) error

	// Schema
	InitializeSchema() error
}

// ICampaignUsecase defines the CRUD surface consumed by the REST layer
type ICampaignUsecase interface {
	CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*Campaign, error)
	GetCampaign(ctx context.Context, userID, id uuid.UUID) (*Campaign, error)
	ListCampaigns(ctx context.Context, userID uuid.UUID, page, pageSize int) (*CampaignListResponse, error)
	UpdateCampaign(ctx context.Context, req UpdateCampaignRequest) (*Campaign, error)
	DeleteCampaign(ctx context.Context, userID, id uuid.UUID) error
	CancelCampaign(ctx context.Context, userID, id uuid.UUID) error
	ListCampaignLeads(ctx context.Context, userID, campaignID uuid.UUID, page, pageSize int) (*LeadListResponse, error)
	ListMessageLogs(ctx context.Context, userID, campaignID uuid.UUID, page, pageSize int) (*LogListResponse, error)
	ListInstances(ctx context.Context, userID uuid.UUID) ([]*MessagingInstance, error)
}

// IWorkerUsecase is the lifecycle surface of the campaign supervisor
type IWorkerUsecase interface {
	Start(ctx context.Context)
	Stop()
	Status() WorkerStatus
	LaunchCampaign(ctx context.Context, userID, id uuid.UUID) error
	StopCampaign(ctx context.Context, userID, id uuid.UUID) error
	ResumeCampaign(ctx context.Context, userID, id uuid.UUID) error
}
