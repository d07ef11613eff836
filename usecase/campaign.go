package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zapleads/zapleads/config"
	domainCampaign "github.com/zapleads/zapleads/domains/campaign"
	"github.com/zapleads/zapleads/validations"
)

// CampaignService implements ICampaignUsecase
type CampaignService struct {
	repo      domainCampaign.ICampaignRepository
	scheduler *DispatchScheduler
}

// NewCampaignService creates a new campaign service
func NewCampaignService(repo domainCampaign.ICampaignRepository, scheduler *DispatchScheduler) *CampaignService {
	return &CampaignService{repo: repo, scheduler: scheduler}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, req domainCampaign.CreateCampaignRequest) (*domainCampaign.Campaign, error) {
	if err := validations.ValidateCreateCampaign(ctx, req); err != nil {
		return nil, err
	}

	minInterval := req.MinIntervalMinutes
	maxInterval := req.MaxIntervalMinutes
	if minInterval <= 0 {
		minInterval = config.CampaignMinIntervalMinutes
	}
	if maxInterval <= 0 {
		maxInterval = config.CampaignMaxIntervalMinutes
	}

	campaign := &domainCampaign.Campaign{
		UserID:             req.UserID,
		Name:               strings.TrimSpace(req.Name),
		MessageTemplate:    req.MessageTemplate,
		Media:              req.Media,
		SearchQuery:        strings.TrimSpace(req.SearchQuery),
		City:               strings.TrimSpace(req.City),
		State:              strings.TrimSpace(req.State),
		Country:            strings.TrimSpace(req.Country),
		MinIntervalMinutes: minInterval,
		MaxIntervalMinutes: maxInterval,
		Status:             domainCampaign.CampaignStatusDraft,
	}

	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"user_id":     campaign.UserID,
		"name":        campaign.Name,
	}).Info("Campaign: Created")

	return campaign, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, userID, id uuid.UUID) (*domainCampaign.Campaign, error) {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil || campaign.UserID != userID {
		return nil, nil
	}

	// Load stats
	stats, err := s.repo.GetCampaignStats(ctx, id)
	if err == nil {
		campaign.Stats = stats
	}

	return campaign, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, userID uuid.UUID, page, pageSize int) (*domainCampaign.CampaignListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	campaigns, total, err := s.repo.ListCampaigns(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &domainCampaign.CampaignListResponse{
		Campaigns:  campaigns,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, req domainCampaign.UpdateCampaignRequest) (*domainCampaign.Campaign, error) {
	if err := validations.ValidateUpdateCampaign(ctx, req); err != nil {
		return nil, err
	}

	campaign, err := s.repo.GetCampaign(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if campaign == nil || campaign.UserID != req.UserID {
		return nil, errors.New("campaign not found")
	}
	if campaign.Status.InProgress() {
		return nil, errors.New("cannot update a campaign in progress, stop it first")
	}

	campaign.Name = strings.TrimSpace(req.Name)
	campaign.MessageTemplate = req.MessageTemplate
	campaign.Media = req.Media
	campaign.SearchQuery = strings.TrimSpace(req.SearchQuery)
	campaign.City = strings.TrimSpace(req.City)
	campaign.State = strings.TrimSpace(req.State)
	campaign.Country = strings.TrimSpace(req.Country)
	if req.MinIntervalMinutes > 0 {
		campaign.MinIntervalMinutes = req.MinIntervalMinutes
	}
	if req.MaxIntervalMinutes > 0 {
		campaign.MaxIntervalMinutes = req.MaxIntervalMinutes
	}

	if err := s.repo.UpdateCampaign(ctx, campaign); err != nil {
		return nil, err
	}

	return campaign, nil
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, userID, id uuid.UUID) error {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return err
	}
	if campaign == nil || campaign.UserID != userID {
		return errors.New("campaign not found")
	}
	if campaign.Status.InProgress() {
		return errors.New("cannot delete a campaign in progress, stop it first")
	}

	return s.repo.DeleteCampaign(ctx, id)
}

func (s *CampaignService) CancelCampaign(ctx context.Context, userID, id uuid.UUID) error {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return err
	}
	if campaign == nil || campaign.UserID != userID {
		return errors.New("campaign not found")
	}
	if campaign.Status == domainCampaign.CampaignStatusCompleted ||
		campaign.Status == domainCampaign.CampaignStatusCancelled {
		return errors.New("campaign already finished")
	}

	s.scheduler.Cancel(id)
	campaign.ApplyStatus(domainCampaign.CampaignStatusCancelled, nil)
	return s.repo.UpdateCampaign(ctx, campaign)
}

func (s *CampaignService) ListCampaignLeads(ctx context.Context, userID, campaignID uuid.UUID, page, pageSize int) (*domainCampaign.LeadListResponse, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil || campaign.UserID != userID {
		return nil, errors.New("campaign not found")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	leads, total, err := s.repo.ListCampaignLeads(ctx, campaignID, pageSize, offset)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &domainCampaign.LeadListResponse{
		Leads:      leads,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *CampaignService) ListMessageLogs(ctx context.Context, userID, campaignID uuid.UUID, page, pageSize int) (*domainCampaign.LogListResponse, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil || campaign.UserID != userID {
		return nil, errors.New("campaign not found")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	entries, total, err := s.repo.ListMessageLogs(ctx, campaignID, pageSize, offset)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &domainCampaign.LogListResponse{
		Entries:    entries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *CampaignService) ListInstances(ctx context.Context, userID uuid.UUID) ([]*domainCampaign.MessagingInstance, error) {
	return s.repo.ListInstances(ctx, userID)
}
