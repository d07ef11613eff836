package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domainCampaign "github.com/zapleads/zapleads/domains/campaign"
	domainMaps "github.com/zapleads/zapleads/domains/maps"
	domainMessaging "github.com/zapleads/zapleads/domains/messaging"
)

// fakeRepo is an in-memory ICampaignRepository
type fakeRepo struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]*domainCampaign.Campaign
	leads     []*domainCampaign.CampaignLead
	instances []*domainCampaign.MessagingInstance
	logs      []*domainCampaign.MessageLogEntry
	mirror    map[string]*domainCampaign.Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		campaigns: make(map[uuid.UUID]*domainCampaign.Campaign),
		mirror:    make(map[string]*domainCampaign.Lead),
	}
}

func (r *fakeRepo) InitializeSchema() error { return nil }

func (r *fakeRepo) CreateCampaign(_ context.Context, c *domainCampaign.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	r.campaigns[c.ID] = c
	return nil
}

// Reads hand out snapshots so concurrent worker goroutines and test
// assertions never share a mutable struct
func (r *fakeRepo) GetCampaign(_ context.Context, id uuid.UUID) (*domainCampaign.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) ListCampaigns(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domainCampaign.Campaign, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainCampaign.Campaign
	for _, c := range r.campaigns {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListCampaignsByStatus(_ context.Context, statuses []domainCampaign.CampaignStatus) ([]*domainCampaign.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainCampaign.Campaign
	for _, c := range r.campaigns {
		for _, s := range statuses {
			if c.Status == s {
				cp := *c
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateCampaign(_ context.Context, c *domainCampaign.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.UpdatedAt = time.Now()
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteCampaign(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.campaigns, id)
	return nil
}

func (r *fakeRepo) CreateCampaignLead(_ context.Context, lead *domainCampaign.CampaignLead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.CampaignID == lead.CampaignID && l.Phone == lead.Phone {
			return nil // dedup on (campaign, phone)
		}
	}
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	if lead.MessageStatus == "" {
		lead.MessageStatus = domainCampaign.MessageStatusPending
	}
	r.leads = append(r.leads, lead)
	return nil
}

func (r *fakeRepo) GetCampaignLeadByPhone(_ context.Context, campaignID uuid.UUID, phone string) (*domainCampaign.CampaignLead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.CampaignID == campaignID && l.Phone == phone {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListCampaignLeads(_ context.Context, campaignID uuid.UUID, limit, offset int) ([]*domainCampaign.CampaignLead, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainCampaign.CampaignLead
	for _, l := range r.leads {
		if l.CampaignID == campaignID {
			out = append(out, l)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListUncheckedLeads(_ context.Context, campaignID uuid.UUID) ([]*domainCampaign.CampaignLead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainCampaign.CampaignLead
	for _, l := range r.leads {
		if l.CampaignID == campaignID && l.WhatsAppValid == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeRepo) NextSendableLead(_ context.Context, campaignID uuid.UUID) (*domainCampaign.CampaignLead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.CampaignID == campaignID && l.WhatsAppValid != nil && *l.WhatsAppValid &&
			l.MessageStatus == domainCampaign.MessageStatusPending {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) HasSendableLead(ctx context.Context, campaignID uuid.UUID) (bool, error) {
	lead, err := r.NextSendableLead(ctx, campaignID)
	return lead != nil, err
}

func (r *fakeRepo) UpdateCampaignLead(_ context.Context, lead *domainCampaign.CampaignLead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.leads {
		if l.ID == lead.ID {
			r.leads[i] = lead
			return nil
		}
	}
	return nil
}

func (r *fakeRepo) GetCampaignStats(_ context.Context, campaignID uuid.UUID) (*domainCampaign.CampaignStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domainCampaign.CampaignStats{}
	for _, l := range r.leads {
		if l.CampaignID != campaignID {
			continue
		}
		stats.TotalLeads++
		if l.WhatsAppValid != nil && *l.WhatsAppValid {
			stats.ValidLeads++
		}
		switch l.MessageStatus {
		case domainCampaign.MessageStatusSent:
			stats.SentMessages++
		case domainCampaign.MessageStatusFailed:
			stats.FailedMessages++
		}
	}
	return stats, nil
}

func (r *fakeRepo) GetConnectedInstance(_ context.Context, userID uuid.UUID) (*domainCampaign.MessagingInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.instances {
		if i.UserID == userID && i.Status == domainCampaign.InstanceStatusConnected {
			return i, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetAnyInstance(_ context.Context, userID uuid.UUID) (*domainCampaign.MessagingInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.instances {
		if i.UserID == userID {
			return i, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListInstances(_ context.Context, userID uuid.UUID) ([]*domainCampaign.MessagingInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainCampaign.MessagingInstance
	for _, i := range r.instances {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateInstanceStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.instances {
		if i.ID == id {
			i.Status = status
		}
	}
	return nil
}

func (r *fakeRepo) AppendMessageLog(_ context.Context, entry *domainCampaign.MessageLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	r.logs = append(r.logs, entry)
	return nil
}

func (r *fakeRepo) ListMessageLogs(_ context.Context, campaignID uuid.UUID, limit, offset int) ([]*domainCampaign.MessageLogEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainCampaign.MessageLogEntry
	for _, e := range r.logs {
		if e.CampaignID == campaignID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) CreateLead(_ context.Context, lead *domainCampaign.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := lead.UserID.String() + "/" + lead.Phone
	if _, ok := r.mirror[key]; ok {
		return nil
	}
	lead.ID = uuid.New()
	r.mirror[key] = lead
	return nil
}

func (r *fakeRepo) leadsFor(campaignID uuid.UUID) []*domainCampaign.CampaignLead {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainCampaign.CampaignLead
	for _, l := range r.leads {
		if l.CampaignID == campaignID {
			out = append(out, l)
		}
	}
	return out
}

// fakeMaps serves canned search pages keyed by page token
type fakeMaps struct {
	mu          sync.Mutex
	pages       map[string]*domainMaps.SearchPage
	details     map[string]*domainMaps.PlaceDetail
	detailErrs  map[string]error
	searchCalls int
}

func newFakeMaps() *fakeMaps {
	return &fakeMaps{
		pages:      make(map[string]*domainMaps.SearchPage),
		details:    make(map[string]*domainMaps.PlaceDetail),
		detailErrs: make(map[string]error),
	}
}

func (m *fakeMaps) TextSearch(_ context.Context, _, pageToken string) (*domainMaps.SearchPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	page, ok := m.pages[pageToken]
	if !ok {
		return nil, fmt.Errorf("unexpected page token %q", pageToken)
	}
	return page, nil
}

func (m *fakeMaps) PlaceDetails(_ context.Context, placeID string) (*domainMaps.PlaceDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.detailErrs[placeID]; err != nil {
		return nil, err
	}
	detail, ok := m.details[placeID]
	if !ok {
		return nil, fmt.Errorf("unknown place %q", placeID)
	}
	return detail, nil
}

type sentText struct {
	instance string
	to       string
	text     string
}

// fakeMessenger records sends and serves canned number checks
type fakeMessenger struct {
	mu          sync.Mutex
	checks      map[string]domainMessaging.NumberCheck
	checkErr    error
	onCheck     func() // runs after each CheckNumbers call
	sendTextErr error
	mediaErrs   map[string]error
	state       string
	stateErr    error
	sentTexts   []sentText
	sentMedia   []domainMessaging.MediaRequest
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		checks:    make(map[string]domainMessaging.NumberCheck),
		mediaErrs: make(map[string]error),
		state:     "open",
	}
}

func (m *fakeMessenger) CheckNumbers(_ context.Context, _ string, numbers []string) ([]domainMessaging.NumberCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.onCheck != nil {
		defer m.onCheck()
	}
	if m.checkErr != nil {
		return nil, m.checkErr
	}
	var out []domainMessaging.NumberCheck
	for _, n := range numbers {
		if check, ok := m.checks[n]; ok {
			out = append(out, check)
		} else {
			out = append(out, domainMessaging.NumberCheck{Number: n, Exists: false})
		}
	}
	return out, nil
}

func (m *fakeMessenger) SendText(_ context.Context, instance, to, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendTextErr != nil {
		return "", m.sendTextErr
	}
	m.sentTexts = append(m.sentTexts, sentText{instance: instance, to: to, text: text})
	return "ack-1", nil
}

func (m *fakeMessenger) SendMedia(_ context.Context, _ string, req domainMessaging.MediaRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mediaErrs[req.URL]; err != nil {
		return "", err
	}
	m.sentMedia = append(m.sentMedia, req)
	return "ack-2", nil
}

func (m *fakeMessenger) ConnectionState(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.stateErr
}

func (m *fakeMessenger) textCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sentTexts)
}

// newTestProcessor builds a processor with pacing delays zeroed out
func newTestProcessor(repo *fakeRepo, maps *fakeMaps, messenger *fakeMessenger) (*CampaignProcessor, *DispatchScheduler) {
	scheduler := NewDispatchScheduler()
	return &CampaignProcessor{
		repo:           repo,
		maps:           maps,
		messenger:      messenger,
		scheduler:      scheduler,
		maxSearchPages: 3,
	}, scheduler
}
