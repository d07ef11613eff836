package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zapleads/zapleads/config"
	domainCampaign "github.com/zapleads/zapleads/domains/campaign"
	domainMaps "github.com/zapleads/zapleads/domains/maps"
	domainMessaging "github.com/zapleads/zapleads/domains/messaging"
	"github.com/zapleads/zapleads/pkg/utils"
)

// CampaignProcessor is the campaign state machine. Given a campaign row it
// runs the phase its status calls for: searching pulls businesses from the
// maps provider, validating checks their numbers against the messaging
// provider, active sends the next message and re-arms the dispatch timer.
type CampaignProcessor struct {
	repo      domainCampaign.ICampaignRepository
	maps      domainMaps.IMapsGateway
	messenger domainMessaging.IMessagingGateway
	scheduler *DispatchScheduler

	// Provider pacing; tests override these
	maxSearchPages       int
	searchPageDelay      time.Duration
	placeDetailDelay     time.Duration
	validationCheckDelay time.Duration
	mediaItemDelay       time.Duration
}

// NewCampaignProcessor creates a processor with the configured pacing
func NewCampaignProcessor(repo domainCampaign.ICampaignRepository, maps domainMaps.IMapsGateway,
	messenger domainMessaging.IMessagingGateway, scheduler *DispatchScheduler) *CampaignProcessor {
	return &CampaignProcessor{
		repo:                 repo,
		maps:                 maps,
		messenger:            messenger,
		scheduler:            scheduler,
		maxSearchPages:       config.SearchMaxPages,
		searchPageDelay:      config.SearchPageDelay,
		placeDetailDelay:     config.PlaceDetailDelay,
		validationCheckDelay: config.ValidationCheckDelay,
		mediaItemDelay:       config.MediaItemDelay,
	}
}

// Process runs the phase matching the campaign's status. The caller must
// hold the campaign's processing flag.
func (p *CampaignProcessor) Process(ctx context.Context, campaign *domainCampaign.Campaign) error {
	switch campaign.Status {
	case domainCampaign.CampaignStatusSearching:
		return p.runSearch(ctx, campaign)
	case domainCampaign.CampaignStatusValidating:
		return p.runValidation(ctx, campaign)
	case domainCampaign.CampaignStatusActive:
		return p.runDispatch(ctx, campaign)
	}
	return nil
}

// Transition applies a status change with its side effects and persists it
func (p *CampaignProcessor) Transition(ctx context.Context, campaign *domainCampaign.Campaign,
	status domainCampaign.CampaignStatus, errMessage *string) error {
	campaign.ApplyStatus(status, errMessage)
	if err := p.repo.UpdateCampaign(ctx, campaign); err != nil {
		return err
	}

	fields := logrus.Fields{"campaign_id": campaign.ID, "status": status}
	if errMessage != nil {
		fields["error"] = *errMessage
	}
	logrus.WithFields(fields).Info("Campaign: Status changed")
	return nil
}

func errMsg(msg string) *string { return &msg }

// ============================================================================
// Search Phase
// ============================================================================

func (p *CampaignProcessor) runSearch(ctx context.Context, campaign *domainCampaign.Campaign) error {
	if strings.TrimSpace(campaign.SearchQuery) == "" || strings.TrimSpace(campaign.City) == "" {
		return p.Transition(ctx, campaign, domainCampaign.CampaignStatusDraft,
			errMsg("search query and city are required"))
	}

	query := p.buildSearchQuery(campaign)
	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"query":       query,
	}).Info("Campaign: Searching for leads")

	var places []domainMaps.Place
	pageToken := ""
	for page := 0; page < p.maxSearchPages; page++ {
		if page > 0 {
			// The provider rejects next-page tokens fetched too quickly
			p.sleep(ctx, p.searchPageDelay)
		}
		// A shutdown mid-search must leave the campaign searching so a
		// restarted worker picks it up again
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := p.maps.TextSearch(ctx, query, pageToken)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logrus.Warnf("Campaign: Text search page %d failed: %v", page+1, err)
			break
		}
		places = append(places, result.Places...)
		if result.NextPageToken == "" || len(result.Places) == 0 {
			break
		}
		pageToken = result.NextPageToken
	}

	saved := 0
	for i, place := range places {
		if i > 0 {
			p.sleep(ctx, p.placeDetailDelay)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		detail, err := p.maps.PlaceDetails(ctx, place.PlaceID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logrus.Warnf("Campaign: Place details for %s failed: %v", place.PlaceID, err)
			continue
		}
		if detail.Phone == "" {
			continue
		}

		phone, ok := utils.NormalizePhone(detail.Phone)
		if !ok {
			continue
		}

		existing, err := p.repo.GetCampaignLeadByPhone(ctx, campaign.ID, phone)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		name := detail.Name
		if name == "" {
			name = place.Name
		}
		address := place.Address
		lat, lng := place.Latitude, place.Longitude
		lead := &domainCampaign.CampaignLead{
			CampaignID:    campaign.ID,
			UserID:        campaign.UserID,
			Name:          name,
			Phone:         phone,
			Address:       &address,
			Latitude:      &lat,
			Longitude:     &lng,
			MessageStatus: domainCampaign.MessageStatusPending,
		}
		if err := p.repo.CreateCampaignLead(ctx, lead); err != nil {
			logrus.Warnf("Campaign: Failed to save lead %s: %v", phone, err)
			continue
		}
		saved++
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"places":      len(places),
		"saved":       saved,
	}).Info("Campaign: Search finished")

	if saved == 0 {
		return p.Transition(ctx, campaign, domainCampaign.CampaignStatusDraft,
			errMsg("search returned no businesses with a usable phone number"))
	}
	return p.Transition(ctx, campaign, domainCampaign.CampaignStatusValidating, nil)
}

func (p *CampaignProcessor) buildSearchQuery(campaign *domainCampaign.Campaign) string {
	country := campaign.Country
	if country == "" {
		country = "Brasil"
	}
	parts := []string{campaign.SearchQuery, campaign.City}
	if campaign.State != "" {
		parts = append(parts, campaign.State)
	}
	parts = append(parts, country)
	return strings.Join(parts, " ")
}

// ============================================================================
// Validation Phase
// ============================================================================

func (p *CampaignProcessor) runValidation(ctx context.Context, campaign *domainCampaign.Campaign) error {
	instance, err := p.repo.GetConnectedInstance(ctx, campaign.UserID)
	if err != nil {
		return err
	}
	if instance == nil {
		return p.Transition(ctx, campaign, domainCampaign.CampaignStatusPaused,
			errMsg("no connected messaging instance"))
	}

	leads, err := p.repo.ListUncheckedLeads(ctx, campaign.ID)
	if err != nil {
		return err
	}

	if len(leads) == 0 {
		return p.finishValidation(ctx, campaign)
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"count":       len(leads),
	}).Info("Campaign: Validating lead numbers")

	for i, lead := range leads {
		if i > 0 {
			p.sleep(ctx, p.validationCheckDelay)
		}
		// A cancelled context aborts the batch with the remaining leads
		// still unchecked; the campaign stays validating for the next run
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.validateLead(ctx, instance.InstanceName, lead); err != nil {
			return err
		}
	}

	return p.finishValidation(ctx, campaign)
}

// validateLead checks one number against the provider. A provider failure
// marks the lead invalid so it is never left unchecked; shutdown is not a
// verdict and returns without touching the lead.
func (p *CampaignProcessor) validateLead(ctx context.Context, instanceName string, lead *domainCampaign.CampaignLead) error {
	valid := false
	var jid string

	if phone, ok := utils.NormalizePhone(lead.Phone); ok {
		checks, err := p.messenger.CheckNumbers(ctx, instanceName, []string{phone})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logrus.Warnf("Campaign: Number check for %s failed: %v", phone, err)
		} else if len(checks) > 0 {
			valid = checks[0].Exists
			jid = checks[0].JID
		}
	}

	lead.WhatsAppValid = &valid
	if valid {
		lead.RemoteJID = &jid
		// The JID carries the provider's canonical number
		if at := strings.IndexByte(jid, '@'); at > 0 {
			lead.Phone = jid[:at]
		}
	}

	if err := p.repo.UpdateCampaignLead(ctx, lead); err != nil {
		logrus.Errorf("Campaign: Failed to update lead %s: %v", lead.ID, err)
		return nil
	}

	if valid {
		mirror := &domainCampaign.Lead{
			UserID:    lead.UserID,
			Name:      lead.Name,
			Phone:     lead.Phone,
			RemoteJID: lead.RemoteJID,
			Source:    "campaign",
		}
		if err := p.repo.CreateLead(ctx, mirror); err != nil {
			logrus.Warnf("Campaign: Failed to mirror lead %s: %v", lead.Phone, err)
		}
	}
	return nil
}

func (p *CampaignProcessor) finishValidation(ctx context.Context, campaign *domainCampaign.Campaign) error {
	if err := p.refreshStats(ctx, campaign); err != nil {
		return err
	}

	sendable, err := p.repo.HasSendableLead(ctx, campaign.ID)
	if err != nil {
		return err
	}
	if !sendable {
		return p.Transition(ctx, campaign, domainCampaign.CampaignStatusCompleted,
			errMsg("no valid number found among the campaign leads"))
	}
	return p.Transition(ctx, campaign, domainCampaign.CampaignStatusActive, nil)
}

// refreshStats recomputes the aggregate counters from the full lead set and
// writes them back onto the campaign row.
func (p *CampaignProcessor) refreshStats(ctx context.Context, campaign *domainCampaign.Campaign) error {
	stats, err := p.repo.GetCampaignStats(ctx, campaign.ID)
	if err != nil {
		return err
	}
	campaign.TotalLeads = stats.TotalLeads
	campaign.SentMessages = stats.SentMessages
	campaign.FailedMessages = stats.FailedMessages
	return p.repo.UpdateCampaign(ctx, campaign)
}

// ============================================================================
// Dispatch Phase
// ============================================================================

func (p *CampaignProcessor) runDispatch(ctx context.Context, campaign *domainCampaign.Campaign) error {
	if p.scheduler.HasTimer(campaign.ID) {
		return nil
	}

	// A persisted future dispatch time survives restarts: re-arm instead of
	// sending early
	if campaign.NextDispatchAt != nil {
		if remaining := time.Until(*campaign.NextDispatchAt); remaining > 0 {
			p.armTimer(campaign.ID, remaining)
			return nil
		}
	}

	return p.dispatchSend(ctx, campaign)
}

// dispatchSend delivers the campaign message to the single oldest sendable
// lead, then schedules the next dispatch with fresh jitter.
func (p *CampaignProcessor) dispatchSend(ctx context.Context, campaign *domainCampaign.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	instance, err := p.repo.GetConnectedInstance(ctx, campaign.UserID)
	if err != nil {
		return err
	}
	if instance == nil {
		return p.Transition(ctx, campaign, domainCampaign.CampaignStatusPaused,
			errMsg("no connected messaging instance"))
	}

	lead, err := p.repo.NextSendableLead(ctx, campaign.ID)
	if err != nil {
		return err
	}
	if lead == nil {
		return p.Transition(ctx, campaign, domainCampaign.CampaignStatusCompleted, nil)
	}

	destination := lead.Phone
	if lead.RemoteJID != nil && *lead.RemoteJID != "" {
		destination = *lead.RemoteJID
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"lead_id":     lead.ID,
		"phone":       lead.Phone,
	}).Info("Campaign: Sending message")

	now := time.Now()
	// The text send is the primary delivery signal; media failures only
	// degrade the message
	_, sendErr := p.messenger.SendText(ctx, instance.InstanceName, destination, campaign.MessageTemplate)
	if sendErr != nil {
		// A send aborted by shutdown is not a delivery failure; the lead
		// stays pending for the next run
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lead.MessageStatus = domainCampaign.MessageStatusFailed
		lead.ErrorMessage = errMsg(sendErr.Error())
		campaign.FailedMessages++
		logrus.WithFields(logrus.Fields{
			"phone": lead.Phone,
			"error": sendErr,
		}).Warn("Campaign: Failed to send message")
	} else {
		p.sendMedia(ctx, instance.InstanceName, destination, campaign.Media)
		lead.MessageStatus = domainCampaign.MessageStatusSent
		lead.SentAt = &now
		lead.ErrorMessage = nil
		campaign.SentMessages++
	}

	if err := p.repo.UpdateCampaignLead(ctx, lead); err != nil {
		logrus.Errorf("Campaign: Failed to update lead %s: %v", lead.ID, err)
	}

	entry := &domainCampaign.MessageLogEntry{
		CampaignID:   campaign.ID,
		LeadID:       lead.ID,
		UserID:       campaign.UserID,
		Phone:        lead.Phone,
		Status:       lead.MessageStatus,
		ErrorMessage: lead.ErrorMessage,
	}
	if err := p.repo.AppendMessageLog(ctx, entry); err != nil {
		logrus.Warnf("Campaign: Failed to append message log: %v", err)
	}

	return p.scheduleNext(ctx, campaign)
}

func (p *CampaignProcessor) sendMedia(ctx context.Context, instanceName, destination string, media []domainCampaign.MediaAttachment) {
	for i, item := range media {
		if i > 0 {
			p.sleep(ctx, p.mediaItemDelay)
		}
		_, err := p.messenger.SendMedia(ctx, instanceName, domainMessaging.MediaRequest{
			To:        destination,
			MediaType: item.Type,
			URL:       item.URL,
			MimeType:  item.MimeType,
			FileName:  item.FileName,
			DelayMs:   int(p.mediaItemDelay / time.Millisecond),
		})
		if err != nil {
			logrus.Warnf("Campaign: Failed to send media %s: %v", item.URL, err)
		}
	}
}

// scheduleNext draws the next randomized interval, persists it and arms the
// timer. It runs after every dispatch regardless of outcome.
func (p *CampaignProcessor) scheduleNext(ctx context.Context, campaign *domainCampaign.Campaign) error {
	minMinutes := campaign.MinIntervalMinutes
	maxMinutes := campaign.MaxIntervalMinutes
	if minMinutes <= 0 {
		minMinutes = config.CampaignMinIntervalMinutes
	}
	if maxMinutes <= 0 {
		maxMinutes = config.CampaignMaxIntervalMinutes
	}

	interval := p.scheduler.RandomInterval(minMinutes, maxMinutes)
	next := time.Now().Add(interval)
	campaign.NextDispatchAt = &next

	if err := p.repo.UpdateCampaign(ctx, campaign); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"interval":    interval,
	}).Info("Campaign: Next dispatch scheduled")

	p.armTimer(campaign.ID, interval)
	return nil
}

// armTimer arms the campaign's dispatch timer. When it fires the campaign
// is reloaded from the store so that out-of-band status changes made while
// the timer was pending are honored.
func (p *CampaignProcessor) armTimer(id uuid.UUID, delay time.Duration) {
	p.scheduler.Schedule(id, delay, func() {
		if !p.scheduler.TryAcquire(id) {
			return
		}
		defer p.scheduler.Release(id)

		ctx := context.Background()
		campaign, err := p.repo.GetCampaign(ctx, id)
		if err != nil {
			logrus.Errorf("Campaign: Failed to reload campaign %s on timer: %v", id, err)
			return
		}
		if campaign == nil || campaign.Status != domainCampaign.CampaignStatusActive {
			return
		}
		if err := p.dispatchSend(ctx, campaign); err != nil {
			logrus.Errorf("Campaign: Dispatch for %s failed: %v", id, err)
		}
	})
}

// sleep pauses between provider calls but stays responsive to cancellation
func (p *CampaignProcessor) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
