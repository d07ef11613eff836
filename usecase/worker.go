package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainCampaign "github.com/zapleads/zapleads/domains/campaign"
	domainMessaging "github.com/zapleads/zapleads/domains/messaging"
)

// CampaignWorker is the supervisor driving all in-progress campaigns. It
// polls the store on a fixed period, reconciles persisted campaign state
// against the in-memory scheduler (which is how in-flight dispatch timers
// survive a restart) and exposes the launch/stop/resume lifecycle.
type CampaignWorker struct {
	repo      domainCampaign.ICampaignRepository
	processor *CampaignProcessor
	scheduler *DispatchScheduler
	messenger domainMessaging.IMessagingGateway

	pollInterval time.Duration

	workerCtx    context.Context
	workerCancel context.CancelFunc
	workerWg     sync.WaitGroup
	workerMu     sync.Mutex
}

// NewCampaignWorker creates a stopped worker
func NewCampaignWorker(repo domainCampaign.ICampaignRepository, processor *CampaignProcessor,
	scheduler *DispatchScheduler, messenger domainMessaging.IMessagingGateway, pollInterval time.Duration) *CampaignWorker {
	return &CampaignWorker{
		repo:         repo,
		processor:    processor,
		scheduler:    scheduler,
		messenger:    messenger,
		pollInterval: pollInterval,
	}
}

// Start launches the poll loop. A running worker is left alone.
func (w *CampaignWorker) Start(ctx context.Context) {
	w.workerMu.Lock()
	if w.workerCtx != nil && w.workerCtx.Err() == nil {
		w.workerMu.Unlock()
		logrus.Info("Campaign worker already running")
		return
	}
	w.workerCtx, w.workerCancel = context.WithCancel(ctx)
	w.workerWg.Add(1)
	w.workerMu.Unlock()

	go w.run()

	logrus.Info("Campaign: Worker started")
}

// Stop cancels the poll loop and waits for it to exit
func (w *CampaignWorker) Stop() {
	w.workerMu.Lock()
	if w.workerCancel != nil {
		w.workerCancel()
	}
	w.workerMu.Unlock()

	w.workerWg.Wait()
	logrus.Info("Campaign: Worker stopped")
}

func (w *CampaignWorker) run() {
	defer w.workerWg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Immediate poll so restarts re-derive pending dispatch timers without
	// waiting a full period
	w.poll()

	for {
		select {
		case <-w.workerCtx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll walks every in-progress campaign through its current phase. A
// campaign whose processing flag is already held is skipped; one campaign's
// failure never aborts the rest of the cycle.
func (w *CampaignWorker) poll() {
	ctx := w.workerCtx

	campaigns, err := w.repo.ListCampaignsByStatus(ctx, []domainCampaign.CampaignStatus{
		domainCampaign.CampaignStatusActive,
		domainCampaign.CampaignStatusSearching,
		domainCampaign.CampaignStatusValidating,
	})
	if err != nil {
		logrus.Errorf("Campaign: Failed to list in-progress campaigns: %v", err)
		return
	}

	for _, campaign := range campaigns {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !w.scheduler.TryAcquire(campaign.ID) {
			continue
		}
		if err := w.processor.Process(ctx, campaign); err != nil {
			logrus.WithFields(logrus.Fields{
				"campaign_id": campaign.ID,
				"status":      campaign.Status,
			}).Errorf("Campaign: Processing failed: %v", err)
		}
		w.scheduler.Release(campaign.ID)
	}
}

// Status reports whether the worker is running and which campaigns have an
// in-memory scheduler entry.
func (w *CampaignWorker) Status() domainCampaign.WorkerStatus {
	w.workerMu.Lock()
	running := w.workerCtx != nil && w.workerCtx.Err() == nil
	w.workerMu.Unlock()

	return domainCampaign.WorkerStatus{
		Running:   running,
		Scheduled: w.scheduler.Scheduled(),
	}
}

// ============================================================================
// Lifecycle Operations
// ============================================================================

func (w *CampaignWorker) getOwnedCampaign(ctx context.Context, userID, id uuid.UUID) (*domainCampaign.Campaign, error) {
	campaign, err := w.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil || campaign.UserID != userID {
		return nil, errors.New("campaign not found")
	}
	return campaign, nil
}

// LaunchCampaign moves a campaign into the search phase and processes it
// immediately. The owner must have a connected messaging instance; a stale
// stored status triggers a live reconnection probe before failing.
func (w *CampaignWorker) LaunchCampaign(ctx context.Context, userID, id uuid.UUID) error {
	campaign, err := w.getOwnedCampaign(ctx, userID, id)
	if err != nil {
		return err
	}
	if campaign.Status.InProgress() {
		return errors.New("campaign is already in progress")
	}

	if err := w.ensureConnectedInstance(ctx, userID); err != nil {
		return err
	}

	if err := w.processor.Transition(ctx, campaign, domainCampaign.CampaignStatusSearching, nil); err != nil {
		return err
	}

	w.triggerProcessing(id)
	return nil
}

// StopCampaign cancels any pending dispatch timer and pauses the campaign
func (w *CampaignWorker) StopCampaign(ctx context.Context, userID, id uuid.UUID) error {
	campaign, err := w.getOwnedCampaign(ctx, userID, id)
	if err != nil {
		return err
	}
	if !campaign.Status.InProgress() {
		return errors.New("campaign is not running")
	}

	w.scheduler.Cancel(id)
	return w.processor.Transition(ctx, campaign, domainCampaign.CampaignStatusPaused, nil)
}

// ResumeCampaign puts a paused campaign back into dispatch. It requires at
// least one validated lead still waiting to be sent.
func (w *CampaignWorker) ResumeCampaign(ctx context.Context, userID, id uuid.UUID) error {
	campaign, err := w.getOwnedCampaign(ctx, userID, id)
	if err != nil {
		return err
	}
	if campaign.Status.InProgress() {
		return errors.New("campaign is already in progress")
	}

	sendable, err := w.repo.HasSendableLead(ctx, id)
	if err != nil {
		return err
	}
	if !sendable {
		return errors.New("campaign has no validated leads left to send")
	}

	if err := w.processor.Transition(ctx, campaign, domainCampaign.CampaignStatusActive, nil); err != nil {
		return err
	}

	w.triggerProcessing(id)
	return nil
}

// ensureConnectedInstance verifies the owner has a connected instance,
// probing the provider when the stored status looks stale and persisting
// the refreshed state.
func (w *CampaignWorker) ensureConnectedInstance(ctx context.Context, userID uuid.UUID) error {
	instance, err := w.repo.GetConnectedInstance(ctx, userID)
	if err != nil {
		return err
	}
	if instance != nil {
		return nil
	}

	instance, err = w.repo.GetAnyInstance(ctx, userID)
	if err != nil {
		return err
	}
	if instance == nil {
		return errors.New("no messaging instance configured")
	}

	state, err := w.messenger.ConnectionState(ctx, instance.InstanceName)
	if err != nil || !domainMessaging.Connected(state) {
		logrus.WithFields(logrus.Fields{
			"instance": instance.InstanceName,
			"state":    state,
		}).Warn("Campaign: Messaging instance is not connected")
		return errors.New("messaging instance is not connected")
	}

	if err := w.repo.UpdateInstanceStatus(ctx, instance.ID, domainCampaign.InstanceStatusConnected); err != nil {
		logrus.Warnf("Campaign: Failed to refresh instance status: %v", err)
	}
	return nil
}

// triggerProcessing runs one processing pass for the campaign without
// waiting for the next poll tick.
func (w *CampaignWorker) triggerProcessing(id uuid.UUID) {
	if !w.scheduler.TryAcquire(id) {
		return
	}

	// A stopped worker takes no new passes; the campaign's persisted status
	// gets it picked up by the next poll after a restart.
	w.workerMu.Lock()
	if w.workerCtx != nil && w.workerCtx.Err() != nil {
		w.workerMu.Unlock()
		w.scheduler.Release(id)
		return
	}
	w.workerWg.Add(1)
	w.workerMu.Unlock()

	go func() {
		defer w.workerWg.Done()
		defer w.scheduler.Release(id)

		ctx := context.Background()
		campaign, err := w.repo.GetCampaign(ctx, id)
		if err != nil || campaign == nil || !campaign.Status.InProgress() {
			return
		}
		if err := w.processor.Process(ctx, campaign); err != nil {
			logrus.Errorf("Campaign: Processing %s failed: %v", id, err)
		}
	}()
}
