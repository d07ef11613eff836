package campaign

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainCampaign "github.com/zapleads/zapleads/domains/campaign"
)

// Repository implements ICampaignRepository using SQL database
type Repository struct {
	db       *sql.DB
	postgres bool
}

// NewRepository creates a campaign repository for the given driver name
// ("postgres" or "sqlite3").
func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, postgres: driver == "postgres"}
}

// bind rewrites ? placeholders to the $n form lib/pq requires. Queries are
// written with ? throughout; sqlite takes them as-is.
func (r *Repository) bind(query string) string {
	if !r.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// InitializeSchema runs campaign migrations
func (r *Repository) InitializeSchema() error {
	migrations := r.getMigrations()
	for i, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			// Ignore "already exists" errors for idempotent migrations
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
		}
	}
	return nil
}

// getMigrations returns campaign-specific migrations
func (r *Repository) getMigrations() []string {
	return []string{
		// Migration 1: Campaigns table
		`CREATE TABLE IF NOT EXISTS campaigns (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			message_template TEXT NOT NULL,
			media TEXT NOT NULL DEFAULT '[]',
			search_query VARCHAR(255) NOT NULL,
			city VARCHAR(100) NOT NULL,
			state VARCHAR(100),
			country VARCHAR(100),
			min_interval_minutes INTEGER NOT NULL DEFAULT 10,
			max_interval_minutes INTEGER NOT NULL DEFAULT 20,
			total_leads INTEGER NOT NULL DEFAULT 0,
			sent_messages INTEGER NOT NULL DEFAULT 0,
			failed_messages INTEGER NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			error_message TEXT,
			next_dispatch_at TIMESTAMP,
			started_at TIMESTAMP,
			completed_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Migration 2: Campaign leads table
		`CREATE TABLE IF NOT EXISTS campaign_leads (
			id VARCHAR(36) PRIMARY KEY,
			campaign_id VARCHAR(36) NOT NULL,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			address TEXT,
			latitude REAL,
			longitude REAL,
			remote_jid VARCHAR(100),
			whatsapp_valid BOOLEAN,
			message_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			error_message TEXT,
			sent_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(campaign_id, phone)
		)`,

		// Migration 3: Messaging instances table
		`CREATE TABLE IF NOT EXISTS messaging_instances (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			instance_name VARCHAR(100) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'disconnected',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, instance_name)
		)`,

		// Migration 4: Message log table, append-only
		`CREATE TABLE IF NOT EXISTS message_logs (
			id VARCHAR(36) PRIMARY KEY,
			campaign_id VARCHAR(36) NOT NULL,
			lead_id VARCHAR(36) NOT NULL,
			user_id VARCHAR(36) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL,
			error_message TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Migration 5: General leads table mirrored from validated campaign leads
		`CREATE TABLE IF NOT EXISTS leads (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			remote_jid VARCHAR(100),
			source VARCHAR(50) NOT NULL DEFAULT 'campaign',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, phone)
		)`,

		// Migration 6: Indexes for performance
		`CREATE INDEX IF NOT EXISTS idx_campaigns_user ON campaigns(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns(status)`,
		`CREATE INDEX IF NOT EXISTS idx_campaign_leads_campaign ON campaign_leads(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_campaign_leads_status ON campaign_leads(message_status)`,
		`CREATE INDEX IF NOT EXISTS idx_message_logs_campaign ON message_logs(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messaging_instances_user ON messaging_instances(user_id)`,
	}
}

// ============================================================================
// Campaign Operations
// ============================================================================

const campaignColumns = `id, user_id, name, message_template, media, search_query, city, state, country,
	min_interval_minutes, max_interval_minutes, total_leads, sent_messages, failed_messages,
	status, error_message, next_dispatch_at, started_at, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*domainCampaign.Campaign, error) {
	campaign := &domainCampaign.Campaign{}
	var idStr, userIDStr, status, mediaJSON string
	var state, country sql.NullString
	if err := row.Scan(&idStr, &userIDStr, &campaign.Name, &campaign.MessageTemplate, &mediaJSON,
		&campaign.SearchQuery, &campaign.City, &state, &country,
		&campaign.MinIntervalMinutes, &campaign.MaxIntervalMinutes,
		&campaign.TotalLeads, &campaign.SentMessages, &campaign.FailedMessages,
		&status, &campaign.ErrorMessage, &campaign.NextDispatchAt,
		&campaign.StartedAt, &campaign.CompletedAt, &campaign.CreatedAt, &campaign.UpdatedAt); err != nil {
		return nil, err
	}
	campaign.ID, _ = uuid.Parse(idStr)
	campaign.UserID, _ = uuid.Parse(userIDStr)
	campaign.Status = domainCampaign.CampaignStatus(status)
	campaign.State = state.String
	campaign.Country = country.String
	if err := json.Unmarshal([]byte(mediaJSON), &campaign.Media); err != nil {
		campaign.Media = nil
	}
	return campaign, nil
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign *domainCampaign.Campaign) error {
	campaign.ID = uuid.New()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()
	if campaign.Status == "" {
		campaign.Status = domainCampaign.CampaignStatusDraft
	}

	mediaJSON, err := json.Marshal(campaign.Media)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.bind(`
		INSERT INTO campaigns (id, user_id, name, message_template, media, search_query, city, state, country,
			min_interval_minutes, max_interval_minutes, total_leads, sent_messages, failed_messages,
			status, error_message, next_dispatch_at, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), campaign.ID.String(), campaign.UserID.String(), campaign.Name, campaign.MessageTemplate, string(mediaJSON),
		campaign.SearchQuery, campaign.City, campaign.State, campaign.Country,
		campaign.MinIntervalMinutes, campaign.MaxIntervalMinutes,
		campaign.TotalLeads, campaign.SentMessages, campaign.FailedMessages,
		string(campaign.Status), campaign.ErrorMessage, campaign.NextDispatchAt,
		campaign.StartedAt, campaign.CompletedAt, campaign.CreatedAt, campaign.UpdatedAt)
	return err
}

func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (*domainCampaign.Campaign, error) {
	row := r.db.QueryRowContext(ctx, r.bind(`
		SELECT `+campaignColumns+` FROM campaigns WHERE id = ?
	`), id.String())
	campaign, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

func (r *Repository) ListCampaigns(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domainCampaign.Campaign, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.bind("SELECT COUNT(*) FROM campaigns WHERE user_id = ?"), userID.String()).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, r.bind(`
		SELECT `+campaignColumns+` FROM campaigns WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?
	`), userID.String(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var campaigns []*domainCampaign.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, total, rows.Err()
}

func (r *Repository) ListCampaignsByStatus(ctx context.Context, statuses []domainCampaign.CampaignStatus) ([]*domainCampaign.Campaign, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		placeholders[i] = "?"
		args[i] = string(s)
	}

	rows, err := r.db.QueryContext(ctx, r.bind(`
		SELECT `+campaignColumns+` FROM campaigns WHERE status IN (`+strings.Join(placeholders, ", ")+`) ORDER BY created_at ASC
	`), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*domainCampaign.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *Repository) UpdateCampaign(ctx context.Context, campaign *domainCampaign.Campaign) error {
	campaign.UpdatedAt = time.Now()

	mediaJSON, err := json.Marshal(campaign.Media)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.bind(`
		UPDATE campaigns SET name = ?, message_template = ?, media = ?, search_query = ?, city = ?, state = ?, country = ?,
			min_interval_minutes = ?, max_interval_minutes = ?, total_leads = ?, sent_messages = ?, failed_messages = ?,
			status = ?, error_message = ?, next_dispatch_at = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`), campaign.Name, campaign.MessageTemplate, string(mediaJSON), campaign.SearchQuery, campaign.City,
		campaign.State, campaign.Country, campaign.MinIntervalMinutes, campaign.MaxIntervalMinutes,
		campaign.TotalLeads, campaign.SentMessages, campaign.FailedMessages,
		string(campaign.Status), campaign.ErrorMessage, campaign.NextDispatchAt,
		campaign.StartedAt, campaign.CompletedAt, campaign.UpdatedAt, campaign.ID.String())
	return err
}

func (r *Repository) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, _ = tx.ExecContext(ctx, r.bind(`DELETE FROM campaign_leads WHERE campaign_id = ?`), id.String())
	_, _ = tx.ExecContext(ctx, r.bind(`DELETE FROM message_logs WHERE campaign_id = ?`), id.String())
	_, err = tx.ExecContext(ctx, r.bind(`DELETE FROM campaigns WHERE id = ?`), id.String())
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ============================================================================
// Campaign Lead Operations
// ============================================================================

const leadColumns = `id, campaign_id, user_id, name, phone, address, latitude, longitude,
	remote_jid, whatsapp_valid, message_status, error_message, sent_at, created_at, updated_at`

func scanLead(row rowScanner) (*domainCampaign.CampaignLead, error) {
	lead := &domainCampaign.CampaignLead{}
	var idStr, campaignIDStr, userIDStr, status string
	if err := row.Scan(&idStr, &campaignIDStr, &userIDStr, &lead.Name, &lead.Phone, &lead.Address,
		&lead.Latitude, &lead.Longitude, &lead.RemoteJID, &lead.WhatsAppValid,
		&status, &lead.ErrorMessage, &lead.SentAt, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return nil, err
	}
	lead.ID, _ = uuid.Parse(idStr)
	lead.CampaignID, _ = uuid.Parse(campaignIDStr)
	lead.UserID, _ = uuid.Parse(userIDStr)
	lead.MessageStatus = domainCampaign.MessageStatus(status)
	return lead, nil
}

func (r *Repository) CreateCampaignLead(ctx context.Context, lead *domainCampaign.CampaignLead) error {
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = time.Now()
	if lead.MessageStatus == "" {
		lead.MessageStatus = domainCampaign.MessageStatusPending
	}

	_, err := r.db.ExecContext(ctx, r.bind(`
		INSERT INTO campaign_leads (id, campaign_id, user_id, name, phone, address, latitude, longitude,
			remote_jid, whatsapp_valid, message_status, error_message, sent_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(campaign_id, phone) DO NOTHING
	`), lead.ID.String(), lead.CampaignID.String(), lead.UserID.String(), lead.Name, lead.Phone,
		lead.Address, lead.Latitude, lead.Longitude, lead.RemoteJID, lead.WhatsAppValid,
		string(lead.MessageStatus), lead.ErrorMessage, lead.SentAt, lead.CreatedAt, lead.UpdatedAt)
	return err
}

func (r *Repository) GetCampaignLeadByPhone(ctx context.Context, campaignID uuid.UUID, phone string) (*domainCampaign.CampaignLead, error) {
	row := r.db.QueryRowContext(ctx, r.bind(`
		SELECT `+leadColumns+` FROM campaign_leads WHERE campaign_id = ? AND phone = ?
	`), campaignID.String(), phone)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *Repository) ListCampaignLeads(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*domainCampaign.CampaignLead, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.bind("SELECT COUNT(*) FROM campaign_leads WHERE campaign_id = ?"), campaignID.String()).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, r.bind(`
		SELECT `+leadColumns+` FROM campaign_leads WHERE campaign_id = ? ORDER BY created_at ASC LIMIT ? OFFSET ?
	`), campaignID.String(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []*domainCampaign.CampaignLead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	return leads, total, rows.Err()
}

func (r *Repository) ListUncheckedLeads(ctx context.Context, campaignID uuid.UUID) ([]*domainCampaign.CampaignLead, error) {
	rows, err := r.db.QueryContext(ctx, r.bind(`
		SELECT `+leadColumns+` FROM campaign_leads
		WHERE campaign_id = ? AND whatsapp_valid IS NULL
		ORDER BY created_at ASC
	`), campaignID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*domainCampaign.CampaignLead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *Repository) NextSendableLead(ctx context.Context, campaignID uuid.UUID) (*domainCampaign.CampaignLead, error) {
	row := r.db.QueryRowContext(ctx, r.bind(`
		SELECT `+leadColumns+` FROM campaign_leads
		WHERE campaign_id = ? AND whatsapp_valid = TRUE AND message_status = 'pending'
		ORDER BY created_at ASC
		LIMIT 1
	`), campaignID.String())
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *Repository) HasSendableLead(ctx context.Context, campaignID uuid.UUID) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.bind(`
		SELECT COUNT(*) FROM campaign_leads
		WHERE campaign_id = ? AND whatsapp_valid = TRUE AND message_status = 'pending'
	`), campaignID.String()).Scan(&count)
	return count > 0, err
}

func (r *Repository) UpdateCampaignLead(ctx context.Context, lead *domainCampaign.CampaignLead) error {
	lead.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, r.bind(`
		UPDATE campaign_leads SET name = ?, phone = ?, address = ?, latitude = ?, longitude = ?,
			remote_jid = ?, whatsapp_valid = ?, message_status = ?, error_message = ?, sent_at = ?, updated_at = ?
		WHERE id = ?
	`), lead.Name, lead.Phone, lead.Address, lead.Latitude, lead.Longitude,
		lead.RemoteJID, lead.WhatsAppValid, string(lead.MessageStatus), lead.ErrorMessage,
		lead.SentAt, lead.UpdatedAt, lead.ID.String())
	return err
}

func (r *Repository) GetCampaignStats(ctx context.Context, campaignID uuid.UUID) (*domainCampaign.CampaignStats, error) {
	stats := &domainCampaign.CampaignStats{}
	err := r.db.QueryRowContext(ctx, r.bind(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN whatsapp_valid = TRUE THEN 1 ELSE 0 END), 0) as valid,
			COALESCE(SUM(CASE WHEN message_status = 'sent' THEN 1 ELSE 0 END), 0) as sent,
			COALESCE(SUM(CASE WHEN message_status = 'failed' THEN 1 ELSE 0 END), 0) as failed
		FROM campaign_leads WHERE campaign_id = ?
	`), campaignID.String()).Scan(&stats.TotalLeads, &stats.ValidLeads, &stats.SentMessages, &stats.FailedMessages)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ============================================================================
// Messaging Instance Operations
// ============================================================================

const instanceColumns = `id, user_id, instance_name, status, created_at, updated_at`

func scanInstance(row rowScanner) (*domainCampaign.MessagingInstance, error) {
	instance := &domainCampaign.MessagingInstance{}
	var idStr, userIDStr string
	if err := row.Scan(&idStr, &userIDStr, &instance.InstanceName, &instance.Status,
		&instance.CreatedAt, &instance.UpdatedAt); err != nil {
		return nil, err
	}
	instance.ID, _ = uuid.Parse(idStr)
	instance.UserID, _ = uuid.Parse(userIDStr)
	return instance, nil
}

func (r *Repository) GetConnectedInstance(ctx context.Context, userID uuid.UUID) (*domainCampaign.MessagingInstance, error) {
	row := r.db.QueryRowContext(ctx, r.bind(`
		SELECT `+instanceColumns+` FROM messaging_instances
		WHERE user_id = ? AND status = 'connected'
		ORDER BY updated_at DESC
		LIMIT 1
	`), userID.String())
	instance, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func (r *Repository) GetAnyInstance(ctx context.Context, userID uuid.UUID) (*domainCampaign.MessagingInstance, error) {
	row := r.db.QueryRowContext(ctx, r.bind(`
		SELECT `+instanceColumns+` FROM messaging_instances
		WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`), userID.String())
	instance, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func (r *Repository) ListInstances(ctx context.Context, userID uuid.UUID) ([]*domainCampaign.MessagingInstance, error) {
	rows, err := r.db.QueryContext(ctx, r.bind(`
		SELECT `+instanceColumns+` FROM messaging_instances WHERE user_id = ? ORDER BY created_at ASC
	`), userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []*domainCampaign.MessagingInstance
	for rows.Next() {
		instance, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, rows.Err()
}

func (r *Repository) UpdateInstanceStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.ExecContext(ctx, r.bind(`
		UPDATE messaging_instances SET status = ?, updated_at = ? WHERE id = ?
	`), status, time.Now(), id.String())
	return err
}

// ============================================================================
// Message Log Operations
// ============================================================================

func (r *Repository) AppendMessageLog(ctx context.Context, entry *domainCampaign.MessageLogEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, r.bind(`
		INSERT INTO message_logs (id, campaign_id, lead_id, user_id, phone, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), entry.ID.String(), entry.CampaignID.String(), entry.LeadID.String(), entry.UserID.String(),
		entry.Phone, string(entry.Status), entry.ErrorMessage, entry.CreatedAt)
	return err
}

func (r *Repository) ListMessageLogs(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*domainCampaign.MessageLogEntry, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.bind("SELECT COUNT(*) FROM message_logs WHERE campaign_id = ?"), campaignID.String()).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, r.bind(`
		SELECT id, campaign_id, lead_id, user_id, phone, status, error_message, created_at
		FROM message_logs WHERE campaign_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?
	`), campaignID.String(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*domainCampaign.MessageLogEntry
	for rows.Next() {
		entry := &domainCampaign.MessageLogEntry{}
		var idStr, campaignIDStr, leadIDStr, userIDStr, status string
		if err := rows.Scan(&idStr, &campaignIDStr, &leadIDStr, &userIDStr, &entry.Phone,
			&status, &entry.ErrorMessage, &entry.CreatedAt); err != nil {
			return nil, 0, err
		}
		entry.ID, _ = uuid.Parse(idStr)
		entry.CampaignID, _ = uuid.Parse(campaignIDStr)
		entry.LeadID, _ = uuid.Parse(leadIDStr)
		entry.UserID, _ = uuid.Parse(userIDStr)
		entry.Status = domainCampaign.MessageStatus(status)
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

// ============================================================================
// General Lead Operations
// ============================================================================

func (r *Repository) CreateLead(ctx context.Context, lead *domainCampaign.Lead) error {
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	if lead.Source == "" {
		lead.Source = "campaign"
	}

	_, err := r.db.ExecContext(ctx, r.bind(`
		INSERT INTO leads (id, user_id, name, phone, remote_jid, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, phone) DO NOTHING
	`), lead.ID.String(), lead.UserID.String(), lead.Name, lead.Phone, lead.RemoteJID, lead.Source, lead.CreatedAt)
	return err
}
