package config

import "time"

var (
	AppPort  = "3000"
	AppDebug = false

	// DBURI selects the driver: postgres:// DSNs use lib/pq, anything else
	// is treated as a sqlite3 file path.
	DBURI = "file:storages/zapleads.db?_foreign_keys=on"

	// Maps provider
	MapsBaseURL = "https://maps.googleapis.com/maps/api"
	MapsAPIKey  = ""

	// Messaging provider (Evolution-compatible HTTP API)
	MessagingBaseURL = ""
	MessagingAPIKey  = ""

	// Outbound gateway calls get a single bounded attempt
	GatewayTimeout = 30 * time.Second

	// Worker supervisor poll period
	WorkerPollInterval = 30 * time.Second

	// Dispatch jitter defaults, in minutes, when a campaign has none set
	CampaignMinIntervalMinutes = 10
	CampaignMaxIntervalMinutes = 20

	// Provider pacing delays
	SearchMaxPages       = 3
	SearchPageDelay      = 2 * time.Second
	PlaceDetailDelay     = 200 * time.Millisecond
	ValidationCheckDelay = 1 * time.Second
	MediaItemDelay       = 2 * time.Second
)
