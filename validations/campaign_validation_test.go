package validations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainCampaign "github.com/zapleads/zapleads/domains/campaign"
)

func validCreateRequest() domainCampaign.CreateCampaignRequest {
	return domainCampaign.CreateCampaignRequest{
		Name:               "Pizzarias Curitiba",
		MessageTemplate:    "Olá! Temos uma oferta para você.",
		SearchQuery:        "pizzaria",
		City:               "Curitiba",
		MinIntervalMinutes: 10,
		MaxIntervalMinutes: 20,
	}
}

func TestValidateCreateCampaign(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateCreateCampaign(ctx, validCreateRequest()))

	req := validCreateRequest()
	req.Name = ""
	assert.Error(t, ValidateCreateCampaign(ctx, req))

	req = validCreateRequest()
	req.MessageTemplate = ""
	assert.Error(t, ValidateCreateCampaign(ctx, req))

	req = validCreateRequest()
	req.SearchQuery = ""
	assert.Error(t, ValidateCreateCampaign(ctx, req))

	req = validCreateRequest()
	req.City = ""
	assert.Error(t, ValidateCreateCampaign(ctx, req))
}

func TestValidateCreateCampaignMedia(t *testing.T) {
	ctx := context.Background()

	req := validCreateRequest()
	req.Media = []domainCampaign.MediaAttachment{
		{Type: "image", URL: "https://cdn.example.com/promo.png"},
	}
	assert.NoError(t, ValidateCreateCampaign(ctx, req))

	req.Media = []domainCampaign.MediaAttachment{
		{Type: "spreadsheet", URL: "https://cdn.example.com/planilha.xlsx"},
	}
	assert.Error(t, ValidateCreateCampaign(ctx, req))

	req.Media = []domainCampaign.MediaAttachment{
		{Type: "image", URL: "not a url"},
	}
	assert.Error(t, ValidateCreateCampaign(ctx, req))

	req.Media = []domainCampaign.MediaAttachment{
		{Type: "image"},
	}
	assert.Error(t, ValidateCreateCampaign(ctx, req))
}

func TestValidateCreateCampaignIntervals(t *testing.T) {
	ctx := context.Background()

	// Zeroes fall back to the configured defaults downstream
	req := validCreateRequest()
	req.MinIntervalMinutes = 0
	req.MaxIntervalMinutes = 0
	assert.NoError(t, ValidateCreateCampaign(ctx, req))

	req = validCreateRequest()
	req.MinIntervalMinutes = -1
	assert.Error(t, ValidateCreateCampaign(ctx, req))

	req = validCreateRequest()
	req.MinIntervalMinutes = 30
	req.MaxIntervalMinutes = 10
	assert.Error(t, ValidateCreateCampaign(ctx, req))
}

func TestValidateUpdateCampaign(t *testing.T) {
	ctx := context.Background()

	req := domainCampaign.UpdateCampaignRequest{
		Name:            "Pizzarias Curitiba",
		MessageTemplate: "Olá!",
		SearchQuery:     "pizzaria",
		City:            "Curitiba",
	}
	assert.NoError(t, ValidateUpdateCampaign(ctx, req))

	req.City = ""
	assert.Error(t, ValidateUpdateCampaign(ctx, req))
}
