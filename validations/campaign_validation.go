package validations

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	domainCampaign "github.com/zapleads/zapleads/domains/campaign"
)

var mediaTypes = []any{"image", "video", "document", "audio"}

func validateMedia(value any) error {
	media, _ := value.([]domainCampaign.MediaAttachment)
	for _, m := range media {
		if err := validation.ValidateStruct(&m,
			validation.Field(&m.Type, validation.Required, validation.In(mediaTypes...)),
			validation.Field(&m.URL, validation.Required, is.URL),
		); err != nil {
			return err
		}
	}
	return nil
}

func validateIntervals(min, max int) error {
	if min < 0 || max < 0 {
		return errors.New("dispatch intervals must not be negative")
	}
	if max > 0 && max < min {
		return errors.New("max_interval_minutes must not be lower than min_interval_minutes")
	}
	return nil
}

// ValidateCreateCampaign checks a campaign creation request
func ValidateCreateCampaign(ctx context.Context, req domainCampaign.CreateCampaignRequest) error {
	err := validation.ValidateStructWithContext(ctx, &req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.MessageTemplate, validation.Required),
		validation.Field(&req.SearchQuery, validation.Required),
		validation.Field(&req.City, validation.Required),
		validation.Field(&req.Media, validation.By(validateMedia)),
	)
	if err != nil {
		return err
	}
	return validateIntervals(req.MinIntervalMinutes, req.MaxIntervalMinutes)
}

// ValidateUpdateCampaign checks a campaign update request
func ValidateUpdateCampaign(ctx context.Context, req domainCampaign.UpdateCampaignRequest) error {
	err := validation.ValidateStructWithContext(ctx, &req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.MessageTemplate, validation.Required),
		validation.Field(&req.SearchQuery, validation.Required),
		validation.Field(&req.City, validation.Required),
		validation.Field(&req.Media, validation.By(validateMedia)),
	)
	if err != nil {
		return err
	}
	return validateIntervals(req.MinIntervalMinutes, req.MaxIntervalMinutes)
}
