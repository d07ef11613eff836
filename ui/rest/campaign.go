package rest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	domainCampaign "github.com/zapleads/zapleads/domains/campaign"
	"github.com/zapleads/zapleads/pkg/utils"
)

// Campaign handles campaign REST endpoints
type Campaign struct {
	Service domainCampaign.ICampaignUsecase
	Worker  domainCampaign.IWorkerUsecase
}

// InitRestCampaign registers all campaign routes
func InitRestCampaign(app fiber.Router, service domainCampaign.ICampaignUsecase, worker domainCampaign.IWorkerUsecase) Campaign {
	rest := Campaign{Service: service, Worker: worker}

	campaigns := app.Group("/campaigns")
	campaigns.Get("/", rest.ListCampaigns)
	campaigns.Post("/", rest.CreateCampaign)
	campaigns.Get("/:id", rest.GetCampaign)
	campaigns.Put("/:id", rest.UpdateCampaign)
	campaigns.Delete("/:id", rest.DeleteCampaign)
	campaigns.Post("/:id/cancel", rest.CancelCampaign)
	campaigns.Get("/:id/leads", rest.ListCampaignLeads)
	campaigns.Get("/:id/logs", rest.ListMessageLogs)

	// Worker lifecycle
	campaigns.Post("/:id/launch", rest.LaunchCampaign)
	campaigns.Post("/:id/stop", rest.StopCampaign)
	campaigns.Post("/:id/resume", rest.ResumeCampaign)

	app.Get("/worker/status", rest.WorkerStatus)
	app.Get("/instances", rest.ListInstances)

	return rest
}

// getUserID reads the identity injected by the auth middleware. Requests
// without one are rejected before reaching the usecase layer.
func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Get("X-User-ID"))
	if err != nil {
		return uuid.Nil, c.Status(401).JSON(utils.ResponseData{
			Status:  401,
			Code:    "UNAUTHORIZED",
			Message: "Missing or invalid user identity",
		})
	}
	return id, nil
}

func campaignID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "ERROR",
			Message: "Invalid campaign id",
		})
	}
	return id, nil
}

// ============================================================================
// Campaign Endpoints
// ============================================================================

func (h *Campaign) ListCampaigns(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	result, err := h.Service.ListCampaigns(c.UserContext(), userID, page, pageSize)
	if err != nil {
		return c.Status(500).JSON(utils.ResponseData{Status: 500, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaigns retrieved", Results: result})
}

func (h *Campaign) CreateCampaign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req domainCampaign.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: "Invalid request body"})
	}
	req.UserID = userID

	campaign, err := h.Service.CreateCampaign(c.UserContext(), req)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaign created", Results: campaign})
}

func (h *Campaign) GetCampaign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	campaign, err := h.Service.GetCampaign(c.UserContext(), userID, id)
	if err != nil {
		return c.Status(500).JSON(utils.ResponseData{Status: 500, Code: "ERROR", Message: err.Error()})
	}
	if campaign == nil {
		return c.Status(404).JSON(utils.ResponseData{Status: 404, Code: "NOT_FOUND", Message: "Campaign not found"})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaign retrieved", Results: campaign})
}

func (h *Campaign) UpdateCampaign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	var req domainCampaign.UpdateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: "Invalid request body"})
	}
	req.UserID = userID
	req.ID = id

	campaign, err := h.Service.UpdateCampaign(c.UserContext(), req)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaign updated", Results: campaign})
}

func (h *Campaign) DeleteCampaign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	if err := h.Service.DeleteCampaign(c.UserContext(), userID, id); err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaign deleted"})
}

func (h *Campaign) CancelCampaign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	if err := h.Service.CancelCampaign(c.UserContext(), userID, id); err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaign cancelled"})
}

func (h *Campaign) ListCampaignLeads(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	result, err := h.Service.ListCampaignLeads(c.UserContext(), userID, id, page, pageSize)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Leads retrieved", Results: result})
}

func (h *Campaign) ListMessageLogs(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	result, err := h.Service.ListMessageLogs(c.UserContext(), userID, id, page, pageSize)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Message log retrieved", Results: result})
}

func (h *Campaign) ListInstances(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	instances, err := h.Service.ListInstances(c.UserContext(), userID)
	if err != nil {
		return c.Status(500).JSON(utils.ResponseData{Status: 500, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Instances retrieved", Results: instances})
}

// ============================================================================
// Worker Endpoints
// ============================================================================

func (h *Campaign) LaunchCampaign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	if err := h.Worker.LaunchCampaign(c.UserContext(), userID, id); err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaign launched"})
}

func (h *Campaign) StopCampaign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	if err := h.Worker.StopCampaign(c.UserContext(), userID, id); err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaign stopped"})
}

func (h *Campaign) ResumeCampaign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := campaignID(c)
	if err != nil {
		return err
	}

	if err := h.Worker.ResumeCampaign(c.UserContext(), userID, id); err != nil {
		return c.Status(400).JSON(utils.ResponseData{Status: 400, Code: "ERROR", Message: err.Error()})
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Campaign resumed"})
}

func (h *Campaign) WorkerStatus(c *fiber.Ctx) error {
	if _, err := getUserID(c); err != nil {
		return err
	}

	return c.JSON(utils.ResponseData{Status: 200, Code: "SUCCESS", Message: "Worker status", Results: h.Worker.Status()})
}
