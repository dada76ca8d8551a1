package controller

import (
	"workspace-disputes-be/internal/apperr"
	"workspace-disputes-be/internal/dto"
	"workspace-disputes-be/internal/pkg/serverutils"
	"workspace-disputes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDisputeController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error
	GetMyDisputes(ctx *fiber.Ctx) error
	GetBookingDisputes(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Escalate(ctx *fiber.Ctx) error
	Resolve(ctx *fiber.Ctx) error
	Assign(ctx *fiber.Ctx) error
	Reopen(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type disputeController struct {
	service      service.IDisputeService
	statsService service.IStatsService
}

func NewDisputeController(disputeService service.IDisputeService, statsService service.IStatsService) IDisputeController {
	return &disputeController{
		service:      disputeService,
		statsService: statsService,
	}
}

func (c *disputeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/disputes/v1")
	h.Use(serverutils.JwtMiddleware)

	// Static paths before the :id wildcard.
	h.Post("", c.Create)
	h.Get("", serverutils.RequireRoles("admin", "moderator"), c.GetAll)
	h.Get("stats", serverutils.RequireRoles("admin", "moderator"), c.GetStats)
	h.Get("my-disputes", c.GetMyDisputes)
	h.Get("booking/:bookingId", c.GetBookingDisputes)
	h.Get(":id", c.Show)
	h.Patch(":id", c.Update)
	h.Post(":id/escalate", c.Escalate)
	h.Post(":id/resolve", c.Resolve)
	h.Post(":id/assign", serverutils.RequireRoles("admin"), c.Assign)
	h.Post(":id/reopen", serverutils.RequireRoles("admin"), c.Reopen)
	h.Delete(":id", serverutils.RequireRoles("admin"), c.Delete)
}

func callerId(ctx *fiber.Ctx) (uuid.UUID, error) {
	idStr, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperr.BadRequest("invalid caller identity in token")
	}
	return id, nil
}

func pathId(ctx *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(param))
	if err != nil {
		return uuid.Nil, apperr.BadRequest("invalid " + param + " parameter")
	}
	return id, nil
}

func (c *disputeController) Create(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateDisputeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), caller, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Dispute created", res))
}

func (c *disputeController) GetAll(ctx *fiber.Ctx) error {
	var query dto.DisputeQueryRequest
	if err := ctx.QueryParser(&query); err != nil {
		return apperr.BadRequest("invalid query parameters")
	}

	res, err := c.service.GetAll(ctx.Context(), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get disputes", res))
}

func (c *disputeController) GetStats(ctx *fiber.Ctx) error {
	res, err := c.statsService.GetStats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get dispute stats", res))
}

func (c *disputeController) GetMyDisputes(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}

	var query dto.DisputeQueryRequest
	if err := ctx.QueryParser(&query); err != nil {
		return apperr.BadRequest("invalid query parameters")
	}

	res, err := c.service.GetUserDisputes(ctx.Context(), caller, &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get my disputes", res))
}

func (c *disputeController) GetBookingDisputes(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}
	bookingId, err := pathId(ctx, "bookingId")
	if err != nil {
		return err
	}

	res, err := c.service.GetBookingDisputes(ctx.Context(), caller, bookingId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get booking disputes", res))
}

func (c *disputeController) Show(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.Context(), caller, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show dispute", res))
}

func (c *disputeController) Update(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateDisputeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), caller, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Dispute updated", res))
}

func (c *disputeController) Escalate(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.EscalateDisputeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Escalate(ctx.Context(), caller, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Dispute escalated", res))
}

func (c *disputeController) Resolve(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.ResolveDisputeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Resolve(ctx.Context(), caller, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Dispute resolved", res))
}

func (c *disputeController) Assign(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.AssignDisputeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Assign(ctx.Context(), caller, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Dispute assigned", res))
}

func (c *disputeController) Reopen(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.ReopenDisputeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Reopen(ctx.Context(), caller, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Dispute reopened", res))
}

// Delete physically removes the dispute and its timeline. Downstream
// archival happens off the DISPUTE_DELETED event; tombstoning instead of
// deleting is pending product review.
func (c *disputeController) Delete(ctx *fiber.Ctx) error {
	caller, err := callerId(ctx)
	if err != nil {
		return err
	}
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), caller, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Dispute deleted", nil))
}
