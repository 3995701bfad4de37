package controller

import (
	"sms-assistant-be/internal/dto"
	"sms-assistant-be/internal/pkg/serverutils"
	"sms-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMemberController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Conversations(ctx *fiber.Ctx) error
	PollResults(ctx *fiber.Ctx) error
}

type memberController struct {
	memberService service.IMemberService
}

func NewMemberController(memberService service.IMemberService) IMemberController {
	return &memberController{
		memberService: memberService,
	}
}

func (c *memberController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/member/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get("conversations", c.Conversations)
	h.Get("poll/:actionId/results", c.PollResults)
}

func (c *memberController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.memberService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create member", res))
}

func (c *memberController) List(ctx *fiber.Ctx) error {
	res, err := c.memberService.List(ctx.Context(), ctx.Query("role"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list members", res))
}

func (c *memberController) Conversations(ctx *fiber.Ctx) error {
	res, err := c.memberService.Conversations(ctx.Context(), ctx.Query("phone"), ctx.QueryInt("limit"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

func (c *memberController) PollResults(ctx *fiber.Ctx) error {
	actionId, err := uuid.Parse(ctx.Params("actionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid action id")
	}

	res, err := c.memberService.PollResults(ctx.Context(), actionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success poll results", res))
}
