package controller

import (
	"encoding/xml"
	"log"
	"time"

	"sms-assistant-be/internal/dto"
	"sms-assistant-be/internal/pkg/serverutils"
	"sms-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	InboundSms(ctx *fiber.Ctx) error
}

type webhookController struct {
	turnService  service.ITurnService
	redisClient  *redis.Client
	smsAuthToken string
}

func NewWebhookController(turnService service.ITurnService, redisClient *redis.Client, smsAuthToken string) IWebhookController {
	return &webhookController{
		turnService:  turnService,
		redisClient:  redisClient,
		smsAuthToken: smsAuthToken,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Use(serverutils.WebhookVerify(c.smsAuthToken))
	h.Post("sms", c.InboundSms)
}

// dedupeTTL covers provider retry windows. A MessageSid seen twice inside
// it is the same message redelivered.
const dedupeTTL = 24 * time.Hour

// twimlResponse is the gateway reply envelope.
type twimlResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

func (c *webhookController) InboundSms(ctx *fiber.Ctx) error {
	var req dto.InboundSmsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	fresh, err := c.redisClient.SetNX(ctx.Context(), "sms:sid:"+req.MessageSid, 1, dedupeTTL).Result()
	if err != nil {
		// Dedupe is best effort; a degraded Redis must not drop messages.
		log.Printf("[WEBHOOK] dedupe check failed for %s: %v", req.MessageSid, err)
		fresh = true
	}
	if !fresh {
		return c.reply(ctx, nil)
	}

	res, err := c.turnService.Handle(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return c.reply(ctx, res.Replies)
}

func (c *webhookController) reply(ctx *fiber.Ctx, messages []string) error {
	body, err := xml.Marshal(twimlResponse{Messages: messages})
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, "application/xml")
	return ctx.SendString(xml.Header + string(body))
}
