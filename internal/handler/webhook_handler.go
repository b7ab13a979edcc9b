package handler

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fiihub/fii-portal-api/internal/service"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// signatureTolerance bounds how old a webhook timestamp may be.
const signatureTolerance = 5 * time.Minute

// Billing provider event types this portal reacts to.
const (
	eventInvoicePaid         = "invoice.paid"
	eventSubscriptionDeleted = "customer.subscription.deleted"
)

// WebhookHandler ingests billing provider webhooks. It is the only write path
// into the subscriptions table.
type WebhookHandler struct {
	subscriptions *service.SubscriptionService
	webhookSecret string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(subscriptions *service.SubscriptionService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{subscriptions: subscriptions, webhookSecret: webhookSecret}
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID         string `json:"id"`
			Customer   string `json:"customer"`
			CustomerID string `json:"customer_id"`
			Metadata   struct {
				UserID string `json:"user_id"`
				Email  string `json:"email"`
				Plan   string `json:"plan"`
			} `json:"metadata"`
			Subscription string `json:"subscription"`
		} `json:"object"`
	} `json:"data"`
}

// HandleStripeWebhook handles POST /api/webhooks/stripe
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// 1. Read body
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid body"})
		return
	}

	// 2. Verify signature over the raw body
	signature := c.GetHeader("Stripe-Signature")
	if !utils.VerifyStripeSignature(body, signature, h.webhookSecret, signatureTolerance) {
		log.Warn().Str("ip", c.ClientIP()).Msg("webhook signature verification failed")
		c.JSON(400, gin.H{"error": "Invalid signature"})
		return
	}

	// 3. Parse payload
	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}

	// 4. Apply event
	ctx := c.Request.Context()
	switch event.Type {
	case eventInvoicePaid:
		obj := event.Data.Object
		err = h.subscriptions.ApplyInvoicePaid(ctx,
			obj.Metadata.UserID,
			obj.Metadata.Email,
			obj.Metadata.Plan,
			obj.Subscription,
			obj.Customer,
		)
	case eventSubscriptionDeleted:
		err = h.subscriptions.ApplySubscriptionDeleted(ctx, event.Data.Object.ID)
	default:
		// Unknown events are acknowledged so the provider stops retrying.
		log.Debug().Str("type", event.Type).Msg("ignoring webhook event")
	}

	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("Failed to process billing webhook")
		c.JSON(500, gin.H{"error": "Processing failed"})
		return
	}

	c.JSON(200, gin.H{"received": true})
}
