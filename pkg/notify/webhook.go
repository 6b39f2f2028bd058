package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/zammad-bridge/pkg/util/errorutil"
	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

// Defaults for the webhook ingestion endpoint.
const (
	DefaultWebhookPath     = "/webhooks/zammad"
	DefaultSignatureHeader = "X-Zammad-Signature"
	DefaultEventHeader     = "X-Zammad-Event"

	signaturePrefix = "sha256="
)

// WebhookConfig configures the webhook ingestion path. Zero values fall
// back to the defaults above. An empty Secret disables signature
// verification entirely (open mode); that is a deliberate escape hatch
// for instances that cannot sign, not a secure default.
type WebhookConfig struct {
	Path            string
	Secret          string
	SignatureHeader string
	EventHeader     string
}

func (c WebhookConfig) withDefaults() WebhookConfig {
	if c.Path == "" {
		c.Path = DefaultWebhookPath
	}
	if c.SignatureHeader == "" {
		c.SignatureHeader = DefaultSignatureHeader
	}
	if c.EventHeader == "" {
		c.EventHeader = DefaultEventHeader
	}
	return c
}

// WebhookHandler converts one authenticated inbound request into at most
// one event and publishes it through the monitor.
type WebhookHandler struct {
	monitor *Monitor
	users   *UserResolver
	logger  *zap.Logger
	cfg     WebhookConfig
}

// NewWebhookHandler constructs the handler.
func NewWebhookHandler(monitor *Monitor, users *UserResolver, logger *zap.Logger, cfg WebhookConfig) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		monitor: monitor,
		users:   users,
		logger:  logger,
		cfg:     cfg.withDefaults(),
	}
}

// Path returns the route the handler expects to be mounted on.
func (h *WebhookHandler) Path() string {
	return h.cfg.Path
}

type webhookPayload struct {
	Ticket             json.RawMessage `json:"ticket"`
	Article            json.RawMessage `json:"article"`
	Previous           json.RawMessage `json:"previous"`
	Changes            map[string]any  `json:"changes"`
	IsSplit            bool            `json:"is_split"`
	SplitFromTicketID  *int            `json:"split_from_ticket_id"`
	SplitFromArticleID *int            `json:"split_from_article_id"`
	ClosedAt           *time.Time      `json:"closed_at"`
}

// Handle processes one webhook POST. Callers see exactly four outcomes:
// 200 (processed, possibly a no-op), 401 (bad signature), 400 (missing
// event header), 500 (unexpected internal failure).
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()

	if err := h.verifySignature(body, c.Get(h.cfg.SignatureHeader)); err != nil {
		h.logger.Warn("webhook signature rejected", zap.Error(err))
		return apperrors.NewUnauthorized("invalid webhook signature")
	}

	kind := strings.TrimSpace(c.Get(h.cfg.EventHeader))
	if kind == "" {
		h.logger.Warn("webhook event header missing", zap.String("header", h.cfg.EventHeader))
		return apperrors.NewValidationError("missing event header", map[string]any{"header": h.cfg.EventHeader})
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn("webhook payload not decodable", zap.String("event", kind), zap.Error(err))
		return ok(c)
	}
	if isEmptyJSON(payload.Ticket) {
		// Ticket-less pings are expected from the source system.
		h.logger.Debug("webhook payload without ticket", zap.String("event", kind))
		return ok(c)
	}

	var ticket zammad.Ticket
	if err := json.Unmarshal(payload.Ticket, &ticket); err != nil {
		h.logger.Warn("webhook ticket not decodable", zap.String("event", kind), zap.Error(err))
		return ok(c)
	}

	event, err := h.eventFor(c, Kind(kind), payload, ticket)
	if err != nil {
		return err
	}
	if event == nil {
		return ok(c)
	}

	h.monitor.Publish(c.UserContext(), event)
	return ok(c)
}

// verifySignature checks the HMAC-SHA256 hex signature of the raw body.
// No configured secret means open mode: every request passes.
func (h *WebhookHandler) verifySignature(body []byte, header string) error {
	if h.cfg.Secret == "" {
		return nil
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return fmt.Errorf("signature header missing")
	}
	if len(header) >= len(signaturePrefix) && strings.EqualFold(header[:len(signaturePrefix)], signaturePrefix) {
		header = header[len(signaturePrefix):]
	}

	mac := hmac.New(sha256.New, []byte(h.cfg.Secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(strings.ToLower(header)), []byte(want)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

func (h *WebhookHandler) eventFor(c *fiber.Ctx, kind Kind, payload webhookPayload, ticket zammad.Ticket) (Event, error) {
	ctx := c.UserContext()

	switch kind {
	case KindTicketCreated:
		creator, err := h.users.Resolve(ctx, ticket.CreatedByID)
		if err != nil {
			return nil, fmt.Errorf("resolve creator of ticket %d: %w", ticket.ID, err)
		}
		return TicketCreatedEvent{
			ID:           newEventID(),
			Ticket:       ticket,
			FirstArticle: h.decodeArticle(payload.Article, ticket),
			Creator:      creator,
			ObservedAt:   time.Now(),
		}, nil

	case KindTicketUpdated:
		previous := ticket
		if !isEmptyJSON(payload.Previous) {
			if err := json.Unmarshal(payload.Previous, &previous); err != nil {
				h.logger.Warn("webhook previous ticket not decodable", zap.Int("ticket_id", ticket.ID), zap.Error(err))
				previous = ticket
			}
		}
		changes := payload.Changes
		if changes == nil {
			changes = map[string]any{}
		}
		updater, err := h.users.Resolve(ctx, ticket.UpdatedByID)
		if err != nil {
			return nil, fmt.Errorf("resolve updater of ticket %d: %w", ticket.ID, err)
		}
		return TicketUpdatedEvent{
			ID:            newEventID(),
			Ticket:        ticket,
			Previous:      previous,
			ChangedFields: changes,
			UpdatedBy:     updater,
		}, nil

	case KindTicketClosed:
		closer, err := h.users.Resolve(ctx, ticket.UpdatedByID)
		if err != nil {
			return nil, fmt.Errorf("resolve closer of ticket %d: %w", ticket.ID, err)
		}
		closedAt := time.Now()
		if payload.ClosedAt != nil {
			closedAt = *payload.ClosedAt
		}
		return TicketClosedEvent{
			ID:       newEventID(),
			Ticket:   ticket,
			ClosedBy: closer,
			ClosedAt: closedAt,
		}, nil

	case KindArticleCreated:
		return ArticleCreatedEvent{
			ID:                 newEventID(),
			Article:            h.decodeArticle(payload.Article, ticket),
			Ticket:             ticket,
			IsSplit:            payload.IsSplit,
			SplitFromTicketID:  payload.SplitFromTicketID,
			SplitFromArticleID: payload.SplitFromArticleID,
		}, nil

	default:
		h.logger.Info("unhandled webhook event", zap.String("event", string(kind)), zap.Int("ticket_id", ticket.ID))
		return nil, nil
	}
}

// decodeArticle parses the article sub-object, falling back to an empty
// article referencing the ticket when absent or undecodable.
func (h *WebhookHandler) decodeArticle(raw json.RawMessage, ticket zammad.Ticket) zammad.Article {
	if isEmptyJSON(raw) {
		return zammad.Article{TicketID: ticket.ID}
	}
	var article zammad.Article
	if err := json.Unmarshal(raw, &article); err != nil {
		h.logger.Warn("webhook article not decodable", zap.Int("ticket_id", ticket.ID), zap.Error(err))
		return zammad.Article{TicketID: ticket.ID}
	}
	if article.TicketID == 0 {
		article.TicketID = ticket.ID
	}
	return article
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

func ok(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
