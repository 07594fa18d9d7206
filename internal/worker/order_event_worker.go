package worker

// order_event_worker.go
// Turns order lifecycle events into notification emails:
//   - order created    → supplier
//   - status changed   → client (approved orders get the PDF summary)

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bclick/internal/infra"
	"bclick/internal/model"
	"bclick/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	EventOrderCreated  = "order_created"
	EventStatusChanged = "status_changed"
)

// OrderEventPayload is the job envelope sent to QueueOrderEvents.
type OrderEventPayload struct {
	Event   string `json:"event"`
	OrderID string `json:"order_id"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}

// EmailEnqueuer is satisfied by *Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type OrderEventWorker struct {
	orders         repository.OrderRepository
	users          repository.UserRepository
	emails         EmailEnqueuer
	pdfStoragePath string
}

func NewOrderEventWorker(
	orders repository.OrderRepository,
	users repository.UserRepository,
	emails EmailEnqueuer,
	pdfStoragePath string,
) *OrderEventWorker {
	return &OrderEventWorker{orders: orders, users: users, emails: emails, pdfStoragePath: pdfStoragePath}
}

// Process handles a single order event:
//  1. Parse the payload and load the order (gone = nothing to do)
//  2. Pick the recipient: supplier for new orders, client for status changes
//  3. For approved orders, write the PDF summary to storage
//  4. Enqueue the email job
func (w *OrderEventWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload OrderEventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("order_event_worker: invalid payload")
		return nil
	}
	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("order_event_worker: invalid order_id")
		return nil
	}

	order, err := w.orders.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// deleted while pending before we got to it
		log.Info().Str("order_id", payload.OrderID).Msg("order_event_worker: order no longer exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %s: %w", payload.OrderID, err)
	}

	client, err := w.users.FindByID(ctx, order.ClientID)
	if err != nil {
		return fmt.Errorf("load client: %w", err)
	}
	supplier, err := w.users.FindByID(ctx, order.SupplierID)
	if err != nil {
		return fmt.Errorf("load supplier: %w", err)
	}

	var job EmailJobPayload
	switch payload.Event {
	case EventOrderCreated:
		job = EmailJobPayload{
			ToEmail: supplier.Email,
			Subject: fmt.Sprintf("New order #%d from %s", order.OrderNumber, displayName(client)),
			Body: fmt.Sprintf("You received order #%d with %d line(s).\nTotal: $%s (tax $%s)",
				order.OrderNumber, len(order.Items), order.Total.StringFixed(2), order.Tax.StringFixed(2)),
		}
	case EventStatusChanged:
		job = EmailJobPayload{
			ToEmail: client.Email,
			Subject: fmt.Sprintf("Order #%d is now %s", order.OrderNumber, payload.To),
			Body:    statusBody(order, supplier, payload.To),
		}
		if model.OrderStatus(payload.To) == model.OrderApproved {
			doc := infra.OrderDocument{Order: order, ClientName: displayName(client), SupplierName: displayName(supplier)}
			path, err := infra.SaveOrderPDF(doc, w.pdfStoragePath)
			if err != nil {
				log.Warn().Err(err).Str("order_id", payload.OrderID).Msg("order_event_worker: PDF generation failed")
			} else {
				job.PDFPath = path
				log.Info().Str("pdf", path).Str("order_id", payload.OrderID).Msg("order_event_worker: PDF generated")
			}
		}
	default:
		log.Warn().Str("event", payload.Event).Msg("order_event_worker: unknown event")
		return nil
	}

	if err := w.emails.EnqueueEmail(ctx, job); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	log.Info().Str("event", payload.Event).Str("order_id", payload.OrderID).Str("to", job.ToEmail).Msg("order_event_worker: email job enqueued")
	return nil
}

func statusBody(o *model.Order, supplier *model.User, to string) string {
	body := fmt.Sprintf("%s moved your order #%d to %s.", displayName(supplier), o.OrderNumber, to)
	// the last note is the one written with this transition
	if n := len(o.Notes); n > 0 {
		body += "\nNote: " + o.Notes[n-1].Message
	}
	return body
}

func displayName(u *model.User) string {
	if u.BusinessName != nil && *u.BusinessName != "" {
		return *u.BusinessName
	}
	return u.Name
}
