package worker

// email_worker.go
// Sends order notification emails from QueueEmail through the SMTP circuit
// breaker, with an optional PDF attachment read from PDF storage.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bclick/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// Sender is satisfied by *infra.Mailer.
type Sender interface {
	Enabled() bool
	Send(msg infra.Message) error
}

type EmailWorker struct {
	mailer Sender
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer Sender, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process sends one email. Each attempt goes through the breaker; an open
// breaker short-circuits the remaining attempts and the job lands in the DLQ.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Str("subject", payload.Subject).Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if !w.mailer.Enabled() {
		log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: no SMTP relay configured, message dropped")
		return nil
	}

	msg := infra.Message{To: payload.ToEmail, Subject: payload.Subject, Text: payload.Body}
	if payload.PDFPath != "" {
		data, err := os.ReadFile(payload.PDFPath)
		if err != nil {
			return fmt.Errorf("email_worker: read attachment: %w", err)
		}
		msg.Attachments = append(msg.Attachments, infra.Attachment{
			Name:        filepath.Base(payload.PDFPath),
			ContentType: "application/pdf",
			Data:        data,
		})
	}

	err := withRetry(ctx, 3, func(attempt int) error {
		err := w.cb.Execute(func() error { return w.mailer.Send(msg) })
		if errors.Is(err, infra.ErrCircuitOpen) {
			return errStop{err}
		}
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("to", payload.ToEmail).Msg("email_worker: send failed, retrying")
		}
		return err
	})
	if err != nil {
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: notification sent")
	return nil
}
