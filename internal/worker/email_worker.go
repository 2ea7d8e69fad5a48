package worker

// email_worker.go
// Processes email jobs from QueueEmail through the SMTP circuit breaker:
// when the relay is down jobs fast-fail into the DLQ instead of blocking
// the pool on timeouts.

import (
	"context"
	"encoding/json"
	"errors"

	"puntoventa/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, rdb: rdb}
}

// Process sends an email with the PDF receipt as attachment.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendTicket(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP circuit open — job to DLQ")
		} else {
			log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		}
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), 1)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: ticket sent successfully")
}
