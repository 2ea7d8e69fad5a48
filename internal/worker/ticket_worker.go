package worker

// ticket_worker.go
// Processes receipt jobs from QueueTickets: renders the PDF for a posted
// sale and, when the customer left an email, enqueues the send job.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"puntoventa/internal/config"
	"puntoventa/internal/infra"
	"puntoventa/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const ticketMaxAttempts = 3

// TicketJobPayload is the job envelope sent to QueueTickets.
type TicketJobPayload struct {
	VentaID      string `json:"venta_id"`
	ClienteEmail string `json:"cliente_email,omitempty"`
}

type TicketWorker struct {
	ventaRepo      repository.VentaRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	negocio        config.Negocio
	pdfStoragePath string
}

func NewTicketWorker(
	ventaRepo repository.VentaRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	negocio config.Negocio,
	pdfStoragePath string,
) *TicketWorker {
	return &TicketWorker{
		ventaRepo:      ventaRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		negocio:        negocio,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process renders the receipt PDF with retries; a job that exhausts its
// attempts lands in the DLQ for manual inspection. Receipt generation is
// best-effort — the sale itself committed long before this runs.
func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ticket_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("ticket_worker: invalid venta_id")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("ticket_worker: venta not found")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, ticketMaxAttempts, func(attempt int) error {
		path, err := infra.GenerateTicketPDF(venta, w.negocio, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("folio", venta.Folio).
				Msg("ticket_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if genErr != nil {
		SendToDLQ(ctx, w.rdb, QueueTickets, "ticket", raw,
			fmt.Sprintf("PDF generation failed: %v", genErr), ticketMaxAttempts)
		return
	}

	log.Info().Str("pdf", pdfPath).Str("folio", venta.Folio).Msg("ticket_worker: PDF generated")

	if payload.ClienteEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: payload.ClienteEmail,
			Subject: fmt.Sprintf("%s - Ticket %s", w.negocio.Nombre, venta.Folio),
			Body:    fmt.Sprintf("Adjunto encontrarás tu ticket de compra.\nTotal: $%s", venta.Total.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", payload.ClienteEmail).Msg("ticket_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
