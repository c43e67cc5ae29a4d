package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"javopos/internal/infra"
	"javopos/internal/ledger"

	"github.com/rs/zerolog/log"
)

// AlertWorker emails an operator when a temporal adjustment activates or
// expires. Sends go through the circuit breaker so a downed SMTP relay is
// not hammered on every event; delivery is best-effort by design of the
// audit sink — a failed send is logged and the job is not retried.
type AlertWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	to     string
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, to string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, to: to}
}

func (w *AlertWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	if w.to == "" {
		return nil // alerts not configured
	}

	var ev ledger.AuditEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("alert worker: decode event: %w", err)
	}

	subject := fmt.Sprintf("[javopos] price adjustment %s %s", ev.PrimaryKey, ev.Action)
	body := fmt.Sprintf("Adjustment %s changed state to %q at %s.\n\n%s\n",
		ev.PrimaryKey, ev.Action, ev.Timestamp.Format("2006-01-02 15:04"), ev.Detail)

	err := w.cb.Execute(func() error {
		return w.mailer.SendAlert(w.to, subject, body, "")
	})
	if err != nil {
		log.Warn().Err(err).Str("record", ev.PrimaryKey).Str("action", ev.Action).
			Msg("alert worker: mail not sent")
	}
	return nil
}
