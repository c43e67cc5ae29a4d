package worker

// price_scheduler.go
// Background goroutine that periodically re-evaluates time-windowed price
// adjustments: scheduled records whose start time has elapsed get activated,
// active records whose end time has elapsed get finalized (prices reverted).
// One candidate failing is logged and never stops the rest of the batch or
// the next tick.

import (
	"context"
	"time"

	"javopos/internal/ledger"

	"github.com/rs/zerolog/log"
)

// SchedulerUser is stamped as the acting user on automatic finalizations.
const SchedulerUser = "scheduler"

// SchedulerConfig holds all dependencies for the scheduler goroutine.
type SchedulerConfig struct {
	Ledger   *ledger.Ledger
	Interval time.Duration // defaults to 5 minutes
}

// StartPriceScheduler launches a goroutine that ticks every Interval and
// processes due activations and finalizations. An immediate catch-up pass
// runs before the first tick so windows that elapsed while the process was
// down are handled at startup. Respects the context for graceful shutdown.
func StartPriceScheduler(ctx context.Context, cfg SchedulerConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("price_scheduler: started")
		processDue(ctx, cfg.Ledger)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("price_scheduler: shutting down")
				return
			case <-ticker.C:
				processDue(ctx, cfg.Ledger)
			}
		}
	}()
}

func processDue(ctx context.Context, l *ledger.Ledger) {
	now := time.Now()

	activations := l.DueForActivation(now)
	finalizations := l.DueForFinalization(now)
	if len(activations) == 0 && len(finalizations) == 0 {
		return
	}

	log.Info().
		Int("activations", len(activations)).
		Int("finalizations", len(finalizations)).
		Msg("price_scheduler: processing due adjustments")

	for _, id := range activations {
		if err := l.ActivateTemporal(ctx, id); err != nil {
			log.Error().Err(err).Int64("record_id", id).Msg("price_scheduler: activation failed")
			continue
		}
		log.Info().Int64("record_id", id).Msg("price_scheduler: adjustment activated")
	}

	for _, id := range finalizations {
		if err := l.FinalizeTemporal(ctx, id, SchedulerUser); err != nil {
			log.Error().Err(err).Int64("record_id", id).Msg("price_scheduler: finalization failed")
			continue
		}
		log.Info().Int64("record_id", id).Msg("price_scheduler: adjustment finished, prices restored")
	}
}
