package services

import (
	"context"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/caching"
	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/events"
	"github.com/buddyike18/project-dine-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/gommon/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/buddyike18/project-dine-backend/internal/services"

	// effectTimeout bounds post-commit side effects.
	effectTimeout = 5 * time.Second
)

// Step is one unit of work run inside a mutation's transaction.
type Step func(ctx context.Context, tx pgx.Tx) error

// Executor runs multi-statement mutations as a single transaction.
// Steps run in order on one connection; the first failure rolls everything back.
type Executor struct {
	db     database.Gateway
	tracer trace.Tracer
}

// NewExecutor builds an executor over db. A nil provider uses the global one.
func NewExecutor(db database.Gateway, tp trace.TracerProvider) *Executor {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Executor{db: db, tracer: tp.Tracer(tracerName)}
}

// DB exposes the gateway for single-statement reads outside a transaction.
func (e *Executor) DB() database.Gateway {
	return e.db
}

// Run executes steps inside one transaction named op. Any error is returned as
// a *common.Error; pgx.ErrNoRows becomes a not-found error for resource.
func (e *Executor) Run(ctx context.Context, op, resource string, steps ...Step) error {
	ctx, span := e.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.Int("dine.steps", len(steps)),
	))
	defer span.End()

	err := database.WithTransaction(ctx, e.db, func(tx pgx.Tx) error {
		for _, step := range steps {
			if err := step(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = common.Classify(op, resource, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(common.KindOf(err)))
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// Effects runs the best-effort work that follows a commit: report cache
// invalidation and event publication. Failures are logged, never returned.
type Effects struct {
	cache     caching.ReportCache
	publisher events.Publisher
}

func NewEffects(cache caching.ReportCache, publisher events.Publisher) *Effects {
	if cache == nil {
		cache = caching.NoopReportCache{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Effects{cache: cache, publisher: publisher}
}

// Committed invalidates the restaurant's reports (when restaurantID > 0) and publishes event.
func (f *Effects) Committed(ctx context.Context, restaurantID int64, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), effectTimeout)
	defer cancel()

	if restaurantID > 0 {
		if err := f.cache.InvalidateRestaurant(ctx, restaurantID); err != nil {
			log.Warnf("invalidate reports for restaurant %d: %v", restaurantID, err)
		}
	}
	if err := f.publisher.Publish(ctx, event); err != nil {
		log.Warnf("publish %s: %v", event.Type, err)
	}
}
