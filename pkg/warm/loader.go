package warm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ds-wizard/fairsharing-proxy/pkg/records"
	"github.com/ds-wizard/fairsharing-proxy/pkg/telemetry/metrics"
	"github.com/ds-wizard/fairsharing-proxy/pkg/upstream"
)

// Lister is the part of the upstream API the loader needs.
type Lister interface {
	Login(ctx context.Context, username, password string) (*upstream.Token, error)
	ListPage(ctx context.Context, pageURL string, token *upstream.Token) ([]*records.Record, string, error)
	FirstListURL(pageSize int) string
}

// LoaderConfig contains configuration for the warming loader.
type LoaderConfig struct {
	// Username and Password are the FAIRsharing account to sign in with.
	Username string
	Password string

	// PageSize is how many records to request per listing page.
	PageSize int

	// PageDelay is the pause between listing pages.
	PageDelay time.Duration
}

// Loader performs one warming run: sign in, walk the paginated record
// listing, and replace the stored dataset.
type Loader struct {
	client    Lister
	storage   *Storage
	collector *metrics.Collector
	config    LoaderConfig
	logger    *slog.Logger
}

// NewLoader creates a loader. The collector may be nil.
func NewLoader(client Lister, storage *Storage, collector *metrics.Collector, cfg LoaderConfig) *Loader {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &Loader{
		client:    client,
		storage:   storage,
		collector: collector,
		config:    cfg,
		logger:    slog.Default().With("component", "warm.loader"),
	}
}

// Run executes one warming run. The run is recorded in the run history
// whether it succeeds or fails, and the stored dataset is only replaced on
// success.
func (l *Loader) Run(ctx context.Context) (*Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	l.logger.Info("warming run started", "run_id", run.ID)

	recs, pages, err := l.collect(ctx)
	run.PageCount = pages

	if err == nil {
		run.RecordCount = len(recs)
		err = l.storage.ReplaceRecords(ctx, recs)
	}

	run.FinishedAt = time.Now().UTC()
	run.Success = err == nil
	if err != nil {
		run.Error = err.Error()
	}

	if storeErr := l.storage.RecordRun(ctx, run); storeErr != nil {
		l.logger.Error("recording warming run failed", "run_id", run.ID, "error", storeErr)
	}
	if l.collector != nil {
		l.collector.RecordWarmRun(run.Success, run.RecordCount, run.FinishedAt.Sub(run.StartedAt))
	}

	if err != nil {
		l.logger.Error("warming run failed",
			"run_id", run.ID, "pages", run.PageCount, "error", err)
		return &run, err
	}

	l.logger.Info("warming run completed",
		"run_id", run.ID,
		"records", run.RecordCount,
		"pages", run.PageCount,
		"duration", run.FinishedAt.Sub(run.StartedAt).String(),
	)
	return &run, nil
}

// collect signs in and walks the paginated listing, keeping valid records.
// Names are stored as the upstream reports them; the proxy endpoints
// normalize on the way out.
func (l *Loader) collect(ctx context.Context) ([]*records.Record, int, error) {
	token, err := l.client.Login(ctx, l.config.Username, l.config.Password)
	if err != nil {
		return nil, 0, fmt.Errorf("signing in: %w", err)
	}
	if !token.OK() {
		return nil, 0, fmt.Errorf("sign-in rejected: %s", token.Message)
	}

	var collected []*records.Record
	pages := 0
	pageURL := l.client.FirstListURL(l.config.PageSize)

	for pageURL != "" {
		if err := ctx.Err(); err != nil {
			return nil, pages, err
		}

		recs, next, err := l.client.ListPage(ctx, pageURL, token)
		if err != nil {
			return nil, pages, fmt.Errorf("listing page %d: %w", pages+1, err)
		}
		pages++

		for _, rec := range recs {
			if rec.IsValid() {
				collected = append(collected, rec)
			}
		}

		l.logger.Debug("warming page fetched",
			"page", pages, "records", len(recs), "next", next != "")

		pageURL = next
		if pageURL != "" && l.config.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, pages, ctx.Err()
			case <-time.After(l.config.PageDelay):
			}
		}
	}

	return collected, pages, nil
}
