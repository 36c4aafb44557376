package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vrsandeep/tokyo-links/internal/aggregate"
	"github.com/vrsandeep/tokyo-links/internal/assets"
	"github.com/vrsandeep/tokyo-links/internal/catalog"
	"github.com/vrsandeep/tokyo-links/internal/config"
	"github.com/vrsandeep/tokyo-links/internal/db"
	"github.com/vrsandeep/tokyo-links/internal/downloader"
	"github.com/vrsandeep/tokyo-links/internal/fetch"
	"github.com/vrsandeep/tokyo-links/internal/logger"
	"github.com/vrsandeep/tokyo-links/internal/models"
	"github.com/vrsandeep/tokyo-links/internal/scrape"
	"github.com/vrsandeep/tokyo-links/internal/store"
)

// App holds the components shared by the CLI commands.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Log    logger.Logger

	store   *store.Store
	fetcher *fetch.Fetcher
}

// RunResult is everything one extraction run produced.
type RunResult struct {
	Lines    []models.OutputLine
	Outcomes []models.ItemOutcome
	Summary  aggregate.Summary
	// Partial is set when the run was cancelled before every item finished.
	Partial bool
	// RunID is zero when history is disabled.
	RunID      int64
	StartedAt  time.Time
	FinishedAt time.Time
}

// New sets up and returns a new App instance. The history database is
// opened and migrated only when history is enabled.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}
	app := &App{
		Config: cfg,
		Log:    log,
		fetcher: fetch.New(fetch.Options{
			UserAgent:      cfg.Site.UserAgent,
			AcceptLanguage: cfg.Site.AcceptLanguage,
			Timeout:        cfg.Fetch.Timeout,
		}),
	}

	if cfg.History.Enabled {
		database, err := db.Open(cfg.Database.Path, assets.MigrationsFS, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history database: %w", err)
		}
		app.DB = database
		app.store = store.New(database)
	}

	log.Debug("Core application setup complete", logger.Bool("history", cfg.History.Enabled))
	return app, nil
}

// Store returns the run history store, or nil when history is disabled.
func (a *App) Store() *store.Store { return a.store }

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	_ = a.Log.Sync()
}

// Run fetches the catalog page named by req and processes it. Failing to
// fetch or parse the catalog fails the run; item failures do not.
func (a *App) Run(ctx context.Context, req models.SelectionRequest) (*RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a.Log.Info("Fetching catalog", logger.String("url", req.CatalogURL))
	body, err := a.fetcher.Fetch(ctx, req.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	return a.Process(ctx, req, body)
}

// Process runs the selection against an already fetched catalog page body.
func (a *App) Process(ctx context.Context, req models.SelectionRequest, catalogBody []byte) (*RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()

	listing, err := catalog.Discover(catalogBody)
	if err != nil {
		return nil, err
	}
	resolved, err := listing.Resolve(req.Ranges)
	if err != nil {
		return nil, err
	}
	descs, err := listing.Descriptors(resolved, req.Order(), req.CatalogURL)
	if err != nil {
		return nil, err
	}
	for t, rng := range resolved {
		a.Log.Info("Selected items",
			logger.String("type", t.Label()),
			logger.String("range", rng.String()),
			logger.Int("available", listing.Count(t)))
	}

	proc := downloader.NewProcessor(a.fetcher, scrape.ExtractCandidates, req.Metric,
		downloader.WithAllowedHost(siteHost(a.Config.Site.BaseURL)),
		downloader.WithLogger(a.Log))
	dispatcher := downloader.NewDispatcher(a.Config.Fetch.Workers, a.Log)
	outcomes := dispatcher.Run(ctx, descs, proc.Process)

	// Resolved ranges give "all" selections a concrete end for zero-padding.
	rendered := req
	rendered.Ranges = resolved

	res := &RunResult{
		Lines:      aggregate.Aggregate(outcomes, rendered),
		Outcomes:   outcomes,
		Summary:    aggregate.Summarize(outcomes),
		Partial:    interrupted(ctx, outcomes),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	a.Log.Info("Run finished",
		logger.Int("items", res.Summary.Total),
		logger.Int("succeeded", res.Summary.Succeeded),
		logger.Int("failed", res.Summary.Failed),
		logger.Bool("partial", res.Partial),
		logger.Duration("elapsed", res.FinishedAt.Sub(started)))

	if a.store != nil {
		id, err := a.store.SaveRun(runRecord(req, res), runItems(outcomes))
		if err != nil {
			// History is best effort; the links are still good.
			a.Log.Warn("Failed to save run history", logger.Error(err))
		} else {
			res.RunID = id
		}
	}
	return res, nil
}

// interrupted reports whether cancellation cost the run any item. A context
// cancelled after the last item finished leaves the result complete.
func interrupted(ctx context.Context, outcomes []models.ItemOutcome) bool {
	cause := ctx.Err()
	if cause == nil {
		return false
	}
	for _, o := range outcomes {
		if !o.OK() && errors.Is(o.Err, cause) {
			return true
		}
	}
	return false
}

// siteHost returns the registrable host of baseURL, without a leading "www.".
func siteHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func runRecord(req models.SelectionRequest, res *RunResult) *models.RunRecord {
	return &models.RunRecord{
		CatalogURL: req.CatalogURL,
		Metric:     req.Metric.String(),
		Total:      res.Summary.Total,
		Succeeded:  res.Summary.Succeeded,
		Failed:     res.Summary.Failed,
		Partial:    res.Partial,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
}

func runItems(outcomes []models.ItemOutcome) []models.RunItem {
	items := make([]models.RunItem, 0, len(outcomes))
	for _, o := range outcomes {
		it := models.RunItem{
			Type:        string(o.Descriptor.Type),
			Index:       o.Descriptor.Index,
			PageURL:     o.Descriptor.PageURL,
			Status:      "success",
			DownloadURL: o.Selected.DownloadURL,
		}
		if !o.OK() {
			it.Status = o.Reason.String()
			if o.Err != nil {
				it.Message = o.Err.Error()
			}
		}
		items = append(items, it)
	}
	return items
}
