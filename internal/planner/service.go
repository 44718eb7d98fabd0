package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/influxdb"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/mqtt"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/plancache"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
)

var (
	// ErrNilModel is returned when Plan is called without a model.
	ErrNilModel = errors.New("planner: nil building model")

	// ErrNoPublisher is returned when publishing is requested but no
	// publisher is configured.
	ErrNoPublisher = errors.New("planner: no publisher configured")
)

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Cache stores generated rows by plan key. *plancache.Store satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]generator.Row, bool, error)
	Put(ctx context.Context, key, projectName string, mode project.StructureMode, rows []generator.Row) error
	Prune(ctx context.Context, keep int) (int64, error)
}

// Publisher sends a finished plan somewhere. *mqtt.PlanPublisher satisfies it.
type Publisher interface {
	PublishPlan(ctx context.Context, summary mqtt.PlanSummary, rows []generator.Row) error
}

// Metrics records a finished run. *influxdb.Client satisfies it.
type Metrics interface {
	WriteGeneration(g influxdb.Generation)
}

// Request carries per-run overrides. Zero values keep the project's settings.
type Request struct {
	// Mode overrides the project's structure mode when non-empty.
	Mode project.StructureMode

	// NameTemplate overrides the project's name template when non-empty.
	NameTemplate string

	// Validate runs project.ValidateForExport before generating.
	Validate bool

	// Publish sends the result through the configured Publisher.
	Publish bool
}

// Result is the outcome of one run.
type Result struct {
	Project  string
	Mode     project.StructureMode
	Key      string
	Rows     []generator.Row
	Stats    generator.Stats
	CacheHit bool
	Duration time.Duration
}

// Service runs generations. Configure it before first use; the setters
// are not safe to call concurrently with Plan.
type Service struct {
	cache     Cache
	keep      int
	publisher Publisher
	metrics   Metrics
	logger    Logger
	now       func() time.Time
}

// NewService returns a service with no cache, publisher or metrics.
func NewService() *Service {
	return &Service{
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetCache enables plan caching. After each store the cache is pruned to
// keep entries; keep < 1 disables pruning.
func (s *Service) SetCache(c Cache, keep int) {
	s.cache = c
	s.keep = keep
}

// SetPublisher sets the destination for Request.Publish.
func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

// SetMetrics sets the recorder for generation metrics.
func (s *Service) SetMetrics(m Metrics) {
	s.metrics = m
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
}

// Plan generates the address rows for model.
//
// Cache errors are logged and otherwise ignored; a broken cache never
// blocks generation. Validation and publish errors are returned.
//
// Parameters:
//   - ctx: Context for cancellation of cache and publish I/O
//   - model: The building model; it is not modified
//   - req: Per-run overrides
//
// Returns:
//   - Result: Rows with their statistics and cache outcome
//   - error: ErrNilModel, a project.ErrExportBlocked validation error,
//     ErrNoPublisher, or a publish error
func (s *Service) Plan(ctx context.Context, model *project.BuildingModel, req Request) (Result, error) {
	if model == nil {
		return Result{}, ErrNilModel
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.Publish && s.publisher == nil {
		return Result{}, ErrNoPublisher
	}

	if req.Validate {
		if err := project.ValidateForExport(ctx, model); err != nil {
			return Result{}, err
		}
	}

	start := s.now()
	m, mode := effectiveModel(model, req)

	res := Result{Project: model.Name, Mode: mode}
	log := s.logger

	key, err := plancache.Key(mode, m)
	if err != nil {
		log.Warn("computing plan key failed", "error", err)
	}
	res.Key = key

	if s.cache != nil && key != "" {
		rows, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn("plan cache lookup failed", "key", key, "error", err)
		case ok:
			res.Rows, res.CacheHit = rows, true
		}
	}

	if !res.CacheHit {
		res.Rows = generator.GenerateMode(m, mode)
		s.store(ctx, &res)
	}

	res.Stats = generator.Summarise(res.Rows)
	res.Duration = s.now().Sub(start)

	log.Info("plan generated",
		"project", res.Project,
		"mode", string(res.Mode),
		"rows", len(res.Rows),
		"addresses", res.Stats.Addresses,
		"cache_hit", res.CacheHit,
		"duration", res.Duration,
	)

	if s.metrics != nil {
		s.metrics.WriteGeneration(influxdb.Generation{
			Project:  res.Project,
			Mode:     string(res.Mode),
			CacheHit: res.CacheHit,
			Stats:    res.Stats,
			Duration: res.Duration,
			At:       start,
		})
	}

	if req.Publish {
		summary := mqtt.PlanSummary{
			Project:     res.Project,
			Mode:        string(res.Mode),
			Key:         res.Key,
			Stats:       res.Stats,
			GeneratedAt: start.UTC(),
		}
		if err := s.publisher.PublishPlan(ctx, summary, res.Rows); err != nil {
			return res, fmt.Errorf("publishing plan: %w", err)
		}
		log.Debug("plan published", "project", res.Project)
	}

	return res, nil
}

func (s *Service) store(ctx context.Context, res *Result) {
	if s.cache == nil || res.Key == "" {
		return
	}

	if err := s.cache.Put(ctx, res.Key, res.Project, res.Mode, res.Rows); err != nil {
		s.logger.Warn("plan cache store failed", "key", res.Key, "error", err)
		return
	}

	if s.keep < 1 {
		return
	}
	removed, err := s.cache.Prune(ctx, s.keep)
	if err != nil {
		s.logger.Warn("plan cache prune failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Debug("plan cache pruned", "removed", removed)
	}
}

// effectiveModel applies the request overrides. The caller's model is
// only copied when the name template changes.
func effectiveModel(model *project.BuildingModel, req Request) (*project.BuildingModel, project.StructureMode) {
	mode := req.Mode
	if mode == "" {
		mode = model.ViewOptions.StructureMode
	}
	mode = project.ParseStructureMode(string(mode))

	if req.NameTemplate == "" || req.NameTemplate == model.ViewOptions.NameTemplate {
		return model, mode
	}

	cpy := *model
	cpy.ViewOptions.NameTemplate = req.NameTemplate
	return &cpy, mode
}
