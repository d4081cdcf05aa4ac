// internal/workers/matching/calculate-assignment-score/handler.go
package calculateassignmentscore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"assignment-workers/internal/common/database"
	"assignment-workers/internal/common/errors"
	"assignment-workers/internal/common/logger"
	"assignment-workers/internal/common/metrics"
	"assignment-workers/internal/common/observability"
	"assignment-workers/internal/common/validation"
	"assignment-workers/internal/matching"
	"assignment-workers/internal/matching/solver"
)

const TaskType = "calculate-assignment-score"

type Handler struct {
	config          *Config
	engines         map[string]*matching.Engine
	defaultStrategy string
	cache           *database.ScoreCache
	validator       *validation.Validator
	errorHandler    *errors.ErrorHandler
	obs             *observability.Observability
	logger          logger.Logger
}

// NewHandler builds one engine per strategy up front. cache and obs may be nil.
func NewHandler(config *Config, cache *database.ScoreCache, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if obs == nil {
		obs = &observability.Observability{}
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	validator, err := validation.NewValidator(config.InputSchema)
	if err != nil {
		return nil, err
	}

	defaultSolver, err := solver.New(config.Settings.Strategy)
	if err != nil {
		return nil, err
	}

	engines := make(map[string]*matching.Engine, len(solver.Strategies()))
	for _, strategy := range solver.Strategies() {
		settings := config.Settings
		settings.Strategy = strategy
		engine, err := matching.NewEngine(settings, log, matching.WithRecorder(obs))
		if err != nil {
			return nil, err
		}
		engines[strategy] = engine
	}

	return &Handler{
		config:          config,
		engines:         engines,
		defaultStrategy: defaultSolver.Name(),
		cache:           cache,
		validator:       validator,
		errorHandler:    errors.NewErrorHandler(log).WithMaxRetries(config.MaxRetries),
		obs:             obs,
		logger:          log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.Int64("jobKey", job.Key),
		attribute.Int64("processInstanceKey", job.ProcessInstanceKey),
	)
	defer span.End()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			span.SetAttributes(attribute.String("strategy", output.Strategy), attribute.Bool("cached", output.Cached))
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
			return
		}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// parseInput decodes and schema-validates the job variables.
func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &vars); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	if result := h.validator.Validate(vars); !result.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	return &input, nil
}

// Execute scores one input, consulting the score cache first.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	engine, err := h.engineFor(input.Strategy)
	if err != nil {
		return nil, err
	}

	inst, err := h.instance(input)
	if err != nil {
		return nil, err
	}
	strategy := engine.Strategy()

	if cached := h.lookup(ctx, strategy, inst); cached != nil {
		h.logger.Info("score served from cache", map[string]interface{}{
			"strategy": strategy,
			"score":    cached.Score,
		})
		return newOutput(cached, true), nil
	}

	result, err := engine.Score(ctx, inst)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Put(ctx, strategy, inst, result); err != nil {
		h.logger.Warn("failed to cache score", map[string]interface{}{"error": err.Error()})
	}

	h.logger.Info("assignment score calculated", map[string]interface{}{
		"strategy":  strategy,
		"customers": len(inst.Customers),
		"products":  len(inst.Products),
		"score":     result.Score,
	})

	return newOutput(result, false), nil
}

func (h *Handler) engineFor(strategy string) (*matching.Engine, error) {
	name := strings.ToLower(strings.TrimSpace(strategy))
	if name == "" {
		name = h.defaultStrategy
	}
	engine, ok := h.engines[name]
	if !ok {
		return nil, errors.NewUnknownStrategyError(strategy)
	}
	return engine, nil
}

func (h *Handler) instance(input *Input) (*matching.MatchInstance, error) {
	if input.Line != "" {
		return matching.ParseLine(1, strings.TrimRight(input.Line, "\r\n"))
	}
	if len(input.Customers) == 0 {
		return nil, errors.NewMalformedLineError(1, "empty customer group")
	}
	if len(input.Products) == 0 {
		return nil, errors.NewMalformedLineError(1, "empty product group")
	}
	return matching.NewMatchInstance(input.Customers, input.Products), nil
}

// lookup returns nil on a miss or when the cache is unavailable.
func (h *Handler) lookup(ctx context.Context, strategy string, inst *matching.MatchInstance) *matching.Result {
	if h.cache == nil {
		return nil
	}

	cached, err := h.cache.Get(ctx, strategy, inst)
	switch {
	case err != nil:
		metrics.ScoreCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("score cache unavailable, scoring uncached", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	case cached == nil:
		metrics.ScoreCacheLookups.WithLabelValues("miss").Inc()
		return nil
	default:
		metrics.ScoreCacheLookups.WithLabelValues("hit").Inc()
		return cached
	}
}

func newOutput(result *matching.Result, cached bool) *Output {
	pairs := result.Pairs
	if pairs == nil {
		pairs = []matching.Pair{}
	}
	return &Output{
		ResultID:       uuid.NewString(),
		Score:          result.Score,
		FormattedScore: result.Formatted(),
		Strategy:       result.Strategy,
		Pairs:          pairs,
		Cached:         cached,
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": fmt.Sprintf("job %d: %v", job.Key, err),
		})
	}
}
