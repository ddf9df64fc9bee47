package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/traceprint/traceprint/internal/anomaly"
	"github.com/traceprint/traceprint/internal/config"
	"github.com/traceprint/traceprint/internal/correlate"
	"github.com/traceprint/traceprint/internal/emailcheck"
	"github.com/traceprint/traceprint/internal/model"
	"github.com/traceprint/traceprint/internal/normalize"
	"github.com/traceprint/traceprint/internal/probe"
	"github.com/traceprint/traceprint/internal/registry"
	"github.com/traceprint/traceprint/internal/risk"
	"github.com/traceprint/traceprint/internal/summarize"
)

// EmailCheckStep runs the email collaborator checks when the handle is an
// email address: syntax validation, disposable-domain lookup, optional
// deliverability API, and Gravatar discovery.
//
// Design decision: Email checks are a separate step because:
// 1. They only apply to email handles; username scans skip them entirely
// 2. They produce findings the normalizer folds in alongside probe results
// 3. External lookups (API, Gravatar) have their own failure modes
type EmailCheckStep struct {
	// checker performs the actual email checks.
	checker *emailcheck.Checker

	// logger for structured logging.
	logger *slog.Logger
}

// EmailCheckStepOption configures an EmailCheckStep.
type EmailCheckStepOption func(*EmailCheckStep)

// WithEmailCheckLogger sets a custom logger for the email check step.
func WithEmailCheckLogger(logger *slog.Logger) EmailCheckStepOption {
	return func(s *EmailCheckStep) {
		s.logger = logger
	}
}

// NewEmailCheckStep creates a new email checking step.
func NewEmailCheckStep(checker *emailcheck.Checker, opts ...EmailCheckStepOption) *EmailCheckStep {
	s := &EmailCheckStep{
		checker: checker,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *EmailCheckStep) Name() string {
	return "email_check"
}

// Do executes the email check step.
func (s *EmailCheckStep) Do(ctx context.Context, report *model.ScanReport) error {
	if !strings.Contains(report.Handle, "@") {
		s.logger.Debug("skipping email checks, handle is not an email address")
		return nil
	}

	checks, findings := s.checker.Scan(ctx, report.Handle)
	report.EmailChecks = checks
	report.EmailFindings = findings

	s.logger.Info("email checks completed",
		"checks", len(checks),
		"findings", len(findings),
	)

	return nil
}

// ProbeStep probes platforms for the handle and records the per-platform
// outcomes. By default the whole catalog is probed; a name list narrows
// the scan to those platforms.
//
// Design decision: Probing is a separate step because:
// 1. It is the only network-heavy stage of a username scan
// 2. Its raw results feed every analysis step downstream
// 3. Partial results from a cancelled run are still worth keeping
type ProbeStep struct {
	// engine performs the HTTP probes.
	engine *probe.Engine

	// platforms, when non-empty, is the list of platform names to probe
	// instead of the whole catalog. Unknown names yield invalid_platform
	// results.
	platforms []string

	// logger for structured logging.
	logger *slog.Logger
}

// ProbeStepOption configures a ProbeStep.
type ProbeStepOption func(*ProbeStep)

// WithProbeLogger sets a custom logger for the probe step.
func WithProbeLogger(logger *slog.Logger) ProbeStepOption {
	return func(s *ProbeStep) {
		s.logger = logger
	}
}

// WithPlatformNames restricts the step to the named platforms, in the
// order given. An empty list means the whole catalog.
func WithPlatformNames(names []string) ProbeStepOption {
	return func(s *ProbeStep) {
		s.platforms = names
	}
}

// NewProbeStep creates a new platform probing step.
func NewProbeStep(engine *probe.Engine, opts ...ProbeStepOption) *ProbeStep {
	s := &ProbeStep{
		engine: engine,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ProbeStep) Name() string {
	return "probe"
}

// Do executes the probe step. Cancellation mid-run keeps the results that
// were already collected and returns the context error.
func (s *ProbeStep) Do(ctx context.Context, report *model.ScanReport) error {
	var (
		results []model.ProbeResult
		err     error
	)
	if len(s.platforms) > 0 {
		results, err = s.engine.ProbeNamed(ctx, report.Handle, s.platforms)
	} else {
		results, err = s.engine.ProbeAll(ctx, report.Handle)
	}
	report.ProbeResults = results

	found := 0
	for _, r := range results {
		if r.Status.Found() {
			found++
		}
	}
	s.logger.Info("probing completed",
		"checked", len(results),
		"found", found,
	)

	return err
}

// NormalizeStep collapses raw probe results and email findings into the
// canonical exposure record every analysis step consumes.
type NormalizeStep struct{}

// NewNormalizeStep creates a new normalization step.
func NewNormalizeStep() *NormalizeStep {
	return &NormalizeStep{}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do executes the normalization step.
func (s *NormalizeStep) Do(_ context.Context, report *model.ScanReport) error {
	exposure := normalize.Normalize(report.Handle, report.EmailFindings, report.ProbeResults)
	report.Exposure = &exposure
	return nil
}

// CorrelateStep derives cross-platform identifier matches from the
// normalized exposure record.
type CorrelateStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// CorrelateStepOption configures a CorrelateStep.
type CorrelateStepOption func(*CorrelateStep)

// WithCorrelateLogger sets a custom logger for the correlation step.
func WithCorrelateLogger(logger *slog.Logger) CorrelateStepOption {
	return func(s *CorrelateStep) {
		s.logger = logger
	}
}

// NewCorrelateStep creates a new correlation step.
func NewCorrelateStep(opts ...CorrelateStepOption) *CorrelateStep {
	s := &CorrelateStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CorrelateStep) Name() string {
	return "correlate"
}

// Do executes the correlation step.
func (s *CorrelateStep) Do(_ context.Context, report *model.ScanReport) error {
	if report.Exposure == nil {
		s.logger.Debug("skipping correlation, no normalized exposure")
		return nil
	}

	report.Correlations = correlate.Correlate(*report.Exposure)
	return nil
}

// AnomalyStep runs the anomaly heuristics over the normalized exposure
// record. It runs before risk scoring because the ensemble scorer folds
// detected anomalies into its recommendations.
type AnomalyStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// AnomalyStepOption configures an AnomalyStep.
type AnomalyStepOption func(*AnomalyStep)

// WithAnomalyLogger sets a custom logger for the anomaly step.
func WithAnomalyLogger(logger *slog.Logger) AnomalyStepOption {
	return func(s *AnomalyStep) {
		s.logger = logger
	}
}

// NewAnomalyStep creates a new anomaly detection step.
func NewAnomalyStep(opts ...AnomalyStepOption) *AnomalyStep {
	s := &AnomalyStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AnomalyStep) Name() string {
	return "anomaly"
}

// Do executes the anomaly detection step.
func (s *AnomalyStep) Do(_ context.Context, report *model.ScanReport) error {
	if report.Exposure == nil {
		s.logger.Debug("skipping anomaly detection, no normalized exposure")
		return nil
	}

	anomalies := anomaly.Detect(*report.Exposure)
	report.Anomalies = &anomalies

	s.logger.Info("anomaly detection completed",
		"anomalies", len(anomalies.Anomalies),
		"severity", anomalies.Severity,
	)

	return nil
}

// RiskStep computes both risk views: the threshold bucket from raw exposure
// counts and the weighted ensemble assessment.
//
// Design decision: The two scorers live in one step because they consume
// the same input and neither depends on the other's output. Keeping them
// together guarantees a report never carries one view without the other.
type RiskStep struct {
	// scorer is the weighted ensemble scorer.
	scorer *risk.Scorer

	// thresholds are the exposure-count boundaries for the threshold scorer.
	thresholds config.Thresholds

	// logger for structured logging.
	logger *slog.Logger
}

// RiskStepOption configures a RiskStep.
type RiskStepOption func(*RiskStep)

// WithRiskLogger sets a custom logger for the risk step.
func WithRiskLogger(logger *slog.Logger) RiskStepOption {
	return func(s *RiskStep) {
		s.logger = logger
	}
}

// NewRiskStep creates a new risk scoring step.
func NewRiskStep(scorer *risk.Scorer, thresholds config.Thresholds, opts ...RiskStepOption) *RiskStep {
	s := &RiskStep{
		scorer:     scorer,
		thresholds: thresholds,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RiskStep) Name() string {
	return "risk"
}

// Do executes the risk scoring step.
func (s *RiskStep) Do(_ context.Context, report *model.ScanReport) error {
	if report.Exposure == nil {
		s.logger.Debug("skipping risk scoring, no normalized exposure")
		return nil
	}

	report.ThresholdLevel = risk.ThresholdLevel(*report.Exposure, s.thresholds)

	var anomalies []string
	if report.Anomalies != nil {
		anomalies = report.Anomalies.Anomalies
	}
	assessment := s.scorer.Score(*report.Exposure, anomalies)
	report.Risk = &assessment

	s.logger.Info("risk scoring completed",
		"level", assessment.Level,
		"score", assessment.Score,
		"threshold_level", report.ThresholdLevel,
	)

	return nil
}

// SummarizeStep generates the prose explanation of the scan. The summary is
// presentation only; scores and levels are fixed before this step runs.
type SummarizeStep struct {
	// generator produces the summary text.
	generator summarize.Summarizer

	// logger for structured logging.
	logger *slog.Logger
}

// SummarizeStepOption configures a SummarizeStep.
type SummarizeStepOption func(*SummarizeStep)

// WithSummarizeLogger sets a custom logger for the summarize step.
func WithSummarizeLogger(logger *slog.Logger) SummarizeStepOption {
	return func(s *SummarizeStep) {
		s.logger = logger
	}
}

// NewSummarizeStep creates a new summarization step.
// A nil generator falls back to the deterministic summarizer.
func NewSummarizeStep(generator summarize.Summarizer, opts ...SummarizeStepOption) *SummarizeStep {
	s := &SummarizeStep{
		generator: generator,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.generator == nil {
		s.generator = summarize.NewStatic()
	}

	return s
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do executes the summarization step.
func (s *SummarizeStep) Do(ctx context.Context, report *model.ScanReport) error {
	if report.Exposure == nil || report.Risk == nil || report.Anomalies == nil {
		s.logger.Debug("skipping summary, scan results incomplete")
		return nil
	}

	summary, err := s.generator.Summarize(ctx, *report.Exposure, *report.Risk, *report.Anomalies)
	if err != nil {
		return err
	}
	report.Summary = summary

	return nil
}

// DefaultPipeline creates a pipeline with all standard steps configured
// from the given config. This is the standard pipeline for a full scan.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want all checks
// 2. Reduces boilerplate in CLI
// 3. Ensures consistent ordering
//
// The probeOpts parameter lets callers attach probe options the config
// cannot express, such as a progress observer for terminal output.
func DefaultPipeline(client *http.Client, cfg *config.Config, pipelineOpts []Option, probeOpts ...probe.Option) *Pipeline {
	p := New(pipelineOpts...)

	reg := registry.New(cfg.Platforms)

	engineOpts := []probe.Option{
		probe.WithTimeout(cfg.Timeout),
		probe.WithRequestDelay(cfg.RequestDelay),
		probe.WithMaxPlatforms(cfg.MaxPlatforms),
		probe.WithMaxBodySize(cfg.MaxBodySize),
		probe.WithUserAgent(cfg.UserAgent),
	}
	engineOpts = append(engineOpts, probeOpts...)
	engine := probe.NewEngine(client, reg, engineOpts...)

	checkerOpts := []emailcheck.Option{
		emailcheck.WithTimeout(cfg.Timeout),
		emailcheck.WithUserAgent(cfg.UserAgent),
	}
	if cfg.EmailAPIKey != "" {
		checkerOpts = append(checkerOpts, emailcheck.WithAPIKey(cfg.EmailAPIKey))
	}
	checker := emailcheck.NewChecker(client, checkerOpts...)

	var probeStepOpts []ProbeStepOption
	if len(cfg.PlatformNames) > 0 {
		probeStepOpts = append(probeStepOpts, WithPlatformNames(cfg.PlatformNames))
	}

	var generator summarize.Summarizer
	if cfg.OpenAIAPIKey != "" {
		generator = summarize.NewOpenAI(cfg.OpenAIAPIKey, "")
	}

	// Add steps in logical order. Anomaly detection precedes risk scoring
	// because the ensemble scorer folds anomalies into recommendations.
	p.AddSteps(
		NewEmailCheckStep(checker),
		NewProbeStep(engine, probeStepOpts...),
		NewNormalizeStep(),
		NewCorrelateStep(),
		NewAnomalyStep(),
		NewRiskStep(risk.NewScorer(reg), cfg.RiskThresholds),
		NewSummarizeStep(generator),
	)

	return p
}
