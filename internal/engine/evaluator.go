package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"static-flow-classifier/internal/location"
	"static-flow-classifier/internal/model"
)

type Option func(*Evaluator)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for time_of_day rules when the
// flow carries no observation time. The clock is read on every evaluation.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

// Evaluator checks static classifier rules against flows. It holds no
// mutable state and may be shared between goroutines.
type Evaluator struct {
	locations location.Directory
	now       func() time.Time
	logger    *zap.Logger
	metrics   *Metrics
}

func NewEvaluator(locations location.Directory, opts ...Option) *Evaluator {
	e := &Evaluator{
		locations: locations,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate sets rule.Match to whether flow satisfies the rule. Any error
// met on the way resolves the rule to false and is logged; Evaluate itself
// never fails.
func (e *Evaluator) Evaluate(ctx context.Context, flow *model.Flow, rule *model.PolicyRule) {
	rule.Match = false

	match, ok := matchers[rule.Attribute]
	if !ok {
		e.fail(rule, fmt.Errorf("%w: %q", model.ErrUnsupportedAttribute, rule.Attribute))
		return
	}
	if flow == nil {
		e.fail(rule, fmt.Errorf("%w: no flow", model.ErrMissingField))
		return
	}

	matched, err := match(ctx, e, flow, rule.Value, e.timeOf(flow))
	if err != nil {
		e.fail(rule, err)
		return
	}
	rule.Match = matched
	e.metrics.observe(rule.Attribute, matched)
}

// EvaluateAll evaluates rules in order against flow and reports how many
// matched. Once ctx is done the remaining rules resolve to false.
func (e *Evaluator) EvaluateAll(ctx context.Context, flow *model.Flow, rules []model.PolicyRule) int {
	matched := 0
	for i := range rules {
		if err := ctx.Err(); err != nil {
			rules[i].Match = false
			continue
		}
		e.Evaluate(ctx, flow, &rules[i])
		if rules[i].Match {
			matched++
		}
	}
	return matched
}

func (e *Evaluator) timeOf(flow *model.Flow) time.Time {
	if !flow.Time.IsZero() {
		return flow.Time
	}
	return e.now()
}

func (e *Evaluator) fail(rule *model.PolicyRule, err error) {
	kind := model.ErrorKind(err)
	lvl := zapcore.WarnLevel
	switch kind {
	case "unsupported_attribute", "location_lookup":
		lvl = zapcore.ErrorLevel
	case "missing_field":
		lvl = zapcore.DebugLevel
	}
	if ce := e.logger.Check(lvl, "Static classifier rule resolved to no match"); ce != nil {
		ce.Write(
			zap.String("kind", kind),
			zap.String("policy_attr", string(rule.Attribute)),
			zap.String("policy_value", rule.Value),
			zap.Error(err),
		)
	}
	e.metrics.fail(rule.Attribute, err)
	e.metrics.observe(rule.Attribute, false)
}
