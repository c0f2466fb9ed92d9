package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/darklink/internal/model"
)

// Step is one stage of page analysis. Steps run in sequence and each sees the
// fields filled in by the steps before it.
type Step interface {
	// Do executes the step on page.
	Do(ctx context.Context, page *model.Page) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline runs Steps over a page in order.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps running later steps after one fails.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError makes the pipeline run remaining steps after a step
// fails. Failed steps are logged and recorded in page.StepErrors either way.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step over page. Cancellation is checked before each
// step. Without continueOnError the first step error is returned; with it,
// Execute only fails on cancellation.
func (p *Pipeline) Execute(ctx context.Context, page *model.Page) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"url", page.URL,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", page.URL,
			"profile", page.Profile,
		)

		if err := step.Do(ctx, page); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", page.URL,
				"profile", page.Profile,
				"error", err,
			)
			page.StepErrors = append(page.StepErrors, err)

			if !p.continueOnError {
				return err
			}
			continue
		}

		page.Performed = append(page.Performed, step.Name())
	}

	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
