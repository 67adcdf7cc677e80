// Package batch applies {filter, update} items to the device, site and
// activity registries concurrently and reports per-item outcomes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the items in flight when none is configured
const DefaultConcurrency = 8

var (
	// ErrInvalidItem indicates an item rejected before reaching the store
	ErrInvalidItem = errors.New("invalid batch item")

	// ErrNoModifier indicates an item whose kind has no registered modifier
	ErrNoModifier = errors.New("no modifier for registry kind")
)

// Modifier applies one translated item to a registry
type Modifier func(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) error

// ModifyFunc adapts a repository Modify method to a Modifier
func ModifyFunc[T any](modify func(context.Context, tenant.ID, model.Filter, model.Update) (*T, error)) Modifier {
	return func(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) error {
		_, err := modify(ctx, t, filter, update)
		return err
	}
}

// Item is one batch entry addressed by kind and position in its list
type Item struct {
	Kind  model.RegistryKind
	Index int
	model.BatchItem
}

func (i Item) String() string {
	return fmt.Sprintf("%s[%d]", i.Kind, i.Index)
}

// Outcome is the result of one item
type Outcome struct {
	Item Item
	Err  error
}

// Status classifies the outcome for reporting
func (o Outcome) Status() string {
	switch {
	case o.Err == nil:
		return "updated"
	case errors.Is(o.Err, ErrInvalidItem):
		return "invalid"
	case errors.Is(o.Err, database.ErrNotFound):
		return "not_found"
	default:
		return "failed"
	}
}

// Counts tallies outcomes by status
type Counts struct {
	Updated  int `json:"updated" yaml:"updated"`
	Invalid  int `json:"invalid" yaml:"invalid"`
	NotFound int `json:"not_found" yaml:"not_found"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Total is the number of items counted
func (c Counts) Total() int {
	return c.Updated + c.Invalid + c.NotFound + c.Failed
}

func (c *Counts) add(o Outcome) {
	switch o.Status() {
	case "updated":
		c.Updated++
	case "invalid":
		c.Invalid++
	case "not_found":
		c.NotFound++
	default:
		c.Failed++
	}
}

// Report summarizes a finished run. It is built from the outcomes after
// every item has completed.
type Report struct {
	Tenant   tenant.ID                     `json:"tenant"`
	Counts   Counts                        `json:"counts"`
	ByKind   map[model.RegistryKind]Counts `json:"by_kind"`
	Outcomes []Outcome                     `json:"-"`
}

// NewReport derives the counts from outcomes
func NewReport(t tenant.ID, outcomes []Outcome) *Report {
	r := &Report{
		Tenant:   t,
		ByKind:   make(map[model.RegistryKind]Counts),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		r.Counts.add(o)
		c := r.ByKind[o.Item.Kind]
		c.add(o)
		r.ByKind[o.Item.Kind] = c
	}
	return r
}

// Failures returns the outcomes that did not update a record
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// String renders a one-line summary, kinds sorted
func (r *Report) String() string {
	kinds := make([]string, 0, len(r.ByKind))
	for k := range r.ByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		c := r.ByKind[model.RegistryKind(k)]
		parts = append(parts, fmt.Sprintf("%s %d/%d", k, c.Updated, c.Total()))
	}
	return fmt.Sprintf("tenant %s: %d of %d updated (%s)",
		r.Tenant, r.Counts.Updated, r.Counts.Total(), strings.Join(parts, ", "))
}

// Runner applies items with bounded concurrency
type Runner struct {
	modifiers   map[model.RegistryKind]Modifier
	concurrency int
	logger      *slog.Logger
}

// RunnerConfig holds configuration for the runner
type RunnerConfig struct {
	Modifiers   map[model.RegistryKind]Modifier
	Concurrency int
	Logger      *slog.Logger
}

// NewRunner creates a new runner
func NewRunner(cfg RunnerConfig) *Runner {
	n := cfg.Concurrency
	if n <= 0 {
		n = DefaultConcurrency
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{modifiers: cfg.Modifiers, concurrency: n, logger: logger}
}

// Run applies every item for tenant t and waits for all of them. A failing
// item does not stop its siblings; cancelling ctx stops items not yet
// applied. The returned error joins every item error.
func (r *Runner) Run(ctx context.Context, t tenant.ID, items []Item) (*Report, error) {
	outcomes := make([]Outcome, len(items))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, item := range items {
		g.Go(func() error {
			outcomes[i] = Outcome{Item: item, Err: r.apply(ctx, t, item)}
			return nil
		})
	}
	_ = g.Wait()

	report := NewReport(t, outcomes)

	var errs []error
	for _, o := range report.Failures() {
		r.logger.Warn("batch item not applied",
			"tenant", t, "item", o.Item.String(), "status", o.Status(), "error", o.Err)
		errs = append(errs, fmt.Errorf("%s: %w", o.Item, o.Err))
	}
	r.logger.Info("batch finished", "tenant", t,
		"updated", report.Counts.Updated, "total", report.Counts.Total())

	return report, errors.Join(errs...)
}

func (r *Runner) apply(ctx context.Context, t tenant.ID, item Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	modify, ok := r.modifiers[item.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoModifier, item.Kind)
	}

	filter, update, fieldErrs := item.Kind.Translate(item.BatchItem)
	if len(fieldErrs) > 0 {
		msgs := make([]string, 0, len(fieldErrs))
		for _, e := range fieldErrs {
			msgs = append(msgs, e.Field+": "+e.Message)
		}
		return fmt.Errorf("%w: %s", ErrInvalidItem, strings.Join(msgs, "; "))
	}

	return modify(ctx, t, filter, update)
}
