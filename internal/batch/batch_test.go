package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var airqo = tenant.MustParse("airqo")

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// recorder is a Modifier that remembers what it applied
type recorder struct {
	mu       sync.Mutex
	applied  []model.Filter
	inFlight atomic.Int32
	peak     atomic.Int32
	fail     func(model.Filter) error
	delay    time.Duration
}

func (r *recorder) modify(ctx context.Context, t tenant.ID, filter model.Filter, update model.Update) error {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if r.fail != nil {
		if err := r.fail(filter); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.applied = append(r.applied, filter)
	r.mu.Unlock()
	return nil
}

func deviceItem(i int, name string) Item {
	return Item{Kind: model.KindDevice, Index: i, BatchItem: model.BatchItem{
		Filter: map[string]string{"name": name},
		Update: map[string]interface{}{"status": "deployed"},
	}}
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("all items applied", func(t *testing.T) {
		rec := &recorder{}
		runner := NewRunner(RunnerConfig{
			Modifiers:   map[model.RegistryKind]Modifier{model.KindDevice: rec.modify},
			Concurrency: 2,
			Logger:      quiet,
		})

		items := []Item{deviceItem(0, "aq_01"), deviceItem(1, "aq_02"), deviceItem(2, "aq_03")}
		report, err := runner.Run(ctx, airqo, items)

		require.NoError(t, err)
		assert.Equal(t, Counts{Updated: 3}, report.Counts)
		assert.Len(t, rec.applied, 3)
		assert.Empty(t, report.Failures())
	})

	t.Run("failures do not stop siblings", func(t *testing.T) {
		rec := &recorder{fail: func(f model.Filter) error {
			switch f["name"] {
			case "missing":
				return database.ErrNotFound
			case "broken":
				return errors.New("connection reset")
			}
			return nil
		}}
		runner := NewRunner(RunnerConfig{
			Modifiers: map[model.RegistryKind]Modifier{
				model.KindDevice: rec.modify,
				model.KindSite:   rec.modify,
			},
			Logger: quiet,
		})

		items := []Item{
			deviceItem(0, "aq_01"),
			deviceItem(1, "missing"),
			deviceItem(2, "broken"),
			{Kind: model.KindSite, Index: 0, BatchItem: model.BatchItem{
				Filter: map[string]string{"secret": "x"},
				Update: map[string]interface{}{"name": "Kampala"},
			}},
			{Kind: model.KindActivity, Index: 0, BatchItem: model.BatchItem{
				Filter: map[string]string{"device": "aq_01"},
				Update: map[string]interface{}{"description": "recalled"},
			}},
			deviceItem(3, "aq_04"),
		}
		report, err := runner.Run(ctx, airqo, items)

		require.Error(t, err)
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.ErrorIs(t, err, ErrInvalidItem)
		assert.ErrorIs(t, err, ErrNoModifier)
		assert.Contains(t, err.Error(), "device[2]: connection reset")

		assert.Equal(t, Counts{Updated: 2, NotFound: 1, Failed: 2, Invalid: 1}, report.Counts)
		assert.Equal(t, Counts{Updated: 2, NotFound: 1, Failed: 1}, report.ByKind[model.KindDevice])
		assert.Equal(t, Counts{Invalid: 1}, report.ByKind[model.KindSite])
		assert.Len(t, report.Failures(), 4)
		assert.Equal(t, "tenant airqo: 2 of 6 updated (activity 0/1, device 2/4, site 0/1)", report.String())
	})

	t.Run("concurrency is bounded", func(t *testing.T) {
		rec := &recorder{delay: 5 * time.Millisecond}
		runner := NewRunner(RunnerConfig{
			Modifiers:   map[model.RegistryKind]Modifier{model.KindDevice: rec.modify},
			Concurrency: 3,
			Logger:      quiet,
		})

		items := make([]Item, 20)
		for i := range items {
			items[i] = deviceItem(i, "aq")
		}
		report, err := runner.Run(ctx, airqo, items)

		require.NoError(t, err)
		assert.Equal(t, 20, report.Counts.Updated)
		assert.LessOrEqual(t, rec.peak.Load(), int32(3))
	})

	t.Run("cancelled context", func(t *testing.T) {
		rec := &recorder{}
		runner := NewRunner(RunnerConfig{
			Modifiers: map[model.RegistryKind]Modifier{model.KindDevice: rec.modify},
			Logger:    quiet,
		})
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		report, err := runner.Run(cctx, airqo, []Item{deviceItem(0, "aq_01"), deviceItem(1, "aq_02")})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 2, report.Counts.Failed)
		assert.Empty(t, rec.applied)
	})

	t.Run("no items", func(t *testing.T) {
		runner := NewRunner(RunnerConfig{Logger: quiet})
		report, err := runner.Run(ctx, airqo, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Counts.Total())
	})
}

func TestModifyFunc(t *testing.T) {
	var got model.Filter
	modify := ModifyFunc(func(ctx context.Context, t tenant.ID, f model.Filter, u model.Update) (*model.Device, error) {
		got = f
		return &model.Device{ID: "device:1"}, nil
	})

	require.NoError(t, modify(context.Background(), airqo, model.Filter{"name": "aq_01"}, model.Update{}))
	assert.Equal(t, model.Filter{"name": "aq_01"}, got)
}
