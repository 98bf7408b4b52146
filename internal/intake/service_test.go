package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniostano/reminders/internal/extract"
	"github.com/antoniostano/reminders/internal/observability"
	"github.com/antoniostano/reminders/internal/reminders"
)

var refNow = time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)

type countingStore struct {
	reminders.Store
	loads atomic.Int32
	saves atomic.Int32
}

func (c *countingStore) LoadAll(ctx context.Context) ([]reminders.Reminder, error) {
	c.loads.Add(1)
	return c.Store.LoadAll(ctx)
}

func (c *countingStore) SaveAll(ctx context.Context, rs []reminders.Reminder) error {
	c.saves.Add(1)
	return c.Store.SaveAll(ctx, rs)
}

type failingStore struct {
	*reminders.InMemoryStore
	err error
}

func (f *failingStore) SaveAll(context.Context, []reminders.Reminder) error { return f.err }

func newService(t *testing.T, st reminders.Store) (*Service, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsWith("test_intake", prometheus.NewRegistry())
	ex := extract.NewWithClock(func() time.Time { return refNow })
	return New(ex, reminders.NewGuarded(st), metrics, nil), metrics
}

func TestAddReminderPersists(t *testing.T) {
	ctx := context.Background()
	svc, metrics := newService(t, reminders.NewInMemoryStore())

	rem, err := svc.AddReminder(ctx, "Pay rent by next Friday")
	require.NoError(t, err)
	assert.Equal(t, reminders.Reminder{
		Category:    reminders.CategoryPayment,
		Description: "Pay rent by next Friday",
		Date:        "2025-03-07",
	}, rem)
	assert.Equal(t, "Added reminder [payment]: Pay rent by next Friday on 2025-03-07", ConfirmationMessage(rem))

	all, err := svc.ListReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []reminders.Reminder{rem}, all)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IntakeEvents.WithLabelValues("added")))
}

func TestAddReminderWithoutDateDoesNotTouchStore(t *testing.T) {
	ctx := context.Background()
	inner := reminders.NewInMemoryStore()
	require.NoError(t, inner.SaveAll(ctx, []reminders.Reminder{
		{Category: reminders.CategoryGeneral, Description: "existing", Date: "2025-03-10"},
	}))
	st := &countingStore{Store: inner}
	svc, metrics := newService(t, st)

	_, err := svc.AddReminder(ctx, "no date here")
	require.ErrorIs(t, err, ErrNoDateDetected)
	assert.Equal(t, "Could not detect a date in your input.", err.Error())
	assert.Zero(t, st.loads.Load())
	assert.Zero(t, st.saves.Load())

	all, err := svc.ListReminders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IntakeEvents.WithLabelValues("no_date")))
}

func TestAddReminderOutOfRangeYearIsNoDate(t *testing.T) {
	st := &countingStore{Store: reminders.NewInMemoryStore()}
	svc, _ := newService(t, st)

	_, err := svc.AddReminder(context.Background(), "renew in 9999 years")
	require.ErrorIs(t, err, ErrNoDateDetected)
	assert.Zero(t, st.saves.Load())
}

func TestAddReminderSurfacesStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	svc, metrics := newService(t, &failingStore{InMemoryStore: reminders.NewInMemoryStore(), err: boom})

	_, err := svc.AddReminder(context.Background(), "call mom tomorrow")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreErrors.WithLabelValues("save")))
}

func TestAddReminderConcurrentCallsKeepEveryRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, reminders.NewInMemoryStore())

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddReminder(ctx, fmt.Sprintf("task %d tomorrow", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := svc.ListReminders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func TestListRemindersIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, reminders.NewInMemoryStore())
	for _, text := range []string{"Doctor visit March 20", "Anna's birthday on the 9th", "Pay rent on the 5th"} {
		_, err := svc.AddReminder(ctx, text)
		require.NoError(t, err)
	}

	first, err := svc.ListReminders(ctx)
	require.NoError(t, err)
	second, err := svc.ListReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, reminders.CategoryMedical, first[0].Category)
	assert.Equal(t, reminders.CategoryBirthday, first[1].Category)
	assert.Equal(t, reminders.CategoryPayment, first[2].Category)
}

func TestDueOn(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, reminders.NewInMemoryStore())
	for _, text := range []string{"Pay rent on the 5th", "call mom tomorrow", "Doctor visit 2025-03-05"} {
		_, err := svc.AddReminder(ctx, text)
		require.NoError(t, err)
	}

	due, err := svc.DueOn(ctx, "2025-03-05")
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, reminders.CategoryPayment, due[0].Category)
	assert.Equal(t, reminders.CategoryMedical, due[1].Category)
}
