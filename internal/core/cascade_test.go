package core

import (
	"context"
	"errors"
	"testing"

	"github.com/inovacc/pollo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cascadeFixture struct {
	store    *memStore
	notifier *recorder
	cascade  *Cascade
	receiver int64
	product  int64
}

func newCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()

	st := newMemStore()
	rec := &recorder{}
	producer := st.addProducer()

	return &cascadeFixture{
		store:    st,
		notifier: rec,
		cascade:  NewCascade(st, st, st, rec, testOptions()...),
		receiver: st.addUser("receiver@example.org", model.RoleReceiver),
		product:  st.addProduct(producer, "Chickens", true),
	}
}

func TestCascade_WithdrawScenario(t *testing.T) {
	f := newCascadeFixture(t)

	a1 := f.store.addApplication(f.receiver, f.product, model.StatusOpen)
	a2 := f.store.addApplication(f.receiver, f.product, model.StatusPending)
	a3 := f.store.addApplication(f.receiver, f.product, model.StatusCompleted)
	a2Before, a3Before := f.store.app(a2), f.store.app(a3)

	res, err := f.cascade.SetAvailability(context.Background(), f.product, false)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, 1, res.PendingCount)
	assert.True(t, res.NotificationSent)

	app1 := f.store.app(a1)
	assert.Equal(t, model.StatusUnavailable, app1.Status)
	assert.True(t, app1.LastModified.Equal(fixedNow))
	assert.Equal(t, a2Before, f.store.app(a2))
	assert.Equal(t, a3Before, f.store.app(a3))

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "receiver@example.org", f.notifier.calls[0].To)
	assert.Contains(t, f.notifier.calls[0].Body, "Chickens")

	assert.False(t, f.store.products[f.product].Available)
}

func TestCascade_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newCascadeFixture(t)

	f.store.addApplication(f.receiver, f.product, model.StatusOpen)
	f.store.addApplication(f.receiver, f.product, model.StatusOpen)
	f.store.addApplication(f.receiver, f.product, model.StatusPending)

	first, err := f.cascade.SetAvailability(ctx, f.product, false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.PendingCount)
	assert.Len(t, f.notifier.calls, 2)

	saves := f.store.saveCallCount
	snapshot := make(map[int64]model.Application, len(f.store.apps))
	for id, a := range f.store.apps {
		snapshot[id] = a
	}

	second, err := f.cascade.SetAvailability(ctx, f.product, false)
	require.NoError(t, err)
	assert.True(t, second.OK)
	assert.Equal(t, 1, second.PendingCount)
	assert.False(t, second.NotificationSent)

	assert.Equal(t, saves, f.store.saveCallCount, "no application saved on the second call")
	assert.Equal(t, snapshot, f.store.apps)
	assert.Len(t, f.notifier.calls, 2)
}

func TestCascade_NotificationFailuresAreIsolated(t *testing.T) {
	tests := []struct {
		name     string
		results  []bool
		wantSent bool
	}{
		{name: "first fails second succeeds", results: []bool{false, true}, wantSent: true},
		{name: "last fails", results: []bool{true, false}, wantSent: true},
		{name: "all fail", results: []bool{false, false}, wantSent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCascadeFixture(t)
			f.notifier.results = tt.results

			a := f.store.addApplication(f.receiver, f.product, model.StatusOpen)
			b := f.store.addApplication(f.receiver, f.product, model.StatusOpen)

			res, err := f.cascade.SetAvailability(context.Background(), f.product, false)
			require.NoError(t, err)
			assert.True(t, res.OK)
			assert.Equal(t, tt.wantSent, res.NotificationSent)

			assert.Equal(t, model.StatusUnavailable, f.store.app(a).Status)
			assert.Equal(t, model.StatusUnavailable, f.store.app(b).Status)
			assert.Len(t, f.notifier.calls, 2)
		})
	}
}

func TestCascade_MissingReceiverSkipsNotice(t *testing.T) {
	f := newCascadeFixture(t)

	ghost := f.store.addApplication(9999, f.product, model.StatusOpen)
	known := f.store.addApplication(f.receiver, f.product, model.StatusOpen)

	res, err := f.cascade.SetAvailability(context.Background(), f.product, false)
	require.NoError(t, err)
	assert.True(t, res.NotificationSent)
	assert.Equal(t, model.StatusUnavailable, f.store.app(ghost).Status)
	assert.Equal(t, model.StatusUnavailable, f.store.app(known).Status)
	assert.Len(t, f.notifier.calls, 1)
}

func TestCascade_SaveFailureAborts(t *testing.T) {
	f := newCascadeFixture(t)

	a := f.store.addApplication(f.receiver, f.product, model.StatusOpen)
	b := f.store.addApplication(f.receiver, f.product, model.StatusOpen)
	f.store.failSave[a] = errors.New("database is locked")

	res, err := f.cascade.SetAvailability(context.Background(), f.product, false)
	require.Error(t, err)
	assert.True(t, model.IsPersistence(err))
	assert.False(t, res.OK)

	assert.Equal(t, model.StatusOpen, f.store.app(b).Status, "later applications are not processed")
	assert.True(t, f.store.products[f.product].Available, "availability is not saved")
	assert.Empty(t, f.notifier.calls)
}

func TestCascade_ProductSaveFailure(t *testing.T) {
	f := newCascadeFixture(t)
	f.store.failSaveProd = errors.New("disk full")

	_, err := f.cascade.SetAvailability(context.Background(), f.product, false)
	assert.True(t, model.IsPersistence(err))
}

func TestCascade_MakeAvailable(t *testing.T) {
	f := newCascadeFixture(t)
	f.store.products[f.product] = model.Product{ID: f.product, Title: "Chickens", Available: false}

	open := f.store.addApplication(f.receiver, f.product, model.StatusOpen)
	f.store.addApplication(f.receiver, f.product, model.StatusPending)

	res, err := f.cascade.SetAvailability(context.Background(), f.product, true)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.PendingCount)
	assert.False(t, res.NotificationSent)

	assert.Equal(t, model.StatusOpen, f.store.app(open).Status)
	assert.True(t, f.store.products[f.product].Available)
	assert.Empty(t, f.notifier.calls)
}

func TestCascade_MissingProduct(t *testing.T) {
	f := newCascadeFixture(t)

	res, err := f.cascade.SetAvailability(context.Background(), 404, false)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, res.OK)
}
