package core

import (
	"context"
	"strings"
	"testing"

	"github.com/inovacc/pollo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CreateProduct(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	producer := st.addProducer()
	receiver := st.addUser("r@example.org", model.RoleReceiver)

	noWallet := st.addUser("nowallet@example.org", model.RoleProducer)
	require.NoError(t, st.SaveProducer(ctx, &model.Producer{UserID: noWallet, Street: "A", City: "B"}))

	catalog := NewCatalog(st, st, testOptions()...)

	p, err := catalog.CreateProduct(ctx, ProductInput{ProducerID: producer, Title: " Chickens ", Price: 25, Rank: 2})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Chickens", p.Title)
	assert.True(t, p.Available)
	assert.True(t, p.CreatedAt.Equal(fixedNow))

	tests := []struct {
		name  string
		in    ProductInput
		field string
	}{
		{name: "blank title", in: ProductInput{ProducerID: producer, Title: "  ", Price: 1}, field: "title"},
		{name: "long title", in: ProductInput{ProducerID: producer, Title: strings.Repeat("x", 256), Price: 1}, field: "title"},
		{name: "zero price", in: ProductInput{ProducerID: producer, Title: "x"}, field: "price"},
		{name: "negative rank", in: ProductInput{ProducerID: producer, Title: "x", Price: 1, Rank: -1}, field: "rank"},
		{name: "receiver", in: ProductInput{ProducerID: receiver, Title: "x", Price: 1}, field: "producer_id"},
		{name: "no wallet", in: ProductInput{ProducerID: noWallet, Title: "x", Price: 1}, field: "producer_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.CreateProduct(ctx, tt.in)

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, err = catalog.CreateProduct(ctx, ProductInput{ProducerID: 999, Title: "x", Price: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCatalog_Projection(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	producer := st.addProducer()
	receiver := st.addUser("r@example.org", model.RoleReceiver)

	first := st.addProduct(producer, "Chickens", true)
	second := st.addProduct(producer, "Goats", true)
	st.products[second] = model.Product{ID: second, ProducerID: producer, Title: "Goats", Available: true, Rank: 5}

	st.addApplication(receiver, first, model.StatusOpen)
	st.addApplication(receiver, first, model.StatusPending)
	st.addApplication(receiver, first, model.StatusCompleted)
	st.addApplication(receiver, first, model.StatusUnavailable)

	catalog := NewCatalog(st, st, testOptions()...)

	view, err := catalog.Find(ctx, first)
	require.NoError(t, err)
	assert.Len(t, view.Open, 1)
	assert.Len(t, view.Pending, 1)
	assert.Len(t, view.Closed, 1)
	assert.Nil(t, view.Applications)
	assert.Equal(t, 1, view.Stats.CompletedAllTime)
	assert.Equal(t, 1, view.Stats.PendingAllTime)
	assert.Equal(t, "2026-09-01 10:00", view.Stats.LastDonation)

	views, err := catalog.List(ctx, model.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Goats", views[0].Title)
	assert.Empty(t, views[0].Open)
	assert.Equal(t, view.Stats, views[1].Stats, "single and list reads share one projection")

	_, err = catalog.Find(ctx, 404)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
