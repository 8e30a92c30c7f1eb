package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/inovacc/pollo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "pollo.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestMigrator(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	m := NewMigrator(db)

	version, err := m.CurrentVersion()
	require.NoError(t, err)
	assert.Zero(t, version)

	pending, err := m.PendingMigrations()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "initial schema", pending[0].Description)

	require.NoError(t, m.MigrateUp())
	require.NoError(t, m.MigrateUp(), "applying twice is a no-op")

	version, err = m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	pending, err = m.PendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStore_ApplicationLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	p := &model.Product{ProducerID: 1, Title: "Chickens", Price: 20, Available: true, CreatedAt: base}
	require.NoError(t, s.CreateProduct(ctx, p))

	app := &model.Application{
		ReceiverID: 7, ProductID: p.ID, Motivation: "for the farm",
		Status: model.StatusOpen, CreatedAt: base, LastModified: base,
	}
	require.NoError(t, s.CreateApplication(ctx, app))
	require.NotZero(t, app.ID)

	got, err := s.FindApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, got.Status)
	assert.Empty(t, got.DonationDate)
	assert.True(t, got.DateOfDonation.IsZero())
	assert.True(t, got.CreatedAt.Equal(base))

	got.Status = model.StatusPending
	got.MarkDonated(base.Add(time.Hour))
	require.NoError(t, s.SaveApplication(ctx, got))

	withApps, err := s.FindProductWithApplications(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, withApps.Applications, 1)
	assert.Equal(t, "2026-10-01", withApps.Applications[0].DonationDate)
	assert.True(t, withApps.Applications[0].DateOfDonation.Equal(base.Add(time.Hour)))

	got.ClearDonation()
	got.Status = model.StatusOpen
	require.NoError(t, s.SaveApplication(ctx, got))

	reloaded, err := s.FindApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.DonationDate)
	assert.True(t, reloaded.DateOfDonation.IsZero())

	open, err := s.ListOpenApplications(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	byReceiver, err := s.ListApplicationsByReceiver(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, byReceiver, 1)

	require.NoError(t, s.DeleteApplication(ctx, app.ID))
	assert.ErrorIs(t, s.DeleteApplication(ctx, app.ID), model.ErrNotFound)

	_, err = s.FindApplication(ctx, app.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_ListProducts(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	for _, p := range []*model.Product{
		{ProducerID: 1, Title: "old", Price: 1, Available: true, Rank: 1, CreatedAt: base},
		{ProducerID: 1, Title: "new", Price: 1, Available: true, Rank: 1, CreatedAt: base.Add(time.Hour)},
		{ProducerID: 2, Title: "top", Price: 1, Available: false, Rank: 9, CreatedAt: base},
	} {
		require.NoError(t, s.CreateProduct(ctx, p))
	}

	tests := []struct {
		name   string
		filter model.ProductFilter
		want   []string
	}{
		{name: "rank then newest", want: []string{"top", "new", "old"}},
		{name: "available only", filter: model.ProductFilter{AvailableOnly: true}, want: []string{"new", "old"}},
		{name: "producer", filter: model.ProductFilter{ProducerID: 2}, want: []string{"top"}},
		{name: "page", filter: model.ProductFilter{Offset: 1, Limit: 1}, want: []string{"new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListProductsWithApplications(ctx, tt.filter)
			require.NoError(t, err)

			titles := make([]string, 0, len(got))
			for _, p := range got {
				titles = append(titles, p.Title)
			}

			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	assert.ErrorIs(t, s.SaveProducer(ctx, &model.Producer{UserID: 99}), model.ErrNotFound)

	u := &model.User{Email: "p@example.org", FirstName: "Ana", Surname: "Lopez", Role: model.RoleProducer, CreatedAt: base}
	require.NoError(t, s.CreateUser(ctx, u))

	require.NoError(t, s.SaveProducer(ctx, &model.Producer{UserID: u.ID, Street: "Main St", StreetNumber: "4", City: "Town"}))
	require.NoError(t, s.SaveProducer(ctx, &model.Producer{UserID: u.ID, Street: "Main St", StreetNumber: "4", City: "Town", WalletAddress: "W1"}))

	producer, err := s.FindProducer(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "W1", producer.WalletAddress)

	user, err := s.FindUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleProducer, user.Role)
	assert.Equal(t, "Ana Lopez", user.FullName())
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return NewWithDB(db), mock
}

func TestStore_DriverErrors(t *testing.T) {
	ctx := context.Background()
	errDriver := errors.New("disk I/O error")

	t.Run("save application", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE applications")).WillReturnError(errDriver)

		err := s.SaveApplication(ctx, &model.Application{ID: 1, Status: model.StatusPending})
		require.ErrorIs(t, err, errDriver)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("save missing application", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE applications")).WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.SaveApplication(ctx, &model.Application{ID: 1})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("delete application", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applications")).WithArgs(int64(3)).WillReturnError(errDriver)

		assert.ErrorIs(t, s.DeleteApplication(ctx, 3), errDriver)
	})

	t.Run("find missing application", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE id = ?")).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := s.FindApplication(ctx, 5)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("find product", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = ?")).WillReturnError(errDriver)

		_, err := s.FindProduct(ctx, 5)
		require.ErrorIs(t, err, errDriver)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("list applications of product", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "producer_id", "title", "description", "country", "location",
				"price", "available", "rank", "created_at",
			}).AddRow(5, 1, "Chickens", "", "", "", 10, 1, 0, base.UnixNano()))
		mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE product_id = ?")).WillReturnError(errDriver)

		_, err := s.FindProductWithApplications(ctx, 5)
		assert.ErrorIs(t, err, errDriver)
	})
}
