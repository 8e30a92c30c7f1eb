// Package sqlite provides SQLite database storage for pollo.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/store/sqlite/sqlc"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db      *sql.DB
	queries *sqlc.Queries
	mu      sync.RWMutex
}

// New opens the SQLite database at dbPath and applies pending migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't handle multiple writers well
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := NewMigrator(db).MigrateUp(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already migrated database handle.
func NewWithDB(db *sql.DB) *Store {
	return &Store{
		db:      db,
		queries: sqlc.New(db),
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks if the database is accessible.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// notFound maps sql.ErrNoRows to model.ErrNotFound and wraps anything else.
func notFound(err error, kind string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFound(kind, id)
	}

	return fmt.Errorf("get %s %d: %w", kind, id, err)
}

// ============================================================================
// Application Operations
// ============================================================================

func (s *Store) CreateApplication(ctx context.Context, app *model.Application) error {
	if app == nil {
		return errors.New("application is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.queries.CreateApplication(ctx, sqlc.CreateApplicationParams{
		ReceiverID:     app.ReceiverID,
		ProductID:      app.ProductID,
		Motivation:     app.Motivation,
		Status:         int64(app.Status),
		CreatedAt:      toUnix(app.CreatedAt),
		LastModified:   toUnix(app.LastModified),
		DonationDate:   ptrString(app.DonationDate),
		DateOfDonation: ptrTime(app.DateOfDonation),
	})
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	app.ID = id

	return nil
}

func (s *Store) FindApplication(ctx context.Context, id int64) (*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, err := s.queries.GetApplication(ctx, id)
	if err != nil {
		return nil, notFound(err, "application", id)
	}

	app := sqlcApplicationToModel(row)

	return &app, nil
}

func (s *Store) SaveApplication(ctx context.Context, app *model.Application) error {
	if app == nil {
		return errors.New("application is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.queries.UpdateApplication(ctx, sqlc.UpdateApplicationParams{
		ReceiverID:     app.ReceiverID,
		ProductID:      app.ProductID,
		Motivation:     app.Motivation,
		Status:         int64(app.Status),
		CreatedAt:      toUnix(app.CreatedAt),
		LastModified:   toUnix(app.LastModified),
		DonationDate:   ptrString(app.DonationDate),
		DateOfDonation: ptrTime(app.DateOfDonation),
		ID:             app.ID,
	})
	if err != nil {
		return fmt.Errorf("update application %d: %w", app.ID, err)
	}

	if n == 0 {
		return model.NotFound("application", app.ID)
	}

	return nil
}

func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.queries.DeleteApplication(ctx, id)
	if err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}

	if n == 0 {
		return model.NotFound("application", id)
	}

	return nil
}

func (s *Store) ListApplicationsByProduct(ctx context.Context, productID int64) ([]model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.queries.ListApplicationsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list applications of product %d: %w", productID, err)
	}

	return sqlcApplicationsToModel(rows), nil
}

func (s *Store) ListApplicationsByReceiver(ctx context.Context, receiverID int64) ([]model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.queries.ListApplicationsByReceiver(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("list applications of receiver %d: %w", receiverID, err)
	}

	return sqlcApplicationsToModel(rows), nil
}

func (s *Store) ListOpenApplications(ctx context.Context) ([]model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.queries.ListApplicationsByStatus(ctx, int64(model.StatusOpen))
	if err != nil {
		return nil, fmt.Errorf("list open applications: %w", err)
	}

	return sqlcApplicationsToModel(rows), nil
}

// ============================================================================
// Product Operations
// ============================================================================

func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	if p == nil {
		return errors.New("product is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.queries.CreateProduct(ctx, sqlc.CreateProductParams{
		ProducerID:  p.ProducerID,
		Title:       p.Title,
		Description: p.Description,
		Country:     p.Country,
		Location:    p.Location,
		Price:       int64(p.Price),
		Available:   boolToInt(p.Available),
		Rank:        int64(p.Rank),
		CreatedAt:   toUnix(p.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	p.ID = id

	return nil
}

func (s *Store) FindProduct(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, err := s.queries.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}

	p := sqlcProductToModel(row)

	return &p, nil
}

// SaveProduct updates the product row. Applications are not touched.
func (s *Store) SaveProduct(ctx context.Context, p *model.Product) error {
	if p == nil {
		return errors.New("product is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.queries.UpdateProduct(ctx, sqlc.UpdateProductParams{
		ProducerID:  p.ProducerID,
		Title:       p.Title,
		Description: p.Description,
		Country:     p.Country,
		Location:    p.Location,
		Price:       int64(p.Price),
		Available:   boolToInt(p.Available),
		Rank:        int64(p.Rank),
		CreatedAt:   toUnix(p.CreatedAt),
		ID:          p.ID,
	})
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}

	if n == 0 {
		return model.NotFound("product", p.ID)
	}

	return nil
}

func (s *Store) FindProductWithApplications(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, err := s.queries.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}

	p := sqlcProductToModel(row)

	apps, err := s.queries.ListApplicationsByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list applications of product %d: %w", id, err)
	}

	p.Applications = sqlcApplicationsToModel(apps)

	return &p, nil
}

func (s *Store) ListProductsWithApplications(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	params := sqlc.ListProductsParams{
		ProducerID:    filter.ProducerID,
		AvailableOnly: boolToInt(filter.AvailableOnly),
		Limit:         -1, // no limit
		Offset:        int64(max(filter.Offset, 0)),
	}

	if filter.Limit > 0 {
		params.Limit = int64(filter.Limit)
	}

	rows, err := s.queries.ListProducts(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]model.Product, 0, len(rows))

	for _, row := range rows {
		p := sqlcProductToModel(row)

		apps, err := s.queries.ListApplicationsByProduct(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list applications of product %d: %w", p.ID, err)
		}

		p.Applications = sqlcApplicationsToModel(apps)
		out = append(out, p)
	}

	return out, nil
}

// ============================================================================
// User Operations
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if u == nil {
		return errors.New("user is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.queries.CreateUser(ctx, sqlc.CreateUserParams{
		Email:     u.Email,
		FirstName: u.FirstName,
		Surname:   u.Surname,
		Country:   u.Country,
		Role:      int64(u.Role),
		CreatedAt: toUnix(u.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID = id

	return nil
}

func (s *Store) FindUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}

	u := sqlcUserToModel(row)

	return &u, nil
}

// SaveProducer inserts or replaces the producer details of an existing user.
func (s *Store) SaveProducer(ctx context.Context, p *model.Producer) error {
	if p == nil {
		return errors.New("producer is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.queries.GetUser(ctx, p.UserID); err != nil {
		return notFound(err, "user", p.UserID)
	}

	err := s.queries.UpsertProducer(ctx, sqlc.UpsertProducerParams{
		UserID:        p.UserID,
		Street:        p.Street,
		StreetNumber:  p.StreetNumber,
		Zipcode:       p.Zipcode,
		City:          p.City,
		WalletAddress: p.WalletAddress,
		DeviceAddress: p.DeviceAddress,
	})
	if err != nil {
		return fmt.Errorf("save producer %d: %w", p.UserID, err)
	}

	return nil
}

func (s *Store) FindProducer(ctx context.Context, userID int64) (*model.Producer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, err := s.queries.GetProducer(ctx, userID)
	if err != nil {
		return nil, notFound(err, "producer", userID)
	}

	p := sqlcProducerToModel(row)

	return &p, nil
}
