package store

import (
	"context"
	"fmt"

	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/store/sqlite"
)

// ApplicationStore persists applications.
type ApplicationStore interface {
	// CreateApplication inserts app and assigns its ID.
	CreateApplication(ctx context.Context, app *model.Application) error
	FindApplication(ctx context.Context, id int64) (*model.Application, error)
	SaveApplication(ctx context.Context, app *model.Application) error
	DeleteApplication(ctx context.Context, id int64) error
	ListApplicationsByProduct(ctx context.Context, productID int64) ([]model.Application, error)
	ListApplicationsByReceiver(ctx context.Context, receiverID int64) ([]model.Application, error)
	ListOpenApplications(ctx context.Context) ([]model.Application, error)
}

// ProductStore persists products.
type ProductStore interface {
	// CreateProduct inserts p and assigns its ID.
	CreateProduct(ctx context.Context, p *model.Product) error
	FindProduct(ctx context.Context, id int64) (*model.Product, error)
	SaveProduct(ctx context.Context, p *model.Product) error

	// FindProductWithApplications loads the product and all of its applications.
	FindProductWithApplications(ctx context.Context, id int64) (*model.Product, error)
	ListProductsWithApplications(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
}

// UserStore persists receivers, producers and producer details.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindUser(ctx context.Context, id int64) (*model.User, error)
	SaveProducer(ctx context.Context, p *model.Producer) error
	FindProducer(ctx context.Context, userID int64) (*model.Producer, error)
}

// Store is the full persistence surface of a backend.
type Store interface {
	ApplicationStore
	ProductStore
	UserStore

	Ping() error
	Close() error
}

// Supported backends.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Open opens the backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendBolt, "":
		return NewBolt(path)
	case BackendSQLite:
		return sqlite.New(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
