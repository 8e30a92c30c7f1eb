package core

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/stats"
	"github.com/inovacc/pollo/internal/store"
)

// Catalog creates products and renders them with their applications.
type Catalog struct {
	products store.ProductStore
	users    store.UserStore
	settings
}

// NewCatalog creates a Catalog.
func NewCatalog(products store.ProductStore, users store.UserStore, opts ...Option) *Catalog {
	return &Catalog{
		products: products,
		users:    users,
		settings: newSettings(opts),
	}
}

// ProductInput holds the fields a producer supplies for a new product.
type ProductInput struct {
	ProducerID  int64
	Title       string
	Description string
	Country     string
	Location    string
	Price       int
	Rank        int
}

// ProductView is a product with its applications grouped by status.
type ProductView struct {
	model.Product

	Open    []model.Application `json:"open_applications"`
	Pending []model.Application `json:"pending_applications"`

	// Closed holds applications cancelled by a withdrawal.
	Closed []model.Application `json:"closed_applications"`

	Stats stats.Summary `json:"stats"`
}

// CreateProduct validates in and stores a new available product.
func (c *Catalog) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	title := strings.TrimSpace(in.Title)

	switch {
	case title == "":
		return nil, model.NewValidationError("title", "is required")
	case utf8.RuneCountInString(title) > model.MaxTitleLength:
		return nil, model.NewValidationError("title", fmt.Sprintf("must be at most %d characters", model.MaxTitleLength))
	case in.Price <= 0:
		return nil, model.NewValidationError("price", "must be positive")
	case in.Rank < 0:
		return nil, model.NewValidationError("rank", "must not be negative")
	case in.ProducerID <= 0:
		return nil, model.NewValidationError("producer_id", "must be positive")
	}

	user, err := c.users.FindUser(ctx, in.ProducerID)
	if err != nil {
		return nil, lookupError("find producer", err)
	}

	if user.Role != model.RoleProducer {
		return nil, model.NewValidationError("producer_id", fmt.Sprintf("user %d is not a producer", in.ProducerID))
	}

	producer, err := c.users.FindProducer(ctx, in.ProducerID)
	if err != nil {
		return nil, lookupError("find producer details", err)
	}

	if producer.WalletAddress == "" {
		return nil, model.NewValidationError("producer_id", "no wallet address")
	}

	p := &model.Product{
		ProducerID:  in.ProducerID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Country:     strings.TrimSpace(in.Country),
		Location:    strings.TrimSpace(in.Location),
		Price:       in.Price,
		Available:   true,
		Rank:        in.Rank,
		CreatedAt:   c.clock(),
	}

	if err := c.products.CreateProduct(ctx, p); err != nil {
		c.logger.ErrorContext(ctx, "create product failed", "producer_id", in.ProducerID, "error", err)
		return nil, &model.PersistenceError{Op: "create product", Err: err}
	}

	c.logger.InfoContext(ctx, "product created", "product_id", p.ID, "producer_id", p.ProducerID)

	return p, nil
}

// Find returns the product view for id.
func (c *Catalog) Find(ctx context.Context, id int64) (*ProductView, error) {
	p, err := c.products.FindProductWithApplications(ctx, id)
	if err != nil {
		return nil, lookupError("find product", err)
	}

	view := c.project(*p)

	return &view, nil
}

// List returns the product views matching filter, best ranked first.
func (c *Catalog) List(ctx context.Context, filter model.ProductFilter) ([]ProductView, error) {
	products, err := c.products.ListProductsWithApplications(ctx, filter)
	if err != nil {
		return nil, &model.PersistenceError{Op: "list products", Err: err}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, c.project(p))
	}

	return views, nil
}

// project is the single place a stored product becomes a view.
func (c *Catalog) project(p model.Product) ProductView {
	apps := p.Applications
	p.Applications = nil

	view := ProductView{
		Product: p,
		Open:    []model.Application{},
		Pending: []model.Application{},
		Closed:  []model.Application{},
		Stats:   stats.Summarize(apps, c.clock()),
	}

	for _, a := range apps {
		switch a.Status {
		case model.StatusOpen:
			view.Open = append(view.Open, a)
		case model.StatusPending:
			view.Pending = append(view.Pending, a)
		case model.StatusUnavailable:
			view.Closed = append(view.Closed, a)
		}
	}

	return view
}
