package core

import (
	"context"
	"net/mail"
	"strings"

	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/store"
)

// Directory registers users and keeps producer pickup details.
type Directory struct {
	users store.UserStore
	settings
}

// NewDirectory creates a Directory.
func NewDirectory(users store.UserStore, opts ...Option) *Directory {
	return &Directory{users: users, settings: newSettings(opts)}
}

// UserInput holds the fields of a new user. Role is parsed here.
type UserInput struct {
	Email     string
	FirstName string
	Surname   string
	Country   string
	Role      string
}

// RegisterUser validates in and stores a new user.
func (d *Directory) RegisterUser(ctx context.Context, in UserInput) (*model.User, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, model.NewValidationError("email", err.Error())
	}

	role, err := model.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:     addr.Address,
		FirstName: strings.TrimSpace(in.FirstName),
		Surname:   strings.TrimSpace(in.Surname),
		Country:   strings.TrimSpace(in.Country),
		Role:      role,
		CreatedAt: d.clock(),
	}

	if u.FirstName == "" {
		return nil, model.NewValidationError("first_name", "is required")
	}

	if u.Surname == "" {
		return nil, model.NewValidationError("surname", "is required")
	}

	if err := d.users.CreateUser(ctx, u); err != nil {
		return nil, &model.PersistenceError{Op: "create user", Err: err}
	}

	d.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)

	return u, nil
}

// SetProducerDetails stores the pickup and wallet details of a producer.
func (d *Directory) SetProducerDetails(ctx context.Context, details model.Producer) (*model.Producer, error) {
	u, err := d.users.FindUser(ctx, details.UserID)
	if err != nil {
		return nil, lookupError("find user", err)
	}

	if u.Role != model.RoleProducer {
		return nil, model.NewValidationError("user_id", "user is not a producer")
	}

	details.Street = strings.TrimSpace(details.Street)
	details.StreetNumber = strings.TrimSpace(details.StreetNumber)
	details.Zipcode = strings.TrimSpace(details.Zipcode)
	details.City = strings.TrimSpace(details.City)
	details.WalletAddress = strings.TrimSpace(details.WalletAddress)
	details.DeviceAddress = strings.TrimSpace(details.DeviceAddress)

	if details.Street == "" || details.City == "" {
		return nil, model.NewValidationError("address", "street and city are required")
	}

	if err := d.users.SaveProducer(ctx, &details); err != nil {
		return nil, lookupError("save producer", err)
	}

	return &details, nil
}

// Find returns the user with id.
func (d *Directory) Find(ctx context.Context, id int64) (*model.User, error) {
	u, err := d.users.FindUser(ctx, id)
	if err != nil {
		return nil, lookupError("find user", err)
	}

	return u, nil
}
