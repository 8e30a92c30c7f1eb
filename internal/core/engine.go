package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/notify"
	"github.com/inovacc/pollo/internal/store"
)

// Engine owns the status lifecycle of individual applications.
type Engine struct {
	apps     store.ApplicationStore
	products store.ProductStore
	users    store.UserStore
	notifier notify.Notifier
	settings
}

// NewEngine creates an Engine over the given stores and notifier.
func NewEngine(apps store.ApplicationStore, products store.ProductStore, users store.UserStore, notifier notify.Notifier, opts ...Option) *Engine {
	return &Engine{
		apps:     apps,
		products: products,
		users:    users,
		notifier: notifier,
		settings: newSettings(opts),
	}
}

// TransitionResult reports the outcome of Transition.
//
// OK is false when the application was not found or the transition is not
// allowed; Rejected then says why. Notified is only meaningful for a
// successful Open to Pending transition.
type TransitionResult struct {
	OK       bool  `json:"ok"`
	Notified bool  `json:"notified"`
	Rejected error `json:"-"`
}

// Create files a new Open application by receiverID for productID.
func (e *Engine) Create(ctx context.Context, receiverID, productID int64, motivation string) (*model.Application, error) {
	if receiverID <= 0 {
		return nil, model.NewValidationError("receiver_id", "must be positive")
	}

	if productID <= 0 {
		return nil, model.NewValidationError("product_id", "must be positive")
	}

	motivation = strings.TrimSpace(motivation)
	if motivation == "" {
		return nil, model.NewValidationError("motivation", "is required")
	}

	if utf8.RuneCountInString(motivation) > model.MaxMotivationLength {
		return nil, model.NewValidationError("motivation",
			fmt.Sprintf("must be at most %d characters", model.MaxMotivationLength))
	}

	receiver, err := e.users.FindUser(ctx, receiverID)
	if err != nil {
		return nil, lookupError("find receiver", err)
	}

	if receiver.Role != model.RoleReceiver {
		return nil, model.NewValidationError("receiver_id", fmt.Sprintf("user %d is not a receiver", receiverID))
	}

	product, err := e.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, lookupError("find product", err)
	}

	if !product.Available {
		return nil, model.NewValidationError("product_id", fmt.Sprintf("product %d is not available", productID))
	}

	now := e.clock()
	app := &model.Application{
		ReceiverID:   receiverID,
		ProductID:    productID,
		Motivation:   motivation,
		Status:       model.StatusOpen,
		CreatedAt:    now,
		LastModified: now,
	}

	if err := e.apps.CreateApplication(ctx, app); err != nil {
		e.logger.ErrorContext(ctx, "create application failed", "receiver_id", receiverID, "product_id", productID, "error", err)
		return nil, &model.PersistenceError{Op: "create application", Err: err}
	}

	e.logger.InfoContext(ctx, "application created", "application_id", app.ID, "product_id", productID)

	return app, nil
}

// Find returns the application with id, or an error wrapping model.ErrNotFound.
func (e *Engine) Find(ctx context.Context, id int64) (*model.Application, error) {
	app, err := e.apps.FindApplication(ctx, id)
	if err != nil {
		return nil, lookupError("find application", err)
	}

	return app, nil
}

// ContractInfo returns the price of the product applied for and the
// producer's wallet and device addresses. The application status is not
// checked. A missing application, product or producer yields an error
// wrapping model.ErrNotFound.
func (e *Engine) ContractInfo(ctx context.Context, id int64) (*model.ContractInfo, error) {
	app, err := e.apps.FindApplication(ctx, id)
	if err != nil {
		return nil, lookupError("find application", err)
	}

	product, err := e.products.FindProduct(ctx, app.ProductID)
	if err != nil {
		return nil, lookupError("find product", err)
	}

	producer, err := e.users.FindProducer(ctx, product.ProducerID)
	if err != nil {
		return nil, lookupError("find producer", err)
	}

	return &model.ContractInfo{
		ApplicationID: app.ID,
		ProductID:     product.ID,
		Price:         product.Price,
		WalletAddress: producer.WalletAddress,
		DeviceAddress: producer.DeviceAddress,
	}, nil
}

// Transition moves application id to status to.
//
// A missing application or a disallowed transition is reported through the
// result, not the error. The error is only set when persisting the change
// failed, in which case nothing was notified.
func (e *Engine) Transition(ctx context.Context, id int64, to model.ApplicationStatus) (TransitionResult, error) {
	app, err := e.apps.FindApplication(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return TransitionResult{Rejected: err}, nil
	}

	if err != nil {
		return TransitionResult{}, &model.PersistenceError{Op: "find application", Err: err}
	}

	from := app.Status
	if !model.CanTransition(from, to) {
		return TransitionResult{Rejected: &model.IllegalTransitionError{From: from, To: to}}, nil
	}

	now := e.clock()

	switch to {
	case model.StatusPending:
		app.MarkDonated(now)
	case model.StatusOpen:
		app.ClearDonation()
	}

	app.Status = to
	app.LastModified = now

	if err := e.apps.SaveApplication(ctx, app); err != nil {
		e.logger.ErrorContext(ctx, "save application failed", "application_id", id, "from", from, "to", to, "error", err)
		return TransitionResult{}, &model.PersistenceError{Op: "save application", Err: err}
	}

	e.logger.InfoContext(ctx, "application transitioned", "application_id", id, "from", from, "to", to)

	result := TransitionResult{OK: true}

	if to == model.StatusPending {
		result.Notified = e.notifyDonation(ctx, app)
	}

	return result, nil
}

// notifyDonation tells the receiver where to pick up the funded product.
func (e *Engine) notifyDonation(ctx context.Context, app *model.Application) bool {
	receiver, err := e.users.FindUser(ctx, app.ReceiverID)
	if err != nil {
		e.logger.WarnContext(ctx, "donation notice skipped: receiver lookup failed", "application_id", app.ID, "error", err)
		return false
	}

	product, err := e.products.FindProduct(ctx, app.ProductID)
	if err != nil {
		e.logger.WarnContext(ctx, "donation notice skipped: product lookup failed", "application_id", app.ID, "error", err)
		return false
	}

	producer, err := e.users.FindProducer(ctx, product.ProducerID)
	if err != nil {
		e.logger.WarnContext(ctx, "donation notice skipped: producer lookup failed", "application_id", app.ID, "error", err)
		return false
	}

	subject, body := notify.DonationConfirmed(product.Title, producer.PickupAddress())

	sent := e.notifier.Notify(ctx, receiver.Email, subject, body)
	if !sent {
		e.logger.WarnContext(ctx, "donation notice not delivered", "application_id", app.ID)
	}

	return sent
}

// Delete removes an Open application on behalf of its receiver. It reports
// false without changing anything when the application is missing, belongs
// to someone else or is past Open.
func (e *Engine) Delete(ctx context.Context, requestingUserID, id int64) (bool, error) {
	app, err := e.apps.FindApplication(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, &model.PersistenceError{Op: "find application", Err: err}
	}

	if !app.OwnedBy(requestingUserID) || app.Status != model.StatusOpen {
		return false, nil
	}

	if err := e.apps.DeleteApplication(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}

		return false, &model.PersistenceError{Op: "delete application", Err: err}
	}

	e.logger.InfoContext(ctx, "application deleted", "application_id", id, "receiver_id", requestingUserID)

	return true, nil
}

// ListByReceiver returns the receiver's applications, newest first.
// A nil status returns every status.
func (e *Engine) ListByReceiver(ctx context.Context, receiverID int64, status *model.ApplicationStatus) ([]model.Application, error) {
	apps, err := e.apps.ListApplicationsByReceiver(ctx, receiverID)
	if err != nil {
		return nil, &model.PersistenceError{Op: "list applications", Err: err}
	}

	if status == nil {
		return apps, nil
	}

	filtered := apps[:0:0]
	for _, a := range apps {
		if a.Status == *status {
			filtered = append(filtered, a)
		}
	}

	return filtered, nil
}

// ListOpen returns a page of Open applications, newest first.
// A limit of zero or less returns everything from offset on.
func (e *Engine) ListOpen(ctx context.Context, offset, limit int) (model.Page, error) {
	apps, err := e.apps.ListOpenApplications(ctx)
	if err != nil {
		return model.Page{}, &model.PersistenceError{Op: "list open applications", Err: err}
	}

	page := model.Page{Total: len(apps), Items: []model.Application{}}

	offset = max(offset, 0)
	if offset >= len(apps) {
		return page, nil
	}

	apps = apps[offset:]
	if limit > 0 && limit < len(apps) {
		apps = apps[:limit]
	}

	page.Items = apps

	return page, nil
}

// lookupError keeps not-found errors as they are and wraps everything else
// as a persistence failure.
func lookupError(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return err
	}

	return &model.PersistenceError{Op: op, Err: err}
}
