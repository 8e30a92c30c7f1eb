package core

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/notify"
	"github.com/inovacc/pollo/internal/store"
)

// Cascade applies product availability changes to the product's applications.
type Cascade struct {
	products store.ProductStore
	apps     store.ApplicationStore
	users    store.UserStore
	notifier notify.Notifier
	settings
}

// NewCascade creates a Cascade.
func NewCascade(products store.ProductStore, apps store.ApplicationStore, users store.UserStore, notifier notify.Notifier, opts ...Option) *Cascade {
	return &Cascade{
		products: products,
		apps:     apps,
		users:    users,
		notifier: notifier,
		settings: newSettings(opts),
	}
}

// AvailabilityResult reports the outcome of SetAvailability.
type AvailabilityResult struct {
	OK bool `json:"ok"`

	// PendingCount is the number of funded but unconfirmed applications left on the product.
	PendingCount int `json:"pending_count"`

	// NotificationSent is true when at least one cancellation notice was delivered.
	NotificationSent bool `json:"notification_sent"`
}

// SetAvailability sets the product's availability. Withdrawing a product
// turns each of its Open applications Unavailable and notifies the receiver.
//
// Applications are handled one at a time in id order. A failed notice never
// stops the loop; a failed save does, and is returned as a
// *model.PersistenceError. Calling it again with the same value changes
// nothing further.
func (c *Cascade) SetAvailability(ctx context.Context, productID int64, available bool) (AvailabilityResult, error) {
	product, err := c.products.FindProductWithApplications(ctx, productID)
	if errors.Is(err, model.ErrNotFound) {
		return AvailabilityResult{}, err
	}

	if err != nil {
		return AvailabilityResult{}, &model.PersistenceError{Op: "find product", Err: err}
	}

	apps := product.Applications
	slices.SortFunc(apps, func(a, b model.Application) int {
		return cmp.Compare(a.ID, b.ID)
	})

	var result AvailabilityResult

	for i := range apps {
		app := &apps[i]

		switch app.Status {
		case model.StatusPending:
			result.PendingCount++
		case model.StatusOpen:
			if available {
				continue
			}

			app.Status = model.StatusUnavailable
			app.LastModified = c.clock()

			if err := c.apps.SaveApplication(ctx, app); err != nil {
				c.logger.ErrorContext(ctx, "cascade aborted", "product_id", productID, "application_id", app.ID, "error", err)
				return result, &model.PersistenceError{Op: "save application", Err: err}
			}

			c.logger.InfoContext(ctx, "application closed by withdrawal", "product_id", productID, "application_id", app.ID)

			if c.notifyCancelled(ctx, app, product.Title) {
				result.NotificationSent = true
			}
		}
	}

	product.Available = available
	product.Applications = nil

	if err := c.products.SaveProduct(ctx, product); err != nil {
		c.logger.ErrorContext(ctx, "save product failed", "product_id", productID, "error", err)
		return result, &model.PersistenceError{Op: "save product", Err: err}
	}

	c.logger.InfoContext(ctx, "product availability set",
		"product_id", productID,
		"available", available,
		"pending", result.PendingCount)

	result.OK = true

	return result, nil
}

func (c *Cascade) notifyCancelled(ctx context.Context, app *model.Application, title string) bool {
	receiver, err := c.users.FindUser(ctx, app.ReceiverID)
	if err != nil {
		c.logger.WarnContext(ctx, "cancellation notice skipped: receiver lookup failed", "application_id", app.ID, "error", err)
		return false
	}

	subject, body := notify.ApplicationCancelled(title)

	sent := c.notifier.Notify(ctx, receiver.Email, subject, body)
	if !sent {
		c.logger.WarnContext(ctx, "cancellation notice not delivered", "application_id", app.ID)
	}

	return sent
}
