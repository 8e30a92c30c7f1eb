// Package model defines the data structures used throughout pollo.
//
// These models are shared by the store backends, the core services and the
// CLI renderers.
//
// # Application
//
// The [Application] struct is a receiver's request for a product:
//
//	type Application struct {
//	    ID             int64             // Store-assigned identifier
//	    ReceiverID     int64             // User who applied
//	    ProductID      int64             // Product applied for
//	    Status         ApplicationStatus // Open, Pending, Completed or Unavailable
//	    DonationDate   string            // yyyy-MM-dd, set while Pending or Completed
//	    DateOfDonation time.Time         // Funding timestamp used by stats
//	}
//
// # ApplicationStatus
//
// [ApplicationStatus] is a closed enumeration. Text input is converted once
// with [ParseStatus]; [CanTransition] encodes the edges a caller may request.
//
// # Errors
//
// [ErrNotFound], [ValidationError], [IllegalTransitionError],
// [PersistenceError] and [NotificationError] form the error taxonomy shared by
// every layer.
package model
