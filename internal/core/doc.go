// Package core holds the donation matching logic.
//
// Functions return errors instead of printing; the cmd package renders
// results. All persistence goes through the store interfaces and every
// notice goes through a notify.Notifier, so tests swap both for fakes.
//
// # Application lifecycle
//
// [Engine] creates applications and moves them between statuses:
//
//	Open -> Pending      a donor funded it; the receiver is told where to pick up
//	Pending -> Open      the donation was reset
//	Pending -> Completed the receiver picked the product up
//
// Completed and Unavailable are terminal. Only the owning receiver may delete
// an application, and only while it is Open.
//
// # Withdrawing products
//
// [Cascade] flips a product's availability. Withdrawing turns every Open
// application Unavailable and notifies its receiver; Pending applications are
// left alone and counted in the result.
//
// # Catalog and directory
//
// [Catalog] registers products and projects them with grouped applications
// and donation stats. [Directory] registers receivers and producers.
package core
