package notify

import "fmt"

const (
	donationConfirmedSubject    = "Your PolloPollo application received a donation"
	applicationCancelledSubject = "PolloPollo application cancelled"
)

// DonationConfirmed renders the message sent to a receiver whose application was funded.
func DonationConfirmed(productTitle, pickupAddress string) (subject, body string) {
	body = fmt.Sprintf("Your application for %s has been fulfilled by a donor. "+
		"The product can now be picked up at %s. "+
		"When you receive your product, you must log on to the PolloPollo website and confirm reception of the product. "+
		"When you confirm reception, the donated funds are released to the Producer of the product.",
		productTitle, pickupAddress)

	return donationConfirmedSubject, body
}

// ApplicationCancelled renders the message sent to a receiver whose open
// application was closed because the producer withdrew the product.
func ApplicationCancelled(productTitle string) (subject, body string) {
	body = fmt.Sprintf("You had an open application for %s but the Producer has removed the product from the PolloPollo platform, "+
		"and your application for it has therefore been cancelled. "+
		"You may log on to the PolloPollo platform to see if the product has been replaced by another product you want to apply for instead.\n\n"+
		"Sincerely,\nThe PolloPollo Project",
		productTitle)

	return applicationCancelledSubject, body
}
