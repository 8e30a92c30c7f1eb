package model

import "time"

// DonationDateLayout is the layout of Application.DonationDate.
const DonationDateLayout = "2006-01-02"

// MaxMotivationLength bounds the motivation text, in runes.
const MaxMotivationLength = 255

type Application struct {
	// ID is assigned by the store on create
	ID int64 `json:"id"`

	// ReceiverID is the user who applied
	ReceiverID int64 `json:"receiver_id"`

	// ProductID is the product applied for
	ProductID int64 `json:"product_id"`

	// Motivation is the receiver's free text
	Motivation string `json:"motivation"`

	Status ApplicationStatus `json:"status"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`

	// DonationDate is the day the application was funded (yyyy-MM-dd), empty when unfunded
	DonationDate string `json:"donation_date,omitempty"`

	// DateOfDonation is the funding timestamp; zero when never funded
	DateOfDonation time.Time `json:"date_of_donation"`
}

// HasDonation reports whether a donation date is set.
func (a *Application) HasDonation() bool {
	return a.DonationDate != ""
}

// MarkDonated stamps the donation date and timestamp from now.
func (a *Application) MarkDonated(now time.Time) {
	now = now.UTC()
	a.DonationDate = now.Format(DonationDateLayout)
	a.DateOfDonation = now
}

// ClearDonation removes the donation date and timestamp.
func (a *Application) ClearDonation() {
	a.DonationDate = ""
	a.DateOfDonation = time.Time{}
}

// OwnedBy reports whether userID is the receiver that created the application.
func (a *Application) OwnedBy(userID int64) bool {
	return a.ReceiverID == userID
}

// ContractInfo is what a donor's payment contract needs to fund an
// application: the price and where the producer is paid and notified.
type ContractInfo struct {
	ApplicationID int64  `json:"application_id"`
	ProductID     int64  `json:"product_id"`
	Price         int    `json:"price"`
	WalletAddress string `json:"wallet_address"`
	DeviceAddress string `json:"device_address,omitempty"`
}
