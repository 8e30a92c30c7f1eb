package sqlite

import (
	"time"

	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/store/sqlite/sqlc"
)

// Timestamps are stored as unix nanoseconds so ordering in SQL is exact.

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}

	return time.Unix(0, n).UTC()
}

func ptrString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func ptrTime(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}

	n := t.UnixNano()

	return &n
}

func derefTime(n *int64) time.Time {
	if n == nil {
		return time.Time{}
	}

	return fromUnix(*n)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}

	return 0
}

func sqlcApplicationToModel(row sqlc.Application) model.Application {
	return model.Application{
		ID:             row.ID,
		ReceiverID:     row.ReceiverID,
		ProductID:      row.ProductID,
		Motivation:     row.Motivation,
		Status:         model.ApplicationStatus(row.Status),
		CreatedAt:      fromUnix(row.CreatedAt),
		LastModified:   fromUnix(row.LastModified),
		DonationDate:   derefString(row.DonationDate),
		DateOfDonation: derefTime(row.DateOfDonation),
	}
}

func sqlcApplicationsToModel(rows []sqlc.Application) []model.Application {
	if len(rows) == 0 {
		return nil
	}

	out := make([]model.Application, 0, len(rows))
	for _, row := range rows {
		out = append(out, sqlcApplicationToModel(row))
	}

	return out
}

func sqlcProductToModel(row sqlc.Product) model.Product {
	return model.Product{
		ID:          row.ID,
		ProducerID:  row.ProducerID,
		Title:       row.Title,
		Description: row.Description,
		Country:     row.Country,
		Location:    row.Location,
		Price:       int(row.Price),
		Available:   row.Available == 1,
		Rank:        int(row.Rank),
		CreatedAt:   fromUnix(row.CreatedAt),
	}
}

func sqlcUserToModel(row sqlc.User) model.User {
	return model.User{
		ID:        row.ID,
		Email:     row.Email,
		FirstName: row.FirstName,
		Surname:   row.Surname,
		Country:   row.Country,
		Role:      model.Role(row.Role),
		CreatedAt: fromUnix(row.CreatedAt),
	}
}

func sqlcProducerToModel(row sqlc.Producer) model.Producer {
	return model.Producer{
		UserID:        row.UserID,
		Street:        row.Street,
		StreetNumber:  row.StreetNumber,
		Zipcode:       row.Zipcode,
		City:          row.City,
		WalletAddress: row.WalletAddress,
		DeviceAddress: row.DeviceAddress,
	}
}
