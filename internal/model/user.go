package model

import (
	"fmt"
	"strings"
	"time"
)

// Role distinguishes receivers from producers.
type Role int

const (
	RoleReceiver Role = iota + 1
	RoleProducer
)

func (r Role) String() string {
	switch r {
	case RoleReceiver:
		return "receiver"
	case RoleProducer:
		return "producer"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole converts user input into a Role.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "receiver":
		return RoleReceiver, nil
	case "producer":
		return RoleProducer, nil
	default:
		return 0, NewValidationError("role", fmt.Sprintf("unknown role %q (want receiver or producer)", raw))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if r != RoleReceiver && r != RoleProducer {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}

	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	Surname   string    `json:"surname"`
	Country   string    `json:"country,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName joins first name and surname.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.Surname)
}

// Producer holds the pickup and payout details of a producer user.
type Producer struct {
	UserID        int64  `json:"user_id"`
	Street        string `json:"street"`
	StreetNumber  string `json:"street_number"`
	Zipcode       string `json:"zipcode,omitempty"`
	City          string `json:"city"`
	WalletAddress string `json:"wallet_address,omitempty"`
	DeviceAddress string `json:"device_address,omitempty"`
}

// PickupAddress formats the address receivers collect products from.
// The zipcode is left out when unknown.
func (p *Producer) PickupAddress() string {
	if p.Zipcode != "" {
		return fmt.Sprintf("%s %s, %s %s", p.Street, p.StreetNumber, p.Zipcode, p.City)
	}

	return fmt.Sprintf("%s %s, %s", p.Street, p.StreetNumber, p.City)
}
