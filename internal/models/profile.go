package models

import "time"

// UserProfile represents a user profile record keyed by wallet address.
type UserProfile struct {
	ID            string    `json:"id" db:"id"`
	FullName      string    `json:"full_name" db:"full_name"`
	Email         string    `json:"email" db:"email"`
	WalletAddress string    `json:"wallet_address" db:"wallet_address"`
	Bio           string    `json:"bio" db:"bio"`
	ProfileImage  string    `json:"profile_image" db:"profile_image"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}
