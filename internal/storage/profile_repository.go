package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nft-dashboard/internal/models"
)

// ErrProfileNotFound is returned when no profile exists for a wallet address.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository handles user profile persistence, keyed by wallet address
type ProfileRepository struct {
	db *PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *PostgresDB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByWallet retrieves a profile by wallet address
func (r *ProfileRepository) GetByWallet(ctx context.Context, wallet string) (*models.UserProfile, error) {
	query := `
		SELECT id, full_name, email, wallet_address, bio, profile_image, created_at, updated_at
		FROM profiles
		WHERE wallet_address = $1
	`

	var profile models.UserProfile

	err := r.db.Pool().QueryRow(ctx, query, wallet).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.WalletAddress,
		&profile.Bio,
		&profile.ProfileImage,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, wallet)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Upsert creates the profile for a wallet address or updates the existing one
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	if profile.WalletAddress == "" {
		return fmt.Errorf("wallet address cannot be empty")
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	now := time.Now()

	// On conflict the stored row keeps its id and created_at; scan them back
	// so callers echo the persisted record, not the candidate one.
	query := `
		INSERT INTO profiles (id, full_name, email, wallet_address, bio, profile_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (wallet_address) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			bio = EXCLUDED.bio,
			profile_image = EXCLUDED.profile_image,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool().QueryRow(ctx, query,
		profile.ID,
		profile.FullName,
		profile.Email,
		profile.WalletAddress,
		profile.Bio,
		profile.ProfileImage,
		now,
		now,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// Delete removes a profile by wallet address
func (r *ProfileRepository) Delete(ctx context.Context, wallet string) error {
	query := `DELETE FROM profiles WHERE wallet_address = $1`

	result, err := r.db.Pool().Exec(ctx, query, wallet)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, wallet)
	}

	return nil
}
