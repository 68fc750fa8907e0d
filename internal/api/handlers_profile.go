package api

import (
	"errors"
	"net/http"

	"github.com/nft-dashboard/internal/models"
	"github.com/nft-dashboard/internal/storage"
)

// handleGetProfile handles GET /nfts/profile?wallet= - Fetch a user profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	profile, err := s.profileStore.GetByWallet(r.Context(), wallet)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Profile not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to fetch profile", nil)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleUpdateProfile handles POST /nfts/update_profile - Create or update a profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName      string `json:"full_name"`
		Email         string `json:"email"`
		WalletAddress string `json:"wallet_address"`
		Bio           string `json:"bio"`
		ProfileImage  string `json:"profile_image"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.WalletAddress == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Wallet address is required", nil)
		return
	}

	profile := &models.UserProfile{
		FullName:      req.FullName,
		Email:         req.Email,
		WalletAddress: req.WalletAddress,
		Bio:           req.Bio,
		ProfileImage:  req.ProfileImage,
	}

	if err := s.profileStore.Upsert(r.Context(), profile); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to save profile", nil)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
