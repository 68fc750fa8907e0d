package api

import (
	"net/http"
)

// handleListNFTs handles GET /nfts?wallet= - List a wallet's enriched NFTs
func (s *Server) handleListNFTs(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	nfts := s.dashboard.ListNFTs(r.Context(), wallet)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assets": nfts,
		"total":  len(nfts),
	})
}

// handleCountNFTs handles GET /nfts/total?wallet= - Total NFT count
func (s *Server) handleCountNFTs(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"total_nfts": s.dashboard.CountNFTs(r.Context(), wallet),
	})
}

// handleTransactions handles GET /nfts/transactions?wallet= - Asset-transfer history
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": s.dashboard.TransactionHistory(r.Context(), wallet),
	})
}

// handleCountTransactions handles GET /nfts/transactions/total?wallet=
func (s *Server) handleCountTransactions(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"total_transactions": s.dashboard.CountTransactions(r.Context(), wallet),
	})
}

// handleCountCurrentMonth handles GET /nfts/transactions/current-month/total?wallet=
func (s *Server) handleCountCurrentMonth(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"total_transactions_current_month": s.dashboard.CountCurrentMonthTransactions(r.Context(), wallet),
	})
}

// handleMonthlyCounts handles GET /nfts/transactions/monthly?wallet=
func (s *Server) handleMonthlyCounts(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"monthly_counts": s.dashboard.MonthlyTransactionCounts(r.Context(), wallet),
	})
}

// handleTransferHistory handles GET /nfts/transfers?wallet= - Per-asset transfer history
func (s *Server) handleTransferHistory(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assets": s.dashboard.TransferHistory(r.Context(), wallet),
	})
}
