// Package service orchestrates the enrichment pipeline, transaction
// aggregator and transfer joiner into the operations the API layer serves,
// with short-lived response memoization in Redis.
package service

import (
	"context"
	"fmt"

	"github.com/nft-dashboard/internal/indexer"
	"github.com/nft-dashboard/internal/logging"
	"github.com/nft-dashboard/internal/models"
	"github.com/nft-dashboard/internal/nft"
	"github.com/nft-dashboard/internal/stats"
	"github.com/nft-dashboard/internal/storage"
	"github.com/nft-dashboard/internal/transfer"
	"github.com/nft-dashboard/internal/types"
)

// IndexerGateway is the upstream interface the dashboard consumes.
type IndexerGateway interface {
	ListHeldAssets(ctx context.Context, wallet string) ([]models.AssetHolding, error)
	LookupAssetParams(ctx context.Context, assetID int64) (*models.AssetParams, error)
	SearchTransactionsByAddress(ctx context.Context, wallet string, txType types.TxnType, limit int) ([]models.Transaction, error)
	SearchTransactionsByAsset(ctx context.Context, assetID int64, opts indexer.SearchOptions) ([]models.Transaction, error)
}

// DashboardService serves the wallet-scoped read operations. A failed initial
// listing is logged and served as an empty result set: availability is chosen
// over strict error propagation, so these operations do not return errors.
type DashboardService struct {
	gateway     IndexerGateway
	pipeline    *nft.Pipeline
	joiner      *transfer.Joiner
	aggregator  *stats.Aggregator
	cache       *storage.CacheService
	searchLimit int
}

// DashboardServiceConfig holds service construction parameters.
type DashboardServiceConfig struct {
	Gateway     IndexerGateway
	Pipeline    *nft.Pipeline
	Joiner      *transfer.Joiner
	Aggregator  *stats.Aggregator
	Cache       *storage.CacheService // optional; nil disables memoization
	SearchLimit int                   // transaction search ceiling, defaults to 1000
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(cfg *DashboardServiceConfig) (*DashboardService, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway cannot be nil")
	}
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if cfg.Joiner == nil {
		return nil, fmt.Errorf("joiner cannot be nil")
	}

	aggregator := cfg.Aggregator
	if aggregator == nil {
		aggregator = stats.NewAggregator()
	}

	searchLimit := cfg.SearchLimit
	if searchLimit <= 0 {
		searchLimit = 1000
	}

	return &DashboardService{
		gateway:     cfg.Gateway,
		pipeline:    cfg.Pipeline,
		joiner:      cfg.Joiner,
		aggregator:  aggregator,
		cache:       cfg.Cache,
		searchLimit: searchLimit,
	}, nil
}

// ListNFTs returns the enriched NFT records a wallet holds.
func (s *DashboardService) ListNFTs(ctx context.Context, wallet string) []models.NFT {
	var cached []models.NFT
	if s.cacheGet(ctx, storage.CacheKeyNFTs, wallet, &cached) {
		return cached
	}

	holdings, err := s.gateway.ListHeldAssets(ctx, wallet)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("wallet", wallet).
			Warn("Asset listing failed, serving empty NFT set")
		return []models.NFT{}
	}

	nfts := s.pipeline.Enrich(ctx, holdings)
	s.cacheSet(ctx, storage.CacheKeyNFTs, wallet, nfts)
	return nfts
}

// CountNFTs returns the number of NFTs a wallet holds.
func (s *DashboardService) CountNFTs(ctx context.Context, wallet string) int {
	return len(s.ListNFTs(ctx, wallet))
}

// TransactionHistory returns the wallet's asset-transfer transactions, capped
// at the documented search ceiling.
func (s *DashboardService) TransactionHistory(ctx context.Context, wallet string) []models.Transaction {
	var cached []models.Transaction
	if s.cacheGet(ctx, storage.CacheKeyTransactions, wallet, &cached) {
		return cached
	}

	txns, err := s.gateway.SearchTransactionsByAddress(ctx, wallet, types.TxnTypeAssetTransfer, s.searchLimit)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("wallet", wallet).
			Warn("Transaction search failed, serving empty history")
		return []models.Transaction{}
	}

	transfers := stats.FilterAssetTransfers(txns)
	s.cacheSet(ctx, storage.CacheKeyTransactions, wallet, transfers)
	return transfers
}

// CountTransactions returns the total asset-transfer transaction count.
func (s *DashboardService) CountTransactions(ctx context.Context, wallet string) int {
	return len(s.TransactionHistory(ctx, wallet))
}

// CountCurrentMonthTransactions returns the asset-transfer count for the
// current UTC month.
func (s *DashboardService) CountCurrentMonthTransactions(ctx context.Context, wallet string) int {
	return s.aggregator.CountCurrentMonth(s.TransactionHistory(ctx, wallet))
}

// MonthlyTransactionCounts returns per-month asset-transfer counts across the
// wallet's whole history window.
func (s *DashboardService) MonthlyTransactionCounts(ctx context.Context, wallet string) map[string]int {
	var cached map[string]int
	if s.cacheGet(ctx, storage.CacheKeyStats, wallet, &cached) {
		return cached
	}

	buckets := stats.BucketByMonth(s.TransactionHistory(ctx, wallet))
	s.cacheSet(ctx, storage.CacheKeyStats, wallet, buckets)
	return buckets
}

// TransferHistory returns per-asset transfer histories for the wallet's
// positive-balance holdings.
func (s *DashboardService) TransferHistory(ctx context.Context, wallet string) []models.AssetTransferHistory {
	var cached []models.AssetTransferHistory
	if s.cacheGet(ctx, storage.CacheKeyTransfers, wallet, &cached) {
		return cached
	}

	holdings, err := s.gateway.ListHeldAssets(ctx, wallet)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("wallet", wallet).
			Warn("Asset listing failed, serving empty transfer history")
		return []models.AssetTransferHistory{}
	}

	histories := s.joiner.JoinTransferHistory(ctx, wallet, holdings)
	s.cacheSet(ctx, storage.CacheKeyTransfers, wallet, histories)
	return histories
}

// cacheGet loads a memoized response. Cache failures degrade to a miss.
func (s *DashboardService) cacheGet(ctx context.Context, keyType storage.CacheKeyType, wallet string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}

	hit, err := s.cache.Get(ctx, s.cache.Key(keyType, wallet), dest)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Debug("Cache lookup failed")
		return false
	}
	return hit
}

// cacheSet memoizes a response. Cache failures are logged, never surfaced.
func (s *DashboardService) cacheSet(ctx context.Context, keyType storage.CacheKeyType, wallet string, value interface{}) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, s.cache.Key(keyType, wallet), value); err != nil {
		logging.FromContext(ctx).WithError(err).Debug("Cache store failed")
	}
}
