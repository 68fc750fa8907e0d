package nft

import (
	"context"
	"fmt"
	"sync"

	"github.com/nft-dashboard/internal/indexer"
	"github.com/nft-dashboard/internal/logging"
	"github.com/nft-dashboard/internal/models"
	"github.com/nft-dashboard/internal/retry"
	"github.com/nft-dashboard/internal/types"
)

// Gateway is the slice of the indexer API the enrichment pipeline consumes.
type Gateway interface {
	LookupAssetParams(ctx context.Context, assetID int64) (*models.AssetParams, error)
	SearchTransactionsByAsset(ctx context.Context, assetID int64, opts indexer.SearchOptions) ([]models.Transaction, error)
}

// DefaultConcurrency is the bounded worker ceiling for per-asset fan-out.
const DefaultConcurrency = 10

// Pipeline enriches raw asset holdings into NFT records with bounded
// concurrency. Each holding is assigned to exactly one task; tasks share
// nothing but the read-only gateway and the retry policy.
type Pipeline struct {
	gateway     Gateway
	resolver    *Resolver
	concurrency int
	retryCfg    *retry.Config
}

// PipelineConfig holds pipeline construction parameters.
type PipelineConfig struct {
	Gateway     Gateway
	Concurrency int           // defaults to DefaultConcurrency
	Retry       *retry.Config // defaults to retry.DefaultConfig
}

// NewPipeline creates an asset enrichment pipeline.
func NewPipeline(cfg *PipelineConfig) (*Pipeline, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway cannot be nil")
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	retryCfg := cfg.Retry
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	if retryCfg.Retryable == nil {
		retryCfg.Retryable = indexer.IsTransient
	}

	return &Pipeline{
		gateway:     cfg.Gateway,
		resolver:    NewResolver(cfg.Gateway),
		concurrency: concurrency,
		retryCfg:    retryCfg,
	}, nil
}

// Enrich fans out one task per holding, bounded to the configured worker
// ceiling, and collects NFT records in completion order. Ordering is not a
// guaranteed property of the result. A failed task drops only its own record;
// the batch never fails because of a single asset.
func (p *Pipeline) Enrich(ctx context.Context, holdings []models.AssetHolding) []models.NFT {
	results := make(chan *models.NFT, len(holdings))
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for _, holding := range holdings {
		wg.Add(1)
		go func(holding models.AssetHolding) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			if record := p.enrichOne(ctx, holding.AssetID); record != nil {
				results <- record
			}
		}(holding)
	}

	wg.Wait()
	close(results)

	nfts := make([]models.NFT, 0, len(holdings))
	for record := range results {
		nfts = append(nfts, *record)
	}
	return nfts
}

// enrichOne fetches and classifies a single asset. It returns nil both for
// assets that fail the NFT criterion and for per-asset failures; the caller
// cannot distinguish the two and is not meant to.
func (p *Pipeline) enrichOne(ctx context.Context, assetID int64) *models.NFT {
	logger := logging.FromContext(ctx).WithField("assetId", assetID)

	var params *models.AssetParams
	err := retry.Do(ctx, p.retryCfg, func(ctx context.Context, attempt int) error {
		var lookupErr error
		params, lookupErr = p.gateway.LookupAssetParams(ctx, assetID)
		return lookupErr
	})
	if err != nil {
		logger.WithError(err).Warn("Dropping asset after failed parameter lookup")
		return nil
	}

	if !params.IsNFT() {
		return nil
	}

	standard := DetectStandard(params)

	metadata := p.resolver.Resolve(ctx, params, assetID)
	if metadata != nil && DeclaresARC69(metadata) {
		// On-chain declaration takes precedence over URL heuristics.
		standard = types.StandardARC69
	}

	record := &models.NFT{
		AssetID:  assetID,
		Name:     params.Name,
		UnitName: params.UnitName,
		Creator:  params.Creator,
		Standard: standard,
		Metadata: metadata,
	}
	if params.URL != nil {
		record.URL = *params.URL
	}
	if record.Name == "" {
		record.Name = "Unnamed"
	}

	return record
}
