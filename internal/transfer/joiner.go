// Package transfer joins per-asset transfer histories with asset display
// details for the assets a wallet currently holds.
package transfer

import (
	"context"
	"fmt"
	"sync"

	"github.com/nft-dashboard/internal/indexer"
	"github.com/nft-dashboard/internal/logging"
	"github.com/nft-dashboard/internal/models"
	"github.com/nft-dashboard/internal/nft"
	"github.com/nft-dashboard/internal/retry"
	"github.com/nft-dashboard/internal/types"
)

// Gateway is the slice of the indexer API the joiner consumes.
type Gateway interface {
	LookupAssetParams(ctx context.Context, assetID int64) (*models.AssetParams, error)
	SearchTransactionsByAsset(ctx context.Context, assetID int64, opts indexer.SearchOptions) ([]models.Transaction, error)
}

// Joiner retrieves and joins transfer transactions with asset display details
// using the same bounded-worker policy as the enrichment pipeline.
type Joiner struct {
	gateway     Gateway
	concurrency int
	retryCfg    *retry.Config
	searchLimit int
}

// JoinerConfig holds joiner construction parameters.
type JoinerConfig struct {
	Gateway     Gateway
	Concurrency int // defaults to nft.DefaultConcurrency
	Retry       *retry.Config
	SearchLimit int // result ceiling per transfer search, defaults to 1000
}

// NewJoiner creates a transfer history joiner.
func NewJoiner(cfg *JoinerConfig) (*Joiner, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway cannot be nil")
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = nft.DefaultConcurrency
	}

	retryCfg := cfg.Retry
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	if retryCfg.Retryable == nil {
		retryCfg.Retryable = indexer.IsTransient
	}

	searchLimit := cfg.SearchLimit
	if searchLimit <= 0 {
		searchLimit = 1000
	}

	return &Joiner{
		gateway:     cfg.Gateway,
		concurrency: concurrency,
		retryCfg:    retryCfg,
		searchLimit: searchLimit,
	}, nil
}

// JoinTransferHistory returns, for each asset the wallet holds with positive
// balance, the asset's display details joined with its transfer events.
// Zero-balance holdings and invalid asset identifiers never reach the
// network; a per-asset upstream failure omits that asset and the batch
// continues.
func (j *Joiner) JoinTransferHistory(ctx context.Context, wallet string, holdings []models.AssetHolding) []models.AssetTransferHistory {
	logger := logging.FromContext(ctx).WithField("wallet", wallet)

	results := make(chan *models.AssetTransferHistory, len(holdings))
	sem := make(chan struct{}, j.concurrency)
	var wg sync.WaitGroup

	for _, holding := range holdings {
		if holding.Amount == 0 {
			// No longer meaningfully held.
			continue
		}
		if holding.AssetID <= 0 {
			logger.WithField("assetId", holding.AssetID).Warn("Skipping malformed asset identifier")
			continue
		}

		wg.Add(1)
		go func(holding models.AssetHolding) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			if record := j.joinOne(ctx, wallet, holding); record != nil {
				results <- record
			}
		}(holding)
	}

	wg.Wait()
	close(results)

	histories := make([]models.AssetTransferHistory, 0, len(holdings))
	for record := range results {
		histories = append(histories, *record)
	}
	return histories
}

func (j *Joiner) joinOne(ctx context.Context, wallet string, holding models.AssetHolding) *models.AssetTransferHistory {
	logger := logging.FromContext(ctx).WithField("assetId", holding.AssetID)

	txns, err := j.gateway.SearchTransactionsByAsset(ctx, holding.AssetID, indexer.SearchOptions{
		TxType:  types.TxnTypeAssetTransfer,
		Limit:   j.searchLimit,
		Address: wallet,
	})
	if err != nil {
		logger.WithError(err).Warn("Omitting asset after failed transfer search")
		return nil
	}

	var params *models.AssetParams
	err = retry.Do(ctx, j.retryCfg, func(ctx context.Context, attempt int) error {
		var lookupErr error
		params, lookupErr = j.gateway.LookupAssetParams(ctx, holding.AssetID)
		return lookupErr
	})
	if err != nil {
		logger.WithError(err).Warn("Omitting asset after failed parameter lookup")
		return nil
	}

	transfers := make([]models.TransferEvent, 0, len(txns))
	for _, txn := range txns {
		if txn.AssetTransfer == nil {
			continue
		}
		transfers = append(transfers, models.TransferEvent{
			TxID:     txn.ID,
			Sender:   txn.Sender,
			Receiver: txn.AssetTransfer.Receiver,
		})
	}

	return &models.AssetTransferHistory{
		AssetID:   holding.AssetID,
		Name:      params.Name,
		UnitName:  params.UnitName,
		Standard:  nft.DetectStandard(params),
		Amount:    holding.Amount,
		Transfers: transfers,
	}
}
