package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nft-dashboard/internal/indexer"
	"github.com/nft-dashboard/internal/models"
	"github.com/nft-dashboard/internal/nft"
	"github.com/nft-dashboard/internal/retry"
	"github.com/nft-dashboard/internal/stats"
	"github.com/nft-dashboard/internal/storage"
	"github.com/nft-dashboard/internal/transfer"
	"github.com/nft-dashboard/internal/types"
)

type fakeGateway struct {
	mu           sync.Mutex
	holdings     []models.AssetHolding
	holdingsErr  error
	params       map[int64]*models.AssetParams
	addressTxns  []models.Transaction
	assetTxns    map[int64][]models.Transaction
	listCalls    int
	addressCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		params:    make(map[int64]*models.AssetParams),
		assetTxns: make(map[int64][]models.Transaction),
	}
}

func (g *fakeGateway) ListHeldAssets(ctx context.Context, wallet string) ([]models.AssetHolding, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.holdingsErr != nil {
		return nil, g.holdingsErr
	}
	return g.holdings, nil
}

func (g *fakeGateway) LookupAssetParams(ctx context.Context, assetID int64) (*models.AssetParams, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if params, ok := g.params[assetID]; ok {
		return params, nil
	}
	return nil, indexer.ErrAssetNotFound
}

func (g *fakeGateway) SearchTransactionsByAddress(ctx context.Context, wallet string, txType types.TxnType, limit int) ([]models.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addressCalls++
	return g.addressTxns, nil
}

func (g *fakeGateway) SearchTransactionsByAsset(ctx context.Context, assetID int64, opts indexer.SearchOptions) ([]models.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.assetTxns[assetID], nil
}

func newTestService(t *testing.T, gateway *fakeGateway, cache *storage.CacheService) *DashboardService {
	t.Helper()

	retryCfg := &retry.Config{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   2.0,
		Retryable:    indexer.IsTransient,
	}

	pipeline, err := nft.NewPipeline(&nft.PipelineConfig{Gateway: gateway, Retry: retryCfg})
	require.NoError(t, err)

	joiner, err := transfer.NewJoiner(&transfer.JoinerConfig{Gateway: gateway, Retry: retryCfg})
	require.NoError(t, err)

	svc, err := NewDashboardService(&DashboardServiceConfig{
		Gateway:  gateway,
		Pipeline: pipeline,
		Joiner:   joiner,
		Aggregator: stats.NewAggregatorWithClock(func() time.Time {
			return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		}),
		Cache: cache,
	})
	require.NoError(t, err)

	return svc
}

func newTestCache(t *testing.T) *storage.CacheService {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return storage.NewCacheService(storage.NewRedisCacheFromClient(client), 20*time.Second)
}

func int64Ptr(v int64) *int64 { return &v }

func TestListNFTs(t *testing.T) {
	gateway := newFakeGateway()
	gateway.holdings = []models.AssetHolding{
		{AssetID: 1, Amount: 1},
		{AssetID: 2, Amount: 100},
	}
	gateway.params[1] = &models.AssetParams{Total: 1, Decimals: 0, Name: "Art"}
	gateway.params[2] = &models.AssetParams{Total: 1000, Decimals: 2, Name: "Token"}

	svc := newTestService(t, gateway, nil)

	nfts := svc.ListNFTs(context.Background(), "WALLET")

	require.Len(t, nfts, 1)
	assert.Equal(t, int64(1), nfts[0].AssetID)
	assert.Equal(t, "Art", nfts[0].Name)
	assert.Equal(t, 1, svc.CountNFTs(context.Background(), "WALLET"))
}

func TestListNFTs_ListingFailureServesEmpty(t *testing.T) {
	gateway := newFakeGateway()
	gateway.holdingsErr = indexer.ErrUpstreamUnavailable

	svc := newTestService(t, gateway, nil)

	nfts := svc.ListNFTs(context.Background(), "WALLET")

	assert.NotNil(t, nfts)
	assert.Empty(t, nfts)
}

func TestListNFTs_CacheMemoization(t *testing.T) {
	gateway := newFakeGateway()
	gateway.holdings = []models.AssetHolding{{AssetID: 1, Amount: 1}}
	gateway.params[1] = &models.AssetParams{Total: 1, Decimals: 0, Name: "Art"}

	svc := newTestService(t, gateway, newTestCache(t))
	ctx := context.Background()

	first := svc.ListNFTs(ctx, "WALLET")
	second := svc.ListNFTs(ctx, "WALLET")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gateway.listCalls, "second call must be served from cache")
}

func TestTransactionHistory_FiltersNonTransfers(t *testing.T) {
	gateway := newFakeGateway()
	gateway.addressTxns = []models.Transaction{
		{ID: "t1", AssetTransfer: &models.AssetTransferDetails{AssetID: 1, Amount: 1}},
		{ID: "t2"}, // acfg or pay, no transfer sub-record
	}

	svc := newTestService(t, gateway, nil)

	txns := svc.TransactionHistory(context.Background(), "WALLET")

	require.Len(t, txns, 1)
	assert.Equal(t, "t1", txns[0].ID)
	assert.Equal(t, 1, svc.CountTransactions(context.Background(), "WALLET"))
}

func TestCountCurrentMonthTransactions(t *testing.T) {
	inMonth := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC).Unix()
	outOfMonth := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC).Unix()

	gateway := newFakeGateway()
	gateway.addressTxns = []models.Transaction{
		{ID: "t1", RoundTime: int64Ptr(inMonth), AssetTransfer: &models.AssetTransferDetails{AssetID: 1}},
		{ID: "t2", RoundTime: int64Ptr(outOfMonth), AssetTransfer: &models.AssetTransferDetails{AssetID: 1}},
	}

	svc := newTestService(t, gateway, nil)

	assert.Equal(t, 1, svc.CountCurrentMonthTransactions(context.Background(), "WALLET"))
}

func TestMonthlyTransactionCounts(t *testing.T) {
	jan5 := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC).Unix()
	jan28 := time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC).Unix()

	gateway := newFakeGateway()
	gateway.addressTxns = []models.Transaction{
		{ID: "t1", RoundTime: int64Ptr(jan5), AssetTransfer: &models.AssetTransferDetails{AssetID: 1}},
		{ID: "t2", RoundTime: int64Ptr(jan28), AssetTransfer: &models.AssetTransferDetails{AssetID: 1}},
	}

	svc := newTestService(t, gateway, nil)

	buckets := svc.MonthlyTransactionCounts(context.Background(), "WALLET")

	assert.Equal(t, map[string]int{"2024-01": 2}, buckets)
}

func TestTransferHistory(t *testing.T) {
	gateway := newFakeGateway()
	gateway.holdings = []models.AssetHolding{
		{AssetID: 1, Amount: 1},
		{AssetID: 2, Amount: 0}, // not meaningfully held
	}
	gateway.params[1] = &models.AssetParams{Total: 1, Decimals: 0, Name: "Art", UnitName: "ART"}
	gateway.assetTxns[1] = []models.Transaction{
		{ID: "t1", Sender: "A", AssetTransfer: &models.AssetTransferDetails{AssetID: 1, Amount: 1, Receiver: "B"}},
	}

	svc := newTestService(t, gateway, nil)

	histories := svc.TransferHistory(context.Background(), "WALLET")

	require.Len(t, histories, 1)
	assert.Equal(t, int64(1), histories[0].AssetID)
	require.Len(t, histories[0].Transfers, 1)
	assert.Equal(t, "t1", histories[0].Transfers[0].TxID)
}

func TestTransferHistory_ListingFailureServesEmpty(t *testing.T) {
	gateway := newFakeGateway()
	gateway.holdingsErr = indexer.ErrUpstreamUnavailable

	svc := newTestService(t, gateway, nil)

	histories := svc.TransferHistory(context.Background(), "WALLET")

	assert.NotNil(t, histories)
	assert.Empty(t, histories)
}

func TestNewDashboardService_Validation(t *testing.T) {
	gateway := newFakeGateway()

	pipeline, err := nft.NewPipeline(&nft.PipelineConfig{Gateway: gateway})
	require.NoError(t, err)
	joiner, err := transfer.NewJoiner(&transfer.JoinerConfig{Gateway: gateway})
	require.NoError(t, err)

	_, err = NewDashboardService(&DashboardServiceConfig{Pipeline: pipeline, Joiner: joiner})
	assert.Error(t, err, "nil gateway must be rejected")

	_, err = NewDashboardService(&DashboardServiceConfig{Gateway: gateway, Joiner: joiner})
	assert.Error(t, err, "nil pipeline must be rejected")

	_, err = NewDashboardService(&DashboardServiceConfig{Gateway: gateway, Pipeline: pipeline})
	assert.Error(t, err, "nil joiner must be rejected")
}
