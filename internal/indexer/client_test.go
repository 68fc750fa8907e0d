package indexer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nft-dashboard/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		BaseURL:           server.URL,
		Token:             "test-token",
		RequestsPerSecond: 1000,
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	return client, server
}

func TestListHeldAssets(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/accounts/WALLET123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Indexer-API-Token"); got != "test-token" {
			t.Errorf("token header = %q, want %q", got, "test-token")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"account": {
				"assets": [
					{"asset-id": 100, "amount": 1},
					{"asset-id": 200, "amount": 0}
				]
			}
		}`))
	})

	holdings, err := client.ListHeldAssets(context.Background(), "WALLET123")
	if err != nil {
		t.Fatalf("ListHeldAssets() error: %v", err)
	}

	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}
	if holdings[0].AssetID != 100 || holdings[0].Amount != 1 {
		t.Errorf("unexpected first holding: %+v", holdings[0])
	}
	if holdings[1].AssetID != 200 || holdings[1].Amount != 0 {
		t.Errorf("unexpected second holding: %+v", holdings[1])
	}
}

func TestLookupAssetParams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/assets/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"asset": {
				"index": 42,
				"params": {
					"total": 1,
					"decimals": 0,
					"name": "Artwork",
					"unit-name": "ART",
					"url": "ipfs://bafy/0",
					"creator": "CREATOR"
				}
			}
		}`))
	})

	params, err := client.LookupAssetParams(context.Background(), 42)
	if err != nil {
		t.Fatalf("LookupAssetParams() error: %v", err)
	}

	if params.Total != 1 || params.Decimals != 0 {
		t.Errorf("unexpected supply fields: %+v", params)
	}
	if params.Name != "Artwork" || params.UnitName != "ART" {
		t.Errorf("unexpected display fields: %+v", params)
	}
	if params.URL == nil || *params.URL != "ipfs://bafy/0" {
		t.Errorf("unexpected URL: %v", params.URL)
	}
	if !params.IsNFT() {
		t.Error("expected IsNFT() to report true")
	}
}

func TestLookupAssetParams_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.LookupAssetParams(context.Background(), 42)

	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("error = %v, want ErrAssetNotFound", err)
	}
	if IsTransient(err) {
		t.Error("missing asset must not be classified as transient")
	}
}

func TestGet_TransientStatusCodes(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.LookupAssetParams(context.Background(), 1)

		if !errors.Is(err, ErrUpstreamUnavailable) {
			t.Errorf("status %d: error = %v, want ErrUpstreamUnavailable", status, err)
		}
		if !IsTransient(err) {
			t.Errorf("status %d should be transient", status)
		}
	}
}

func TestGet_UnexpectedStatusIsPermanent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.LookupAssetParams(context.Background(), 1)

	if err == nil {
		t.Fatal("expected error")
	}
	if IsTransient(err) {
		t.Error("4xx other than 429 must not be transient")
	}
}

func TestGet_NetworkFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client, err := NewClient(&Config{BaseURL: server.URL, RequestsPerSecond: 1000})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	_, err = client.LookupAssetParams(context.Background(), 1)

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGet_MalformedJSONIsNotTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.LookupAssetParams(context.Background(), 1)

	if err == nil {
		t.Fatal("expected decode error")
	}
	if IsTransient(err) {
		t.Error("malformed payload must not be retried")
	}
}

func TestSearchTransactionsByAddress(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/accounts/WALLET/transactions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("tx-type") != "axfer" {
			t.Errorf("tx-type = %q, want axfer", query.Get("tx-type"))
		}
		if query.Get("limit") != "500" {
			t.Errorf("limit = %q, want 500", query.Get("limit"))
		}

		_, _ = w.Write([]byte(`{
			"transactions": [
				{
					"id": "txn1",
					"sender": "SENDER",
					"tx-type": "axfer",
					"round-time": 1704067200,
					"asset-transfer-transaction": {"asset-id": 100, "amount": 1, "receiver": "RECEIVER"}
				}
			]
		}`))
	})

	txns, err := client.SearchTransactionsByAddress(context.Background(), "WALLET", types.TxnTypeAssetTransfer, 500)
	if err != nil {
		t.Fatalf("SearchTransactionsByAddress() error: %v", err)
	}

	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	txn := txns[0]
	if txn.ID != "txn1" || txn.Sender != "SENDER" {
		t.Errorf("unexpected transaction: %+v", txn)
	}
	if txn.RoundTime == nil || *txn.RoundTime != 1704067200 {
		t.Errorf("unexpected round-time: %v", txn.RoundTime)
	}
	if txn.AssetTransfer == nil || txn.AssetTransfer.Receiver != "RECEIVER" {
		t.Errorf("unexpected transfer details: %+v", txn.AssetTransfer)
	}
}

func TestSearchTransactionsByAsset(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/transactions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("asset-id") != "42" {
			t.Errorf("asset-id = %q, want 42", query.Get("asset-id"))
		}
		if query.Get("tx-type") != "acfg" {
			t.Errorf("tx-type = %q, want acfg", query.Get("tx-type"))
		}
		if query.Get("limit") != "1" {
			t.Errorf("limit = %q, want 1", query.Get("limit"))
		}
		if query.Get("address") != "WALLET" {
			t.Errorf("address = %q, want WALLET", query.Get("address"))
		}

		_, _ = w.Write([]byte(`{"transactions": []}`))
	})

	txns, err := client.SearchTransactionsByAsset(context.Background(), 42, SearchOptions{
		TxType:  types.TxnTypeAssetConfig,
		Limit:   1,
		Address: "WALLET",
	})
	if err != nil {
		t.Fatalf("SearchTransactionsByAsset() error: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("expected empty result, got %d", len(txns))
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(&Config{}); err == nil {
		t.Error("expected error for empty base URL")
	}
}
