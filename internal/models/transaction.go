package models

import "github.com/nft-dashboard/internal/types"

// Transaction is a raw indexer transaction record. Only the fields the
// dashboard consumes are decoded; unknown upstream fields are ignored.
type Transaction struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	TxType string `json:"tx-type"`
	// RoundTime is the UTC confirmation time as a Unix timestamp. Pending
	// transactions lack one.
	RoundTime *int64 `json:"round-time,omitempty"`
	// Note carries base64-encoded transaction metadata.
	Note          *string               `json:"note,omitempty"`
	AssetTransfer *AssetTransferDetails `json:"asset-transfer-transaction,omitempty"`
	AssetConfig   *AssetConfigDetails   `json:"asset-config-transaction,omitempty"`
}

// AssetTransferDetails is the asset-transfer sub-record of a transaction.
type AssetTransferDetails struct {
	AssetID  int64  `json:"asset-id"`
	Amount   uint64 `json:"amount"`
	Receiver string `json:"receiver"`
}

// AssetConfigDetails is the asset-configuration sub-record of a transaction.
type AssetConfigDetails struct {
	AssetID int64 `json:"asset-id"`
}

// TransferEvent is one asset-transfer transaction scoped to one asset and
// one wallet.
type TransferEvent struct {
	TxID     string `json:"tx_id"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

// AssetTransferHistory joins an asset's display details with its transfer
// events for one wallet.
type AssetTransferHistory struct {
	AssetID   int64             `json:"asset-id"`
	Name      string            `json:"name"`
	UnitName  string            `json:"unit-name"`
	Standard  types.StandardTag `json:"arc_standard"`
	Amount    uint64            `json:"amount"`
	Transfers []TransferEvent   `json:"transfers"`
}
