// Package models provides data models for the NFT dashboard system.
package models

import "github.com/nft-dashboard/internal/types"

// AssetHolding is one entry from an account's asset holdings as returned by
// the indexer. It only exists for the duration of one pipeline invocation.
type AssetHolding struct {
	AssetID int64  `json:"asset-id"`
	Amount  uint64 `json:"amount"`
}

// AssetParams is the on-chain configuration of an asset, fetched per pipeline
// run and never cached by the core.
type AssetParams struct {
	Total    uint64  `json:"total"`
	Decimals uint32  `json:"decimals"`
	Name     string  `json:"name"`
	UnitName string  `json:"unit-name"`
	URL      *string `json:"url,omitempty"`
	Creator  string  `json:"creator"`
	// Standard is a creator-declared standard tag. Most assets leave it unset.
	Standard *string `json:"standard,omitempty"`
	// Note carries base64-encoded metadata embedded at creation time.
	Note *string `json:"note,omitempty"`
}

// IsNFT reports whether the params satisfy the NFT criterion: a total supply
// of exactly one indivisible unit.
func (p *AssetParams) IsNFT() bool {
	return p.Total == 1 && p.Decimals == 0
}

// NFT is one enriched record emitted by the asset enrichment pipeline.
type NFT struct {
	AssetID  int64                  `json:"asset_id"`
	Name     string                 `json:"name"`
	UnitName string                 `json:"unit_name"`
	URL      string                 `json:"url"`
	Creator  string                 `json:"creator"`
	Standard types.StandardTag      `json:"arc_standard"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
