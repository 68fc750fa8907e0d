// Package nft implements the asset enrichment pipeline: ARC standard
// detection, metadata resolution, and bounded-concurrency enrichment of a
// wallet's raw asset holdings into NFT records.
package nft

import (
	"strings"

	"github.com/nft-dashboard/internal/models"
	"github.com/nft-dashboard/internal/types"
)

// DetectStandard classifies an asset's declared parameters into an ARC
// standard tag. An explicit declaration wins over URL inference; the URL
// rules are checked in priority order and the first match is final.
//
// This is a heuristic over URL shape, not a proof of standard compliance:
// an asset may carry an arc3-looking URL without satisfying ARC-3.
func DetectStandard(params *models.AssetParams) types.StandardTag {
	if params.Standard != nil {
		if tag := types.StandardTag(*params.Standard); types.KnownStandard(tag) {
			return tag
		}
	}

	if params.URL != nil && *params.URL != "" {
		assetURL := *params.URL
		switch {
		case strings.HasPrefix(assetURL, "ipfs://") || strings.Contains(strings.ToLower(assetURL), "#arc3"):
			return types.StandardARC3
		case strings.HasPrefix(assetURL, "template-ipfs://"):
			return types.StandardARC19
		case strings.Contains(assetURL, ".json") || strings.HasSuffix(assetURL, "/metadata.json"):
			return types.StandardARC69
		}
	}

	return types.StandardUnknown
}
