// Package types provides common type definitions for the NFT dashboard system.
package types

// StandardTag identifies the ARC metadata standard an asset conforms to.
type StandardTag string

const (
	// StandardARC3 represents the ARC-3 metadata convention
	StandardARC3 StandardTag = "arc3"
	// StandardARC19 represents the ARC-19 templated-IPFS convention
	StandardARC19 StandardTag = "arc19"
	// StandardARC69 represents the ARC-69 on-chain metadata convention
	StandardARC69 StandardTag = "arc69"
	// StandardUnknown represents an asset matching no known convention
	StandardUnknown StandardTag = "unknown"
)

// KnownStandard reports whether tag is one of the three recognized conventions.
func KnownStandard(tag StandardTag) bool {
	switch tag {
	case StandardARC3, StandardARC19, StandardARC69:
		return true
	default:
		return false
	}
}

// TxnType identifies an indexer transaction type filter.
type TxnType string

const (
	// TxnTypeAssetTransfer filters asset-transfer transactions (axfer)
	TxnTypeAssetTransfer TxnType = "axfer"
	// TxnTypeAssetConfig filters asset-configuration transactions (acfg)
	TxnTypeAssetConfig TxnType = "acfg"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
