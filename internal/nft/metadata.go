package nft

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/nft-dashboard/internal/indexer"
	"github.com/nft-dashboard/internal/logging"
	"github.com/nft-dashboard/internal/models"
	"github.com/nft-dashboard/internal/types"
)

// ConfigTxnFinder fetches an asset's creation transaction from the indexer.
type ConfigTxnFinder interface {
	SearchTransactionsByAsset(ctx context.Context, assetID int64, opts indexer.SearchOptions) ([]models.Transaction, error)
}

// Resolver resolves an asset's metadata, either as an off-chain URL reference
// or by decoding on-chain metadata from a base64-encoded note field.
type Resolver struct {
	gateway ConfigTxnFinder
}

// NewResolver creates a metadata resolver backed by the given gateway.
func NewResolver(gateway ConfigTxnFinder) *Resolver {
	return &Resolver{gateway: gateway}
}

// Resolve returns the asset's metadata, or nil when none is resolvable.
// An http(s) URL yields a reference object without dereferencing the URL;
// fetching arbitrary off-chain content is a higher layer's concern. Otherwise
// on-chain metadata is decoded from the params note, falling back to the
// asset-creation transaction's note. Absence of metadata is not an error.
func (r *Resolver) Resolve(ctx context.Context, params *models.AssetParams, assetID int64) map[string]interface{} {
	logger := logging.FromContext(ctx).WithField("assetId", assetID)

	if params.URL != nil && hasHTTPScheme(*params.URL) {
		return map[string]interface{}{"external_url": *params.URL}
	}

	// On-chain: the note embedded in the asset params, when present.
	if params.Note != nil {
		if metadata, err := decodeNote(*params.Note); err == nil {
			return metadata
		} else {
			logger.WithError(err).Debug("Failed to decode note from asset params")
		}
	}

	// Fall back to the asset-creation transaction's note.
	txns, err := r.gateway.SearchTransactionsByAsset(ctx, assetID, indexer.SearchOptions{
		TxType: types.TxnTypeAssetConfig,
		Limit:  1,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to fetch asset-creation transaction")
		return nil
	}

	if len(txns) == 0 || txns[0].Note == nil {
		return nil
	}

	metadata, err := decodeNote(*txns[0].Note)
	if err != nil {
		logger.WithError(err).Debug("Failed to decode note from asset-creation transaction")
		return nil
	}

	return metadata
}

// DeclaresARC69 reports whether decoded on-chain metadata declares itself
// ARC-69. A successful on-chain declaration overrides URL-based detection.
func DeclaresARC69(metadata map[string]interface{}) bool {
	standard, ok := metadata["standard"].(string)
	return ok && standard == string(types.StandardARC69)
}

func hasHTTPScheme(assetURL string) bool {
	return strings.HasPrefix(assetURL, "http://") || strings.HasPrefix(assetURL, "https://")
}

// decodeNote runs the base64 -> UTF-8 -> JSON pipeline on a note field.
func decodeNote(noteB64 string) (map[string]interface{}, error) {
	raw, err := base64.StdEncoding.DecodeString(noteB64)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(raw) {
		return nil, errInvalidUTF8
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, err
	}

	return metadata, nil
}

type noteError string

func (e noteError) Error() string { return string(e) }

const errInvalidUTF8 = noteError("note is not valid UTF-8")
