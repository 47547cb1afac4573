// Package fingerprint identifies a compiled mapping by the hash of its
// swagger_mapping catalog, so a provisioned schema can be matched against a
// new compilation.
package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/reaper-esi/esi2ddl/internal/ddl"
)

// MappingFingerprint represents a fingerprint of a compiled mapping
type MappingFingerprint struct {
	Hash string `json:"hash"` // SHA256 of the encoded catalog
}

// ComputeFingerprint generates a fingerprint for the given catalog
func ComputeFingerprint(catalog *ddl.Catalog) (*MappingFingerprint, error) {
	hash, err := hashObject(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mapping hash: %w", err)
	}
	return &MappingFingerprint{Hash: hash}, nil
}

// FromCatalogJSON decodes a stored catalog and fingerprints it. Formatting of
// the stored text does not affect the result.
func FromCatalogJSON(data string) (*MappingFingerprint, error) {
	var catalog ddl.Catalog
	if err := json.Unmarshal([]byte(data), &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode stored mapping: %w", err)
	}
	return ComputeFingerprint(&catalog)
}

// hashObject computes a SHA256 hash of any object
func hashObject(obj interface{}) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// String returns a human-readable representation of the fingerprint
func (f *MappingFingerprint) String() string {
	if len(f.Hash) >= 8 {
		return fmt.Sprintf("Mapping fingerprint: %s", f.Hash[:8])
	}
	return fmt.Sprintf("Mapping fingerprint: %s", f.Hash)
}
