package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainSnapshot = "acegraph/snapshot/v1"
	DomainTrace    = "acegraph/trace/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SnapshotDigest computes the digest of an engine snapshot given in its
// canonical map form. Two sessions that performed the same operations in
// the same order produce the same digest.
func SnapshotDigest(snapshot map[string]any) (string, error) {
	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("SnapshotDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// TraceDigest computes the digest of a scenario trace given in its canonical
// map form.
func TraceDigest(trace map[string]any) (string, error) {
	canonical, err := MarshalCanonical(trace)
	if err != nil {
		return "", fmt.Errorf("TraceDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}

// MustSnapshotDigest is like SnapshotDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSnapshotDigest(snapshot map[string]any) string {
	d, err := SnapshotDigest(snapshot)
	if err != nil {
		panic(err)
	}
	return d
}
