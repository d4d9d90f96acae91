package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainAutomaton = "dfa/automaton/v1"
	DomainQuery     = "dfa/query/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// AutomatonID computes the content-addressed ID of a description.
// Callers that want equivalent descriptions to share an ID should hash the
// normalized description an engine reports, not the raw loader output.
func AutomatonID(d Description) (string, error) {
	canonical, err := MarshalCanonical(d.ToIR())
	if err != nil {
		return "", fmt.Errorf("AutomatonID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAutomaton, canonical), nil
}

// QueryID computes the content-addressed ID of a recorded query.
func QueryID(sessionID, automatonID, word string, seq int64) (string, error) {
	obj := IRObject{
		"session_id":   IRString(sessionID),
		"automaton_id": IRString(automatonID),
		"word":         IRString(word),
		"seq":          IRInt(seq),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("QueryID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}

// MustAutomatonID is like AutomatonID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustAutomatonID(d Description) string {
	id, err := AutomatonID(d)
	if err != nil {
		panic(err)
	}
	return id
}
