package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	json "github.com/goccy/go-json"
)

// DomainInterface is the domain prefix for interface spec hashes.
// The version suffix allows the algorithm to change later.
const DomainInterface = "stinger/interface/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data). The null separator
// keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes the content-addressed hash of an interface. The
// SpecHash field itself is excluded.
func SpecHash(iface *Interface) (string, error) {
	unhashed := *iface
	unhashed.SpecHash = ""

	data, err := json.Marshal(unhashed)
	if err != nil {
		return "", fmt.Errorf("SpecHash: marshal: %w", err)
	}
	canonical, err := CanonicalizeJSON(data)
	if err != nil {
		return "", fmt.Errorf("SpecHash: %w", err)
	}
	return hashWithDomain(DomainInterface, canonical), nil
}

// MustSpecHash is like SpecHash but panics on error.
// Use only in tests or when the input is known to be valid.
func MustSpecHash(iface *Interface) string {
	hash, err := SpecHash(iface)
	if err != nil {
		panic(err)
	}
	return hash
}
