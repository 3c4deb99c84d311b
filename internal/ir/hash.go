package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainPlan    = "sieve/plan/v1"
	DomainRequest = "sieve/request/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00}) // Null separator - CRITICAL for security
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PlanKey computes the content-addressed identity of a compiled plan.
// plan is the canonical IR rendering of the instruction list; two plans
// with equal keys compile to identical backend output.
func PlanKey(plan IRValue) (string, error) {
	canonical, err := MarshalCanonical(plan)
	if err != nil {
		return "", fmt.Errorf("PlanKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPlan, canonical), nil
}

// RequestKey computes the identity of a compile request, used as the
// plan cache key. Field order inside request does not affect the key.
func RequestKey(request IRObject) (string, error) {
	canonical, err := MarshalCanonical(request)
	if err != nil {
		return "", fmt.Errorf("RequestKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRequest, canonical), nil
}

// MustPlanKey is like PlanKey but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustPlanKey(plan IRValue) string {
	key, err := PlanKey(plan)
	if err != nil {
		panic(err)
	}
	return key
}
