package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanKeyDeterminism(t *testing.T) {
	plan := IRArray{
		IRObject{"op": IRString("compare"), "field": IRString("price"), "value": MustDecimal("10.50")},
	}

	k1, err := PlanKey(plan)
	require.NoError(t, err)
	k2, err := PlanKey(plan)
	require.NoError(t, err)

	assert.Equal(t, k1, k2, "PlanKey must be deterministic")
	assert.Len(t, k1, 64, "SHA-256 hex is 64 characters")
}

func TestPlanKeyNormalizesDecimals(t *testing.T) {
	a := IRObject{"value": MustDecimal("10.50")}
	b := IRObject{"value": MustDecimal("10.5")}

	assert.Equal(t, MustPlanKey(a), MustPlanKey(b))
}

func TestPlanKeyChangesWithContent(t *testing.T) {
	a := IRObject{"field": IRString("price")}
	b := IRObject{"field": IRString("stock")}

	assert.NotEqual(t, MustPlanKey(a), MustPlanKey(b))
}

func TestRequestKeyIgnoresInsertionOrder(t *testing.T) {
	a := NewIRObjectFromPairs(O("filter", IRString("x:EQ(1)")), O("search", IRString("widget")))
	b := NewIRObjectFromPairs(O("search", IRString("widget")), O("filter", IRString("x:EQ(1)")))

	ka, err := RequestKey(a)
	require.NoError(t, err)
	kb, err := RequestKey(b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
}

func TestDomainSeparationPreventsCrossTypeCollision(t *testing.T) {
	obj := IRObject{"filter": IRString("x")}

	planKey := MustPlanKey(obj)
	requestKey, err := RequestKey(obj)
	require.NoError(t, err)

	assert.NotEqual(t, planKey, requestKey, "same payload under different domains must differ")
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + 0x00 + "c" must differ from "a" + 0x00 + "bc"
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}

func TestMustPlanKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustPlanKey(badValue{})
	})
}

// badValue is an IRValue the canonical encoder does not know.
type badValue struct{}

func (badValue) irValue() {}
