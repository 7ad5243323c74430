package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "answerwire/pkg/domain-errors"
)

// TestParseTenantID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseTenantID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseTenantID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseTenantID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseTenantID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseTenantID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, TenantID(validUUID), id)
	})
}

func TestParseCallID_Invariants(t *testing.T) {
	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseCallID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseCallID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, CallID(validUUID), id)
	})
}

func TestIDTextMarshaling(t *testing.T) {
	t.Run("marshals to canonical uuid string", func(t *testing.T) {
		raw := uuid.New()
		out, err := TenantID(raw).MarshalText()
		require.NoError(t, err)
		assert.Equal(t, raw.String(), string(out))
	})

	t.Run("round-trips through text", func(t *testing.T) {
		original := NewCallID()
		out, err := original.MarshalText()
		require.NoError(t, err)

		var parsed CallID
		require.NoError(t, parsed.UnmarshalText(out))
		assert.Equal(t, original, parsed)
	})

	t.Run("unmarshal rejects garbage", func(t *testing.T) {
		var id TraceRunID
		err := id.UnmarshalText([]byte("not-a-uuid"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	tenantID := TenantID(uuid.New())
	callID := CallID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ TenantID = callID   // compile error
	// var _ CallID = tenantID   // compile error

	assert.NotEqual(t, uuid.UUID(tenantID), uuid.UUID(callID))
}
