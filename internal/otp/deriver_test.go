package otp

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/commitproof/internal/common/apperrors"
)

// ASCII "12345678901234567890", the RFC 6238 SHA-1 seed.
const rfcSeedHex = "3132333435363738393031323334353637383930"

func TestDeriveCodeRFCVectors(t *testing.T) {
	vectors := []struct {
		unix int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}
	for _, v := range vectors {
		got, err := DeriveCode(rfcSeedHex, time.Unix(v.unix, 0))
		require.NoError(t, err)
		assert.Equal(t, v.code, got.Code, "unix %d", v.unix)
		assert.Len(t, got.String(), 6)
	}
}

func TestDeriveEightDigits(t *testing.T) {
	d, err := NewDeriver(Options{Digits: 8})
	require.NoError(t, err)
	got, err := d.Derive(rfcSeedHex, time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "94287082", got.Code)
	assert.Equal(t, 8, d.Digits())
}

func TestDeriveSHA256(t *testing.T) {
	d, err := NewDeriver(Options{Digits: 8, Algorithm: "SHA-256"})
	require.NoError(t, err)
	seed := hex.EncodeToString([]byte("12345678901234567890123456789012"))
	got, err := d.Derive(seed, time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "46119246", got.Code)
}

func TestDeriveStableWithinStep(t *testing.T) {
	start := time.Unix(1111111080, 0) // step boundary
	first, err := DeriveCode(rfcSeedHex, start)
	require.NoError(t, err)

	for s := 1; s < 30; s++ {
		got, err := DeriveCode(rfcSeedHex, start.Add(time.Duration(s)*time.Second))
		require.NoError(t, err)
		assert.Equal(t, first.Code, got.Code, "offset %ds", s)
	}

	next, err := DeriveCode(rfcSeedHex, start.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, first.Counter+1, next.Counter)
	assert.Equal(t, first.ValidUntil, next.ValidFrom)
	assert.Equal(t, start.UTC(), first.ValidFrom)
}

func TestDeriveTrimsSeed(t *testing.T) {
	got, err := DeriveCode("  "+rfcSeedHex+"\n", time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "287082", got.Code)
}

func TestDeriveRejectsBadSeed(t *testing.T) {
	for _, seed := range []string{"", "   ", "xyz", "313", "31 32"} {
		_, err := DeriveCode(seed, time.Unix(59, 0))
		require.Error(t, err, "seed %q", seed)
		assert.ErrorIs(t, err, ErrInvalidSeed)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
}

func TestNewDeriverRejectsBadOptions(t *testing.T) {
	_, err := NewDeriver(Options{Digits: 7})
	assert.ErrorIs(t, err, ErrInvalidOptions)
	_, err = NewDeriver(Options{Algorithm: "MD4"})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	d, err := NewDeriver(Options{})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d.Period())
}

func TestValidate(t *testing.T) {
	d, err := NewDeriver(Options{})
	require.NoError(t, err)
	at := time.Unix(1111111109, 0)

	ok, err := d.Validate("081804", rfcSeedHex, at, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Validate("081804", rfcSeedHex, at.Add(30*time.Second), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = d.Validate("081804", rfcSeedHex, at.Add(30*time.Second), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Validate("0818", rfcSeedHex, at, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.Validate("081804", "zz", at, 0)
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestRejectsTimesBeforeEpoch(t *testing.T) {
	before := time.Unix(-1, 0)

	got, err := DeriveCode(rfcSeedHex, before)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBeforeEpoch)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, got.Code)

	ok, err := defaultDeriver.Validate("287082", rfcSeedHex, before, 1)
	assert.ErrorIs(t, err, ErrBeforeEpoch)
	assert.False(t, ok)

	// the epoch itself is the first step
	first, err := DeriveCode(rfcSeedHex, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), first.Counter)
	assert.Equal(t, time.Unix(0, 0).UTC(), first.ValidFrom)
}
