package proof

import (
	"crypto/rsa"
	"fmt"
)

// Role names the single operation a KeyMaterial may be used for.
type Role int

const (
	RoleUnknown Role = iota
	// RoleSigningPrivate is the submitter's private key, used by Sign.
	RoleSigningPrivate
	// RoleSealingPublic is the verifier's public key, used by Seal.
	RoleSealingPublic
	// RoleSealingPrivate is the verifier's private key, used by Open.
	RoleSealingPrivate
	// RoleVerifyingPublic is the submitter's public key, used by Verify.
	RoleVerifyingPublic
)

func (r Role) String() string {
	switch r {
	case RoleSigningPrivate:
		return "signing-private"
	case RoleSealingPublic:
		return "sealing-public"
	case RoleSealingPrivate:
		return "sealing-private"
	case RoleVerifyingPublic:
		return "verifying-public"
	default:
		return "unknown"
	}
}

// KeyMaterial is an RSA key tagged with its role. It has no accessor that
// returns key bytes and its String form only describes the key.
type KeyMaterial struct {
	role Role
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
}

// NewSigningKey tags priv as the submitter's signing key.
func NewSigningKey(priv *rsa.PrivateKey) (*KeyMaterial, error) {
	if priv == nil {
		return nil, ErrMissingKey.Msg("signing key is nil")
	}
	return &KeyMaterial{role: RoleSigningPrivate, priv: priv, pub: &priv.PublicKey}, nil
}

// NewSealingKey tags pub as the verifier's sealing key.
func NewSealingKey(pub *rsa.PublicKey) (*KeyMaterial, error) {
	if pub == nil {
		return nil, ErrMissingKey.Msg("sealing key is nil")
	}
	return &KeyMaterial{role: RoleSealingPublic, pub: pub}, nil
}

// NewOpeningKey tags priv as the verifier's private key for Open.
func NewOpeningKey(priv *rsa.PrivateKey) (*KeyMaterial, error) {
	if priv == nil {
		return nil, ErrMissingKey.Msg("opening key is nil")
	}
	return &KeyMaterial{role: RoleSealingPrivate, priv: priv, pub: &priv.PublicKey}, nil
}

// NewVerifyingKey tags pub as the submitter's public key for Verify.
func NewVerifyingKey(pub *rsa.PublicKey) (*KeyMaterial, error) {
	if pub == nil {
		return nil, ErrMissingKey.Msg("verifying key is nil")
	}
	return &KeyMaterial{role: RoleVerifyingPublic, pub: pub}, nil
}

func (k *KeyMaterial) Role() Role {
	if k == nil {
		return RoleUnknown
	}
	return k.role
}

// Size returns the modulus size in bytes, which is also the size of any
// signature or ciphertext produced with the key.
func (k *KeyMaterial) Size() int {
	if k == nil || k.pub == nil || k.pub.N == nil {
		return 0
	}
	return k.pub.Size()
}

// Bits returns the modulus size in bits.
func (k *KeyMaterial) Bits() int {
	if k == nil || k.pub == nil || k.pub.N == nil {
		return 0
	}
	return k.pub.N.BitLen()
}

func (k *KeyMaterial) String() string {
	return fmt.Sprintf("rsa-%d(%s)", k.Bits(), k.Role())
}

// Discard drops the references to the underlying key.
func (k *KeyMaterial) Discard() {
	if k == nil {
		return
	}
	k.priv = nil
	k.pub = nil
}

// require checks that k is usable for an operation that needs role.
func (k *KeyMaterial) require(role Role) error {
	if k == nil {
		return ErrMissingKey.Msg(fmt.Sprintf("a %s key is required", role))
	}
	if k.role != role {
		return ErrWrongKeyRole.Msg(fmt.Sprintf("operation requires a %s key, got %s", role, k.role))
	}
	switch role {
	case RoleSigningPrivate, RoleSealingPrivate:
		if k.priv == nil {
			return ErrMissingKey.Msg("private key has been discarded")
		}
	default:
		if k.pub == nil || k.pub.N == nil {
			return ErrMissingKey.Msg("public key has been discarded")
		}
	}
	return nil
}
