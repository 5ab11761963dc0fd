// Package proof implements the commit authenticity proof.
//
// A proof binds a commit hash to its submitter and keeps that binding readable
// only by a designated verifier:
//
//	commit hash (40 hex chars, signed as text)
//	  -> RSASSA-PSS / SHA-256 / MGF1-SHA-256 / max salt   (submitter private key)
//	  -> RSAES-OAEP / SHA-256 / MGF1-SHA-256 / empty label (verifier public key)
//	  -> standard base64
//
// The sealing key must be large enough to hold a signature made with the
// signing key: a 2048-bit signature (256 bytes) needs at least a 2576-bit
// sealing key, since OAEP-SHA-256 capacity is k-66 bytes.
package proof
