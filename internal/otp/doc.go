// Package otp derives time-based one-time codes (RFC 6238) from a hex-encoded
// shared seed, and reads that seed from storage.
//
// Codes are a pure function of the seed and the time step, so a deriver can be
// called from any number of goroutines or processes without coordination.
package otp
