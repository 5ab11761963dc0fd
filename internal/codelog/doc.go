// Package codelog runs the one-time code job on a fixed interval and appends
// one line per successful derivation to a sink:
//
//	2006-01-02 15:04:05 - 2FA Code: 123456
//
// Timestamps are UTC. A missing or empty seed skips the interval with a
// warning; any other failure is logged as an error. Neither stops the loop.
package codelog
