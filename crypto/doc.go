// Package crypto contains the cryptographic routines used by the
// manifest trie and its storage:
// - hash arbitrary data (`Keccak256`) using legacy Keccak-256
// - generate a random slice of bytes, e.g. for obfuscation keys.
package crypto
