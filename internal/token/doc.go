// Package token defines the token model: kinds, channels, the append-only
// token arena with stable IDs, and token spans joinable across a file.
package token
