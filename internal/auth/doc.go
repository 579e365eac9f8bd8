// Package auth is the credential core: it verifies secrets against their
// stored form, mints tokens that bind a user identity to a caller-supplied
// binding value, and re-authenticates a presented token by re-minting it
// from the current store state.
//
// Tokens are never stored. A token stays valid while the user's identifier,
// username and stored secret are unchanged and the caller presents the same
// binding value it was issued under.
package auth
