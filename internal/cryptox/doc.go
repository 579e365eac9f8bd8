// Package cryptox holds the symmetric primitives behind credkeeper: the
// Credential Cipher implementations used for stored secrets and for tokens,
// key derivation from the configured root passphrase, and an argon2id
// one-way hash for deployments that do not want reversible secrets.
package cryptox
