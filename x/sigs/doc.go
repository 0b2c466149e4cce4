/*
Package sigs provides basic authentication
middleware to verify the ed25519 signatures on the transaction,
and maintain nonces for replay protection.

Every signer is identified by the address derived from its public key.
Verified signer addresses are stored in the context and exposed through
the Authenticate authenticator.
*/
package sigs
