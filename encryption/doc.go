// Package encryption provides authenticated symmetric encryption for
// secrets at rest, primarily the api_key_encrypted values in provider
// configuration files.
//
// Keys are derived from a passphrase with SHA-256, so operators can use a
// memorable secret rather than raw key bytes. Ciphertexts are base64 with
// the nonce prepended.
//
// # Usage
//
//	enc, err := encryption.New(os.Getenv("LLMKIT_SECRETS_KEY"))
//	ciphertext, err := enc.Encrypt(apiKey)
//	plaintext, err := enc.Decrypt(ciphertext)
package encryption
