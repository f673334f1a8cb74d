// Package security holds the TLS building blocks shared across llmkit.
//
// Hosted providers ship valid public certificates, so most
// configurations never touch this package. It exists for self-hosted
// backends: an inference server behind a private CA, or one that
// requires client certificates.
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/etc/llmkit/ca.pem",
//	    CertFile: "/etc/llmkit/client.pem",
//	    KeyFile:  "/etc/llmkit/client-key.pem",
//	}
//
//	tlsConfig, err := cfg.Build()
package security
