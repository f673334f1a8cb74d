package httpclient

import "github.com/skillsenselab/llmkit/security"

// TLSConfig re-exports the shared TLS settings so callers configuring a
// client do not need a second import. Documented on security.TLSConfig.
type TLSConfig = security.TLSConfig
