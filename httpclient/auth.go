package httpclient

import "net/http"

// AuthType identifies how a request proves its identity.
type AuthType int

const (
	// AuthNone sends the request as-is.
	AuthNone AuthType = iota
	// AuthBearer sets "Authorization: Bearer <token>", the scheme
	// OpenAI-compatible APIs expect.
	AuthBearer
	// AuthBasic uses HTTP Basic credentials.
	AuthBasic
	// AuthAPIKey sends the key in a header or query parameter. Some
	// backends want "api-key: <key>", others "?key=<key>".
	AuthAPIKey
	// AuthCustom hands the request to a caller-supplied function.
	AuthCustom
)

// defaultAPIKeyHeader is used when an AuthAPIKey config names no header.
const defaultAPIKeyHeader = "X-API-Key"

// AuthConfig describes the credentials attached to outgoing requests.
// The adapter applies its configured AuthConfig to every request; a
// RequestOption can override it per call.
type AuthConfig struct {
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Username and Password carry Basic credentials (AuthBasic).
	Username string
	Password string
	// Key is the API key value (AuthAPIKey).
	Key string
	// In places the key: "header" (default) or "query" (AuthAPIKey).
	In string
	// Name is the header or query parameter to set (AuthAPIKey).
	Name string
	// Apply mutates the request directly (AuthCustom).
	Apply func(*http.Request)
}

// BearerAuth builds the bearer scheme a provider's api_key setting maps to.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth builds Basic credentials.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth sends the key in the default X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: defaultAPIKeyHeader}
}

// APIKeyAuthHeader sends the key in a named header, for backends that
// expect something like "api-key".
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: headerName}
}

// APIKeyAuthQuery sends the key as a query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// CustomAuth defers to fn for anything the fixed schemes cannot express.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// apply attaches the credentials to req. A nil config is a no-op so
// unauthenticated adapters need no special casing.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		a.applyKey(req)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}

func (a *AuthConfig) applyKey(req *http.Request) {
	name := a.Name
	if name == "" {
		name = defaultAPIKeyHeader
	}
	if a.In == "query" {
		q := req.URL.Query()
		q.Set(name, a.Key)
		req.URL.RawQuery = q.Encode()
		return
	}
	req.Header.Set(name, a.Key)
}
