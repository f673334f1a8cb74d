package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the file probes the loader performs, so resolution
// can be tested without touching the disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem against the actual disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver locates the config and env files for a binary.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles holds the chosen config and env file paths. Empty fields
// mean nothing was found, which is not an error: env vars alone can carry
// a full configuration.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when set, and otherwise searches the
// conventional locations relative to the working directory.
func (r *Resolver) ResolveFiles(binary string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.firstExisting(configSearchPaths(binary))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.firstExisting(envSearchPaths(binary))
	}
	return resolved
}

func (r *Resolver) firstExisting(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// configSearchPaths lists where config.yml may live, nearest first. The
// parent hops cover running a binary from its cmd/ directory or from a
// package directory during tests.
func configSearchPaths(binary string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", binary),
		fmt.Sprintf("../cmd/%s/config.yml", binary),
		fmt.Sprintf("../../cmd/%s/config.yml", binary),
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	}
}

// envSearchPaths lists where a .env file may live. A binary-specific
// .env.<binary> wins over a shared .env at the same distance.
func envSearchPaths(binary string) []string {
	dirs := []string{
		fmt.Sprintf("./cmd/%s", binary),
		".",
		"./config",
		"..",
		"../..",
	}
	var paths []string
	for _, name := range []string{".env." + binary, ".env"} {
		for _, dir := range dirs {
			paths = append(paths, dir+"/"+name)
		}
	}
	return paths
}

// LoaderConfig holds loader dependencies and optional explicit paths.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem substitutes the filesystem used for probing and .env
// loading.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile pins the config file instead of searching for it.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile pins the .env file instead of searching for it.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig loads configuration for a binary into cfg. Precedence, lowest
// to highest: config.yml, .env file, process environment (a .env file
// never replaces a variable the process already has). Missing files are
// skipped silently; unreadable ones only warn, since env vars may still
// carry everything required. Callers validate the result.
func LoadConfig(binary string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(binary, lc)

	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "config: skipping unreadable %s: %v\n", files.ConfigFile, err)
		}
	}

	v.AutomaticEnv()
	bindEnviron(v)

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "config: skipping unreadable %s: %v\n", files.EnvFile, err)
		} else {
			// Pick up the variables the .env file just added.
			bindEnviron(v)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for %s: %w", binary, err)
	}
	return nil
}

// bindEnviron force-sets every environment variable under each of its key
// variants. Viper's own env binding needs keys declared up front; setting
// the variants directly lets LLM_CLIENT_MAX_RETRIES override
// llm.client.max_retries without a registry of known keys.
func bindEnviron(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || key == "" {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants maps an UPPER_SNAKE environment key to the nested viper
// keys it may refer to. Every split point between dotted prefix and
// underscored remainder is generated, so GATEWAY_MAX_BODY_BYTES can reach
// gateway.max_body_bytes as well as gateway.max.body.bytes.
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.ReplaceAll(lower, "_", ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	out := variants[:0]
	for _, v := range variants {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
