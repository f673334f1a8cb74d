// Command llmgated is the completion gateway daemon. It loads configuration,
// builds the provider registry and the resilient client over it, and serves
// the HTTP API until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/skillsenselab/llmkit/client"
	"github.com/skillsenselab/llmkit/component"
	"github.com/skillsenselab/llmkit/config"
	"github.com/skillsenselab/llmkit/gateway"
	"github.com/skillsenselab/llmkit/logger"
	"github.com/skillsenselab/llmkit/server"
	"github.com/skillsenselab/llmkit/sse"
	"github.com/skillsenselab/llmkit/telemetry"
	"github.com/skillsenselab/llmkit/util"
	"github.com/skillsenselab/llmkit/version"
)

const binaryName = "llmgated"

// gracefulTimeout bounds the whole shutdown sequence.
const gracefulTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", binaryName, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := config.LoadConfig(binaryName, &cfg); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()
	log.Info("starting llmgated", logger.Fields(
		"version", version.GetShortVersion(),
		"environment", cfg.Environment,
	))

	ctx := context.Background()

	meterProvider, tracerProvider, err := initTelemetry(ctx, &cfg)
	if err != nil {
		return err
	}

	if err := config.DecryptAPIKeys(cfg.Providers, config.SecretsKey()); err != nil {
		return err
	}
	registry, err := config.BuildRegistry(cfg.Providers)
	if err != nil {
		return err
	}
	for _, entry := range cfg.Providers {
		log.Debug("provider configured", logger.Fields(
			"name", util.Coalesce(entry.Name, entry.Dialect),
			"dialect", entry.Dialect,
			"model", entry.Model,
			"api_key", util.MaskSecret(entry.APIKey, 4),
		))
	}

	sseComp := sse.NewComponent("/v1/events")

	opts := []client.Option{
		client.WithLogger(log),
		client.WithEventHook(gateway.EventHook(sseComp.Hub())),
	}
	if meterProvider != nil {
		recorder, err := telemetry.NewRecorderWithMeter(otel.Meter("llmkit/client"))
		if err != nil {
			return fmt.Errorf("telemetry recorder: %w", err)
		}
		opts = append(opts, client.WithRecorder(recorder))
	}
	if tracerProvider != nil {
		opts = append(opts, client.WithTracer(tracerProvider.Tracer("llmkit/client")))
	}
	cl, err := client.New(registry, cfg.Client, opts...)
	if err != nil {
		return err
	}

	components := component.NewRegistry()

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	if cfg.Server.Auth.Enabled {
		srv.UseAuth(gateway.JWTValidator([]byte(cfg.Server.Auth.Secret)))
	}
	gateway.New(cl, sseComp.Hub(), log).RegisterRoutes(srv.GinEngine())
	srv.RegisterDefaultEndpoints(cfg.Name, components.HealthAll)

	// Stop order is the reverse: the server drains first, then providers
	// close, then the hub shuts down.
	for _, comp := range []component.Component{
		sseComp,
		newProviderComponent(registry),
		server.NewComponent(srv),
	} {
		if err := components.Register(comp); err != nil {
			return err
		}
	}

	if err := components.StartAll(ctx); err != nil {
		stopComponents(components, log)
		return err
	}
	log.Info("llmgated ready", logger.Fields(
		"addr", srv.Addr(),
		"providers", strings.Join(cl.Providers(), ", "),
	))

	waitForSignal(log)

	stopComponents(components, log)
	shutdownTelemetry(meterProvider, tracerProvider, log)
	return nil
}

// waitForSignal blocks until SIGINT or SIGTERM.
func waitForSignal(log *logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	log.Info("received shutdown signal", logger.Fields("signal", sig.String()))
}

// stopComponents shuts everything down within the graceful timeout.
func stopComponents(components *component.Registry, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()

	if err := components.StopAll(ctx); err != nil {
		log.Error("shutdown completed with errors", logger.Fields("error", err.Error()))
		return
	}
	log.Info("shutdown complete")
}
