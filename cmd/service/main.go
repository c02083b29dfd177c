package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/2beens/healthtracker/internal"
	"github.com/2beens/healthtracker/internal/config"
	"github.com/2beens/healthtracker/internal/logging"
	"github.com/2beens/healthtracker/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	if err := run(*env, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "health tracker: %s\n", err)
		os.Exit(1)
	}
}

func run(env, configPath string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return err
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.OptionsFromConfig(cfg, sentryDSN))
	log.Warnf("---->> running in [%s] environment, data dir [%s]", cfg.Environment, cfg.DataDir)

	secrets := readSecrets(cfg, sentryDSN)

	version := versionInfo()
	log.Debugf("running version: %s", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:                  cfg,
		VersionInfo:             version,
		RedisPassword:           secrets.redisPassword,
		HoneycombTracingEnabled: cfg.HoneycombEnabled,
	})
	if err != nil {
		return fmt.Errorf("new server: %w", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnln("shutdown signal received, shutting down ...")
	server.GracefulShutdown()

	return nil
}

type secrets struct {
	redisPassword string
}

// readSecrets picks the secrets up from the environment and warns about the ones
// the config needs but are missing.
func readSecrets(cfg *config.Config, sentryDSN string) secrets {
	s := secrets{
		redisPassword: os.Getenv("HEALTH_REDIS_PASS"),
	}

	if cfg.SentryEnabled && sentryDSN == "" {
		log.Warnln("sentry enabled, but SENTRY_DSN env var not set")
	}
	if cfg.RedisHost != "" && s.redisPassword == "" {
		log.Warnln("redis host set, but HEALTH_REDIS_PASS env var not set")
	}
	if cfg.HoneycombEnabled {
		if os.Getenv("HONEYCOMB_API_KEY") == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
		if os.Getenv("OTEL_SERVICE_NAME") == "" {
			log.Warnln("OTEL_SERVICE_NAME env var not set")
		}
	}

	return s
}

// versionInfo is the VCS revision stamped into the binary, or the HEAD commit
// of the working directory when running from source.
func versionInfo() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	stdout, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		log.Tracef("no version info: %s", err)
		return ""
	}
	return strings.TrimSpace(pkg.BytesToString(stdout))
}
