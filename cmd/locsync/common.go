package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oukeidos/locsync/internal/auth"
	"github.com/oukeidos/locsync/internal/batch"
	"github.com/oukeidos/locsync/internal/cleanup"
	"github.com/oukeidos/locsync/internal/config"
	"github.com/oukeidos/locsync/internal/deepl"
	"github.com/oukeidos/locsync/internal/fieldfilter"
	"github.com/oukeidos/locsync/internal/files"
	"github.com/oukeidos/locsync/internal/gemini"
	"github.com/oukeidos/locsync/internal/locale"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/provider"
	"github.com/oukeidos/locsync/internal/service"
	"github.com/oukeidos/locsync/internal/store/sqlite"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
	saveKey      = auth.SaveKey
	deleteKey    = auth.DeleteKey
)

// resolveAPIKey finds the key for service: keychain, then environment when
// allowed, then an interactive prompt.
func resolveAPIKey(service string, allowEnv, envOnly bool) (string, string, error) {
	if envOnly {
		if key, ok := getEnvKey(service); ok {
			return key, auth.SourceEnv, nil
		}
		return "", "", fmt.Errorf("env-only set but %s is not set", auth.EnvVar(service))
	}

	if key, source := getKey(service, false); key != "" {
		return key, source, nil
	}

	if allowEnv {
		if key, ok := getEnvKey(service); ok {
			return key, auth.SourceEnv, nil
		}
	}

	if !isTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no %s API key available (non-interactive shell); run 'locsync env setup --service %s' or use --allow-env", service, service)
	}
	key, err := promptForKey(fmt.Sprintf("%s API Key (press Enter to skip): ", displayName(service)))
	if err != nil {
		return "", "", fmt.Errorf("error reading API key: %w", err)
	}
	if key = strings.TrimSpace(key); key != "" {
		return key, "Terminal Prompt", nil
	}
	if allowEnv {
		return "", "", fmt.Errorf("%s API key is required; not found in keychain or environment", service)
	}
	return "", "", fmt.Errorf("%s API key is required; not found in keychain (environment disabled by default; use --allow-env)", service)
}

func displayName(service string) string {
	switch service {
	case config.ProviderDeepL:
		return "DeepL"
	case config.ProviderGemini:
		return "Gemini"
	}
	return service
}

// setupLogging configures the global logger from the persistent flags.
func setupLogging(g *globalOptions) error {
	level := logger.LevelInfo
	if g.debug {
		level = logger.LevelDebug
	}
	var logFileW io.Writer
	if g.logFilePath != "" {
		if err := files.RejectSymlinkPath(g.logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(g.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(level, logFileW)
	return nil
}

// loadConfig reads, normalizes and validates the configuration, then
// applies flag overrides.
func loadConfig(g *globalOptions) (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, err
	}
	if g.provider != "" {
		cfg.Provider = g.provider
	}
	if g.database != "" {
		cfg.Database = g.database
	}
	cfg, notes := cfg.Normalize()
	for _, n := range notes {
		logger.Warn("Configuration adjusted", "note", n)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openStore(cfg config.Config) (*sqlite.DB, error) {
	db, err := sqlite.Open(cfg.Database, cfg.Registry(), cfg.SourceLocale)
	if err != nil {
		return nil, err
	}
	cleanup.Register("database", db.Close)
	return db, nil
}

// newProvider builds the configured provider. Tests replace it.
var newProvider = func(ctx context.Context, cfg config.Config, g *globalOptions) (provider.Provider, error) {
	switch cfg.Provider {
	case config.ProviderEcho:
		return provider.Echo{}, nil
	case config.ProviderGemini:
		key, source, err := resolveAPIKey(config.ProviderGemini, g.allowEnv, g.envOnly)
		if err != nil {
			return nil, err
		}
		logger.Info("Using API Key", "service", config.ProviderGemini, "source", source)
		c, err := gemini.NewClient(ctx, key, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		cleanup.Register("gemini client", c.Close)
		return provider.NewGemini(c, cfg.PreserveHTML, logger.Default()), nil
	default:
		key, source, err := resolveAPIKey(config.ProviderDeepL, g.allowEnv, g.envOnly)
		if err != nil {
			return nil, err
		}
		logger.Info("Using API Key", "service", config.ProviderDeepL, "source", source, "free", deepl.IsFreeKey(key))
		return provider.NewDeepL(deepl.NewClient(key, cfg.Server), cfg.PreserveHTML, logger.Default()), nil
	}
}

// serviceDeps wires the collaborators shared by both services.
func serviceDeps(cfg config.Config, p provider.Provider) (service.Deps, error) {
	filter, err := fieldfilter.New(cfg.FieldRules())
	if err != nil {
		return service.Deps{}, err
	}
	log := logger.Default()
	return service.Deps{
		Provider:     p,
		Strategy:     batch.New(p, cfg.BatchConfig(), batch.WithLogger(log)),
		Filter:       filter,
		Normalizer:   locale.NewNormalizer(cfg.LocaleMappings),
		PreserveHTML: cfg.PreserveHTML,
		Logger:       log,
	}, nil
}

// session is everything a translation command needs.
type session struct {
	cfg      config.Config
	db       *sqlite.DB
	provider provider.Provider
	deps     service.Deps
}

func openSession(ctx context.Context, g *globalOptions, needProvider bool) (*session, error) {
	if err := setupLogging(g); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}
	if s.db, err = openStore(cfg); err != nil {
		return nil, err
	}
	p := provider.Provider(provider.Echo{})
	if needProvider {
		if p, err = newProvider(ctx, cfg, g); err != nil {
			return nil, err
		}
	}
	s.provider = p
	if s.deps, err = serviceDeps(cfg, p); err != nil {
		return nil, err
	}
	return s, nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Cancellation requested")
		cancel()
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
