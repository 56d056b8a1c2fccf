package main

import (
	"context"
	"fmt"
	"io"

	"github.com/oukeidos/locsync/internal/config"
	"github.com/oukeidos/locsync/internal/gemini"
	"github.com/oukeidos/locsync/internal/language"
	"github.com/oukeidos/locsync/internal/metadata"
	"github.com/oukeidos/locsync/internal/provider"
	"github.com/spf13/cobra"
)

func openProvider(ctx context.Context, g *globalOptions) (config.Config, provider.Provider, error) {
	if err := setupLogging(g); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := loadConfig(g)
	if err != nil {
		return cfg, nil, err
	}
	p, err := newProvider(ctx, cfg, g)
	return cfg, p, err
}

func newLanguagesCmd(g *globalOptions) *cobra.Command {
	var source bool
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List languages supported by the provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			_, p, err := openProvider(ctx, g)
			if err != nil {
				return err
			}
			catalog := p.TargetLanguages(ctx)
			kind := "target"
			if source {
				catalog = p.SourceLanguages(ctx)
				kind = "source"
			}
			if len(catalog) == 0 {
				return fmt.Errorf("%s returned no %s languages", p.Name(), kind)
			}
			printCatalog(cmd.OutOrStdout(), p.Name(), kind, catalog)
			return nil
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	cmd.Flags().BoolVar(&source, "source", false, "List source languages instead of target languages")
	return cmd
}

func printCatalog(out io.Writer, name, kind string, catalog map[string]string) {
	fmt.Fprintf(out, "Supported %s languages (%s):\n", kind, name)
	for _, e := range language.Entries(catalog) {
		fmt.Fprintf(out, "  %-35s [%s]\n", e.Name, e.Code)
	}
}

func newUsageCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show provider quota usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			cfg, p, err := openProvider(ctx, g)
			if err != nil {
				return err
			}
			u := p.Usage(ctx)
			if u == nil {
				return fmt.Errorf("usage is unavailable for %s", p.Name())
			}
			printUsage(cmd.OutOrStdout(), p.Name(), cfg.GeminiModel, u)
			return nil
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}

func printUsage(out io.Writer, name, model string, u *provider.Usage) {
	fmt.Fprintf(out, "--- %s usage ---\n", name)
	if u.CharacterLimit > 0 {
		pct := float64(u.CharacterCount) / float64(u.CharacterLimit) * 100
		fmt.Fprintf(out, "Characters: %d / %d (%.1f%%), remaining %d\n", u.CharacterCount, u.CharacterLimit, pct, u.Remaining())
	} else if u.CharacterCount > 0 {
		fmt.Fprintf(out, "Characters: %d\n", u.CharacterCount)
	}
	if u.PromptTokens > 0 || u.OutputTokens > 0 {
		if model == "" {
			model = gemini.DefaultModel
		}
		fmt.Fprintf(out, "Tokens: In=%d, Out=%d\n", u.PromptTokens, u.OutputTokens)
		fmt.Fprintf(out, "Estimated Cost: $%.5f (%s)\n", metadata.GeminiCost(model, int64(u.PromptTokens), int64(u.OutputTokens)), model)
	}
}

func newTestConnectionCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-connection",
		Short: "Check that the provider accepts the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			_, p, err := openProvider(ctx, g)
			if err != nil {
				return err
			}
			if !p.TestConnection(ctx) {
				return fmt.Errorf("connection to %s failed; check the API key and server", p.Name())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connection to %s OK.\n", p.Name())
			return nil
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}
