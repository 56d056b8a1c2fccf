package main

import (
	"fmt"
	"strings"

	"github.com/oukeidos/locsync/internal/config"
	"github.com/oukeidos/locsync/internal/metadata"
	"github.com/oukeidos/locsync/internal/service"
	"github.com/spf13/cobra"
)

type estimateOptions struct {
	targets    []string
	ids        []string
	typeName   string
	fields     []string
	overwrite  bool
	checkQuota bool
}

func newEstimateCmd(g *globalOptions) *cobra.Command {
	opts := estimateOptions{}
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Count what a translation run would send, without calling the provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd, g, &opts)
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	cmd.Flags().StringSliceVarP(&opts.targets, "targets", "t", nil, "Target locales (default: target_locales from config)")
	cmd.Flags().StringSliceVar(&opts.ids, "ids", nil, "Only count these ids")
	cmd.Flags().StringVar(&opts.typeName, "type", "", "Model type to estimate (default: messages)")
	cmd.Flags().StringSliceVar(&opts.fields, "fields", nil, "Only count these attributes (with --type)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Count texts that already have a translation")
	cmd.Flags().BoolVar(&opts.checkQuota, "check-quota", false, "Compare the total with the provider's remaining quota")
	return cmd
}

func runEstimate(cmd *cobra.Command, g *globalOptions, opts *estimateOptions) error {
	ctx, stop := signalContext()
	defer stop()

	s, err := openSession(ctx, g, opts.checkQuota)
	if err != nil {
		return err
	}
	targets := opts.targets
	if len(targets) == 0 {
		targets = s.cfg.TargetLocales
	}
	if len(targets) == 0 {
		return fmt.Errorf("no target locales; pass --targets or set target_locales in %s", g.configPath)
	}

	sopts := service.Options{Overwrite: opts.overwrite, Fields: opts.fields}
	msgs := service.NewMessageService(s.deps, s.db)
	models := service.NewModelService(s.deps, s.db, s.cfg.Registry())

	out := cmd.OutOrStdout()
	var total service.Estimate
	for _, target := range targets {
		if strings.EqualFold(target, s.cfg.SourceLocale) {
			continue
		}
		var est service.Estimate
		if opts.typeName == "" {
			est, err = msgs.EstimateMessages(ctx, s.cfg.SourceLocale, target, opts.ids, sopts)
		} else {
			est, err = models.EstimateModels(ctx, opts.typeName, s.cfg.SourceLocale, target, opts.ids, sopts)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-8s %6d texts %9d chars %5d calls (skipped: %d existing, %d empty)\n",
			target, est.Units, est.Characters, est.APICalls, est.Stats.SkippedExisting, est.Stats.SkippedEmpty)
		total.Units += est.Units
		total.Characters += est.Characters
		total.APICalls += est.APICalls
	}
	fmt.Fprintf(out, "%-8s %6d texts %9d chars %5d calls\n", "total", total.Units, total.Characters, total.APICalls)
	if s.cfg.Provider == config.ProviderDeepL {
		fmt.Fprintf(out, "Estimated cost: $%.2f on DeepL API Pro (free keys include %d characters per month)\n",
			metadata.DeepLCost(int64(total.Characters), false), metadata.DeepLFreeCharacterLimit)
	}

	if opts.checkQuota {
		u := s.provider.Usage(ctx)
		if u == nil || u.CharacterLimit == 0 {
			fmt.Fprintf(out, "Quota: unavailable for %s\n", s.provider.Name())
			return nil
		}
		if int64(total.Characters) > u.Remaining() {
			return fmt.Errorf("estimated %d characters exceed the remaining %s quota of %d", total.Characters, s.provider.Name(), u.Remaining())
		}
		fmt.Fprintf(out, "Quota: %d characters remaining after this run\n", u.Remaining()-int64(total.Characters))
	}
	return nil
}
