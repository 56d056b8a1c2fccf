package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/oukeidos/locsync/internal/action"
	"github.com/oukeidos/locsync/internal/files"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/prompt"
	"github.com/oukeidos/locsync/internal/service"
	"github.com/oukeidos/locsync/internal/store/sqlite"
	"github.com/spf13/cobra"
)

var confirmer = prompt.DefaultConfirmer

type translateOptions struct {
	targets    []string
	ids        []string
	overwrite  bool
	formality  string
	yes        bool
	reportPath string
	single     bool
	fields     []string
}

func newTranslateCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate messages or model records into target locales",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetUsageTemplate(parentUsageTemplate)
	cmd.AddCommand(newTranslateMessagesCmd(g), newTranslateModelsCmd(g))
	return cmd
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	cmd.Flags().StringSliceVarP(&opts.targets, "targets", "t", nil, "Target locales (default: target_locales from config)")
	cmd.Flags().StringSliceVar(&opts.ids, "ids", nil, "Only translate these ids")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace existing translations")
	cmd.Flags().StringVar(&opts.formality, "formality", "", "Formality: default, more, less, prefer_more or prefer_less")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Do not ask before overwriting")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write a JSON run report to this path")
}

func newTranslateMessagesCmd(g *globalOptions) *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Translate UI messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, g, &opts, "")
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	addTranslateFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.single, "single", false, "Send one request per message instead of batching")
	return cmd
}

func newTranslateModelsCmd(g *globalOptions) *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "models <type>",
		Short: "Translate attributes of model records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, g, &opts, args[0])
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	addTranslateFlags(cmd, &opts)
	cmd.Flags().StringSliceVar(&opts.fields, "fields", nil, "Only translate these attributes")
	cmd.Flags().BoolVar(&opts.single, "single", false, "Send one request per attribute instead of batching")
	return cmd
}

func runTranslate(cmd *cobra.Command, g *globalOptions, opts *translateOptions, typeName string) error {
	ctx, stop := signalContext()
	defer stop()

	s, err := openSession(ctx, g, true)
	if err != nil {
		return err
	}

	req := action.Request{
		Source:    s.cfg.SourceLocale,
		Targets:   opts.targets,
		IDs:       opts.ids,
		Overwrite: opts.overwrite,
		Formality: firstNonEmpty(opts.formality, s.cfg.Formality),
		TypeName:  typeName,
		Single:    opts.single,
	}
	if len(req.Targets) == 0 {
		req.Targets = s.cfg.TargetLocales
	}
	if len(req.Targets) == 0 {
		return fmt.Errorf("no target locales; pass --targets or set target_locales in %s", g.configPath)
	}
	if cmd.Flags().Changed("fields") {
		req.Fields = opts.fields
		if req.Fields == nil {
			req.Fields = []string{}
		}
	}

	if req.Overwrite {
		scope := "message"
		if typeName != "" {
			scope = typeName
		}
		ok, err := confirmer().ConfirmOverwrite(scope, req.Targets, opts.yes)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("translation aborted")
		}
	}

	var summary action.Summary
	if typeName == "" {
		svc := service.NewMessageService(s.deps, s.db)
		summary, err = action.TranslateMessages(ctx, svc, req, logger.Default())
	} else {
		svc := service.NewModelService(s.deps, s.db, s.cfg.Registry())
		summary, err = action.TranslateModels(ctx, svc, req, logger.Default())
	}

	// Runs are recorded even when the action failed part way.
	recordRuns(context.WithoutCancel(ctx), s.db, summary.Reports)
	fmt.Fprintln(cmd.OutOrStdout(), summary.Message)
	if opts.reportPath != "" {
		if werr := writeReport(opts.reportPath, summary, opts.yes); werr != nil {
			logger.Error("Failed to write report", "path", opts.reportPath, "error", werr)
		}
	}

	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Translation canceled", "error", err)
			return nil
		}
		return err
	}
	return summaryError(summary)
}

func recordRuns(ctx context.Context, db *sqlite.DB, reports []service.Report) {
	for _, r := range reports {
		run := sqlite.Run{
			ID:              r.RunID,
			Kind:            r.Kind,
			TypeName:        r.TypeName,
			Source:          r.Source,
			Target:          r.Target,
			Translated:      r.Stats.Translated,
			SkippedEmpty:    r.Stats.SkippedEmpty,
			SkippedExisting: r.Stats.SkippedExisting,
			Failed:          r.Stats.Failed,
			RecordsUpdated:  r.RecordsUpdated,
			Batches:         r.Batches,
			FailedBatches:   r.FailedBatches,
			CreatedAt:       r.FinishedAt,
		}
		if err := db.SaveRun(ctx, run); err != nil {
			logger.Warn("Failed to record run", "run", r.RunID, "error", err)
		}
	}
}

// writeReport writes v as JSON. An existing file is replaced only after
// confirmation; otherwise a free sibling name is used.
func writeReport(path string, v any, yes bool) error {
	ok, err := confirmer().ConfirmReplaceFile(path, yes)
	if err != nil || !ok {
		alt, _, serr := files.SafePath(path)
		if serr != nil {
			return serr
		}
		logger.Info("Output path exists; writing to a new file", "path", alt)
		path = alt
	}
	if err := files.WriteJSON(path, v); err != nil {
		return err
	}
	logger.Info("File written", "path", path)
	return nil
}

func summaryError(summary action.Summary) error {
	switch summary.Level {
	case action.LevelSuccess:
		return nil
	case action.LevelWarning:
		return fmt.Errorf("translation finished with warnings")
	case action.LevelError:
		return fmt.Errorf("translation failed")
	default:
		return fmt.Errorf("translation finished with unknown level: %q", summary.Level)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
