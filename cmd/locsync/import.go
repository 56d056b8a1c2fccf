package main

import (
	"context"
	"fmt"
	"os"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/store"
	"github.com/oukeidos/locsync/internal/store/sqlite"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// contentFile is the import/export document. JSON is accepted as YAML.
type contentFile struct {
	Messages map[string]map[string]string `yaml:"messages,omitempty" json:"messages,omitempty"`
	Records  []contentRecord              `yaml:"records,omitempty" json:"records,omitempty"`
}

type contentRecord struct {
	Type          string                       `yaml:"type" json:"type"`
	ID            string                       `yaml:"id" json:"id"`
	DefaultLocale string                       `yaml:"default_locale,omitempty" json:"default_locale,omitempty"`
	Data          map[string]map[string]string `yaml:"data" json:"data"`
}

func decodeContent(data []byte) (contentFile, error) {
	var doc contentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, apperrors.Validation(fmt.Errorf("invalid content file: %w", err))
	}
	for i, r := range doc.Records {
		if r.Type == "" || r.ID == "" {
			return doc, apperrors.Validation(fmt.Errorf("record #%d needs type and id", i+1))
		}
	}
	return doc, nil
}

func newImportCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load messages and records from a YAML or JSON file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			s, err := openSession(ctx, g, false)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			doc, err := decodeContent(data)
			if err != nil {
				return err
			}
			nm, nr, err := importContent(ctx, s.db, s.cfg.Registry(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d messages and %d records.\n", nm, nr)
			return nil
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	return cmd
}

func importContent(ctx context.Context, db *sqlite.DB, registry *store.Registry, doc contentFile) (int, int, error) {
	messages := make([]*store.MessageEntry, 0, len(doc.Messages))
	for key, data := range doc.Messages {
		messages = append(messages, &store.MessageEntry{Key: key, Data: data})
	}
	if len(messages) > 0 {
		if err := db.ImportMessages(ctx, messages); err != nil {
			return 0, 0, err
		}
	}

	records := make([]*store.Record, 0, len(doc.Records))
	for _, r := range doc.Records {
		if _, err := registry.Lookup(r.Type); err != nil {
			return len(messages), 0, apperrors.Validation(fmt.Errorf("%w (declare it under models in the config)", err))
		}
		records = append(records, &store.Record{Type: r.Type, RecordID: r.ID, Default: r.DefaultLocale, Data: r.Data})
	}
	if len(records) > 0 {
		if err := db.ImportRecords(ctx, records); err != nil {
			return len(messages), 0, err
		}
	}
	return len(messages), len(records), nil
}

func newExportCmd(g *globalOptions) *cobra.Command {
	var types []string
	var yes bool
	cmd := &cobra.Command{
		Use:   "export <file.json>",
		Short: "Write messages and records from the database to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			s, err := openSession(ctx, g, false)
			if err != nil {
				return err
			}
			if len(types) == 0 {
				types = s.cfg.Registry().Names()
			}
			doc, err := exportContent(ctx, s.db, types)
			if err != nil {
				return err
			}
			if err := writeReport(args[0], doc, yes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d messages and %d records.\n", len(doc.Messages), len(doc.Records))
			return nil
		},
	}
	cmd.SetUsageTemplate(leafUsageTemplate)
	cmd.Flags().StringSliceVar(&types, "types", nil, "Model types to export (default: all configured)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Overwrite the output file without asking")
	return cmd
}

func exportContent(ctx context.Context, db *sqlite.DB, types []string) (contentFile, error) {
	doc := contentFile{Messages: map[string]map[string]string{}}
	msgs, err := db.Query(ctx, nil)
	if err != nil {
		return doc, err
	}
	for _, m := range msgs {
		doc.Messages[m.ID()] = m.RawLocaleData()
	}
	for _, t := range types {
		recs, err := db.Load(ctx, t, nil)
		if err != nil {
			return doc, err
		}
		for _, rec := range recs {
			r, ok := rec.(*store.Record)
			if !ok {
				continue
			}
			doc.Records = append(doc.Records, contentRecord{Type: r.Type, ID: r.RecordID, DefaultLocale: r.Default, Data: r.Data})
		}
	}
	return doc, nil
}
