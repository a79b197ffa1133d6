package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/BrooklynCarly/kindroot/internal/assemble"
	"github.com/BrooklynCarly/kindroot/internal/config"
	"github.com/BrooklynCarly/kindroot/internal/gdocs"
	"github.com/BrooklynCarly/kindroot/internal/report"
)

var generateFlags struct {
	input       string
	folder      string
	credentials string
	layout      string
	noShare     bool
	strict      bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a Google Doc report from upstream report data",
	Long: `Generate reads validated report data (JSON), builds the document content,
creates a Google Doc, and populates it in two phases: a structural skeleton
batch first, then table cells addressed at offsets read back from the
committed document.

Credentials are read from GOOGLE_CREDENTIALS_FILE (or
GOOGLE_APPLICATION_CREDENTIALS); a .env file in the working directory is
loaded automatically. The document URL is printed on stdout.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.input, "file", "f", "", "Path to report data JSON (required)")
	f.StringVar(&generateFlags.folder, "folder", "", "Drive folder ID to create the document in")
	f.StringVar(&generateFlags.credentials, "credentials", "", "Service account credentials file (overrides env)")
	f.StringVar(&generateFlags.layout, "layout", "", "Layout policy YAML (overrides env)")
	f.BoolVar(&generateFlags.noShare, "no-share", false, "Skip anyone-with-link sharing")
	f.BoolVar(&generateFlags.strict, "strict", false, "Fail hard on any table resolution error")
	_ = generateCmd.MarkFlagRequired("file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	ctx := cmd.Context()

	cfg := config.Load()
	if generateFlags.credentials != "" {
		cfg.CredentialsFile = generateFlags.credentials
	}
	if generateFlags.folder != "" {
		cfg.DriveFolderID = generateFlags.folder
	}
	if generateFlags.layout != "" {
		cfg.LayoutFile = generateFlags.layout
	}
	if generateFlags.noShare {
		cfg.ShareDocuments = false
	}
	if generateFlags.strict {
		cfg.StrictResolution = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := report.ReadFile(generateFlags.input)
	if err != nil {
		return err
	}

	layout := report.DefaultLayout()
	if cfg.LayoutFile != "" {
		layout, err = report.LoadLayout(cfg.LayoutFile)
		if err != nil {
			return err
		}
	}

	nodes, err := report.Build(data, layout)
	if err != nil {
		return err
	}

	client, err := gdocs.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		return err
	}

	title := report.Title(data)
	docID, err := client.CreateDocument(ctx, title, cfg.DriveFolderID)
	if err != nil {
		return err
	}
	log.Info("document created", "doc_id", docID, "title", title)

	asm := &assemble.Assembler{
		Svc:    client,
		Log:    log,
		Strict: cfg.StrictResolution,
	}
	res, err := asm.Assemble(ctx, docID, nodes)
	if err != nil {
		return err
	}

	if cfg.ShareDocuments {
		if err := client.SetSharing(ctx, docID, cfg.ShareType, cfg.ShareRole); err != nil {
			return err
		}
	}

	if failed := res.Failed(); len(failed) > 0 {
		keys := make([]string, 0, len(failed))
		for _, t := range failed {
			keys = append(keys, t.Key)
		}
		log.Warn("document partially populated",
			"populated", res.Populated(),
			"failed", len(failed),
			"failed_tables", keys,
		)
	}

	fmt.Println(gdocs.DocumentURL(docID))
	return nil
}
