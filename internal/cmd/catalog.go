package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/cobalt/internal/catalog"
	"github.com/Iron-Ham/cobalt/internal/catalog/sqlstore"
	"github.com/Iron-Ham/cobalt/internal/config"
	"github.com/Iron-Ham/cobalt/internal/render"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage widget catalogues",
	Long: `Inspect and manage widget catalogues.

A catalogue is a YAML document of taxonomies and widgets. It is read from
catalog.path, or from an SQL store when store.driver is set.`,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalogue file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogValidate,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the widgets of the configured catalogue",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored catalogue with a catalogue file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the stored catalogue as YAML (stdout without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogExport,
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed <taxonomy> <widget-dir>",
	Short: "Build a catalogue from a taxonomy file and a directory of widget files",
	Long: `Build a catalogue from a taxonomy file and one YAML file per widget.
Widget files that cannot be read or are invalid are logged and skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runCatalogSeed,
}

var (
	seedOutput string
	seedImport bool
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogSeedCmd)

	catalogSeedCmd.Flags().StringVarP(&seedOutput, "output", "o", "", "write the catalogue here instead of stdout")
	catalogSeedCmd.Flags().BoolVar(&seedImport, "import", false, "also save the catalogue to the configured store")
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	doc, err := catalog.LoadFile(args[0])
	if err != nil {
		return err
	}
	// Building the catalogue resolves taxonomy references.
	c, err := catalog.New(doc)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d widgets, %d actions)\n", args[0], len(c.Widgets()), c.ActionCount())
	return nil
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := openCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Catalog(c.Document(), render.TerminalWidth()))
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := catalog.LoadFile(args[0])
	if err != nil {
		return err
	}
	if _, err := catalog.New(doc); err != nil {
		return err
	}
	if err := saveToStore(cmd, cfg, doc); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d widgets into the %s store\n", len(doc.Widgets), cfg.Store.Driver)
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	doc, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	return writeDocument(cmd, doc, firstArg(args))
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	doc, err := catalog.Seed(args[0], args[1], logger)
	if err != nil {
		return err
	}
	if seedImport {
		if err := saveToStore(cmd, cfg, doc); err != nil {
			return err
		}
	}
	return writeDocument(cmd, doc, seedOutput)
}

func openStore(cfg *config.Config) (*sqlstore.Store, error) {
	if cfg.Store.Driver == "" {
		return nil, fmt.Errorf("no catalogue store configured; set store.driver and store.dsn")
	}
	return sqlstore.Open(cfg.Store.Driver, cfg.Store.DSN)
}

func saveToStore(cmd *cobra.Command, cfg *config.Config, doc *catalog.Document) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return store.Save(cmd.Context(), doc)
}

// writeDocument writes doc to path, or to the command's output when path is
// empty or "-".
func writeDocument(cmd *cobra.Command, doc *catalog.Document, path string) error {
	if path != "" && path != "-" {
		if err := doc.WriteFile(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d widgets to %s\n", len(doc.Widgets), path)
		return nil
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
