package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/buildinfo"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/config"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
	"github.com/mtaylor99/ChurchRegister-sub001/pkg/logging"
)

// ConfigFileName is the per-parish configuration file.
const ConfigFileName = "churchregister.yaml"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "churchregister",
		Short:   "Parish contribution reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newMembersCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newBatchCommand())
	rootCmd.AddCommand(newLinkCommand())
	rootCmd.AddCommand(newReportCommand())

	return rootCmd
}

// app bundles the collaborators every subcommand needs. Everything is
// constructed here, per invocation; the module has no global service state.
type app struct {
	cfg   *config.Config
	store *store.Store
	log   *logrus.Logger
}

func openApp(dir string) (*app, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, ConfigFileName))
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Database.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(absDir, dbPath)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		store: st,
		log:   logging.New(cfg.Logging.Level),
	}, nil
}
