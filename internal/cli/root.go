package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vectordesk/core/config"
	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/logger"
	"github.com/vectordesk/core/v1/pool"
	"github.com/vectordesk/core/v1/profile"
	"github.com/vectordesk/core/v1/vectorstore"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vdctl",
	Short: "vdctl manages vector store profiles, collections, searches, and copies",
	Long: `vdctl is the command line companion to the vectordesk libraries.
It stores connection profiles for Chroma, Pinecone, and Qdrant servers,
browses their collections, searches documents, and copies collections
within or across stores.

Example usage:
  vdctl profiles add --id local --backend chroma --url http://localhost:8000
  vdctl collections list --profile local
  vdctl search --profile local --collection articles -q "vector databases"
  vdctl copy --profile local --source articles --target articles-backup`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			var home string
			home, err = os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to find home directory: %w", err)
			}
			cfg, err = config.LoadFromDir(home)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.vectordesk/config.yaml)")
}

func GetConfig() *config.Config {
	return cfg
}

// newLogger builds the CLI logger from the loaded config.
func newLogger() *logger.Logger {
	return logger.NewLoggerClient(cfg.Logger)
}

// openProfiles opens the profile database. An empty configured path means
// the database lives in the per-user data dir.
func openProfiles(log *logger.Logger) (*profile.Store, error) {
	pcfg := cfg.Profile
	if pcfg.Path == "" {
		dir, err := config.EnsureDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data dir: %w", err)
		}
		pcfg.Path = config.ProfileDBPath(dir)
	}
	return profile.NewStore(log, pcfg)
}

// newPool builds a connection pool whose adapters read embedding overrides
// from the profile database.
func newPool(log *logger.Logger, profiles *profile.Store) *pool.Pool {
	return pool.NewPool(log, pool.DefaultFactory(log, nil, profiles))
}

// connect resolves a stored profile and opens a pooled connection to it.
func connect(ctx context.Context, profiles *profile.Store, p *pool.Pool, profileID string) (vectorstore.Store, error) {
	prof, err := profiles.GetProfile(profileID)
	if err != nil {
		return nil, err
	}
	store, err := p.Connect(ctx, *prof)
	if err != nil {
		return nil, fmt.Errorf("connecting to profile %q: %w", profileID, err)
	}
	return store, nil
}

// parseBackend validates a backend name given on the command line.
func parseBackend(s string) (vectorstore.BackendKind, error) {
	switch vectorstore.BackendKind(s) {
	case vectorstore.BackendChroma, vectorstore.BackendPinecone, vectorstore.BackendQdrant:
		return vectorstore.BackendKind(s), nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected chroma, pinecone, or qdrant)", s)
	}
}

// efDescriptor builds an embedding function descriptor from --ef style
// flags. Returns nil when no function name was given.
func efDescriptor(name string, config map[string]string) (*embedding.Descriptor, error) {
	if name == "" {
		if len(config) > 0 {
			return nil, fmt.Errorf("--ef-config requires --ef")
		}
		return nil, nil
	}
	d := &embedding.Descriptor{Name: name}
	if len(config) > 0 {
		d.Config = make(map[string]interface{}, len(config))
		for k, v := range config {
			d.Config[k] = v
		}
	}
	return d, nil
}
