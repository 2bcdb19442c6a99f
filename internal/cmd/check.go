package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/backend"
	"github.com/matthieukhl/storefront/internal/config"
	"github.com/matthieukhl/storefront/internal/database"
	"github.com/matthieukhl/storefront/internal/storage"
)

const probeKey = "probe"

var skipDB bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration, storage, providers and database",
	Long: `Check that the storefront is ready to run: the configuration loads,
the storage directory is writable, the configured identity provider and order
submitter exist, and the database answers a ping.`,
	RunE: runChecks,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&skipDB, "skip-db", false, "Skip the database ping")
}

func runChecks(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔍 Checking storefront setup...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "   ✅ Configuration loaded")

	if err := checkStorage(out, cfg); err != nil {
		return err
	}

	identity, err := backend.NewIdentityProvider(&cfg.Session)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "   ✅ Identity provider: %s (latency %s)\n", identity.Name(), cfg.Session.Latency)

	submitter, err := backend.NewOrderSubmitter(&cfg.Checkout)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "   ✅ Order submitter: %s (latency %s)\n", submitter.Name(), cfg.Checkout.SubmitLatency)

	if skipDB {
		fmt.Fprintln(out, "   ⏭️  Database check skipped")
	} else {
		db, err := database.NewConnection(cmd.Context(), &cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		fmt.Fprintln(out, "   ✅ Database reachable")
	}

	fmt.Fprintln(out, "\n🎉 All checks passed!")
	return nil
}

func checkStorage(out io.Writer, cfg *config.Config) error {
	store, err := storage.NewOSStore(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	if err := store.Set(probeKey, []byte(`{}`)); err != nil {
		return fmt.Errorf("storage is not writable: %w", err)
	}
	if err := store.Delete(probeKey); err != nil {
		return fmt.Errorf("storage probe cleanup failed: %w", err)
	}
	fmt.Fprintf(out, "   ✅ Storage writable: %s\n", cfg.Storage.Dir)

	for _, key := range []string{storage.KeyCart, storage.KeyUser} {
		if _, ok, err := store.Get(key); err != nil {
			fmt.Fprintf(out, "   ⚠️  Stored %s unreadable: %v\n", key, err)
		} else if ok {
			fmt.Fprintf(out, "   📦 Stored %s present\n", key)
		}
	}
	return nil
}
