package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/database"
	"github.com/matthieukhl/storefront/internal/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the storefront backend",
	Long: `Start the storefront backend, which provides:
- GET /            liveness text
- GET /api/health  database health

The server refuses to start unless the database answers a ping.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Storefront backend starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(cmd.Context(), &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Database connected successfully")

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(db, &cfg.Server)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
