package main

import (
	"fmt"
	"os"

	"asset-management-be/internal/repository/unitofwork"
	"asset-management-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "assetctl",
		Short:         "Operator tasks for the asset registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(createAdminCommand())
	root.AddCommand(seedCommand())
	return root
}

// openFactory connects using DB_CONNECTION_STRING, reading .env first.
func openFactory() (unitofwork.RepositoryFactory, error) {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return unitofwork.NewRepositoryFactory(db), nil
}
