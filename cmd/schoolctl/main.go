// schoolctl is the operator CLI: maintenance passes and quick inspection
// against the same database the server uses. Run it while the server is
// stopped, or point it at a copy.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"schoolyard/internal/catalog"
	sqliteRepo "schoolyard/internal/repository/sqlite"
	"schoolyard/internal/service"
)

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "schoolctl",
		Short: "Maintenance tooling for the schoolyard server",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/schoolyard.db", "path to the database file")

	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openSchoolService opens the database and builds the school service on top.
// The caller closes the returned DB.
func openSchoolService() (*sqliteRepo.DB, *service.SchoolService, error) {
	db, err := sqliteRepo.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database %s: %w", dbPath, err)
	}

	cat, err := catalog.Load()
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return db, service.NewSchoolService(db.Schools(), db.Accounts(), cat, logger), nil
}
