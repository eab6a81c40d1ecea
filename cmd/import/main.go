// Command import loads a spreadsheet CSV export of a game's drawings into the store.
//
//	import -game QOH-2024-01 -file entries.csv [-dry-run]
//	import -seed-admin admin@club.test:secret-password
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ArowuTest/club-portal-backend/internal/config"
	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/services"
	"github.com/ArowuTest/club-portal-backend/internal/store"
	"github.com/ArowuTest/club-portal-backend/internal/utils"
	"github.com/ArowuTest/club-portal-backend/pkg/jwt"
)

const importActor = "import-cli"

func main() {
	gameID := flag.String("game", "", "id of the game the entries belong to")
	filePath := flag.String("file", "", "CSV file exported from the club spreadsheet")
	dryRun := flag.Bool("dry-run", false, "validate and print the ledger without storing anything")
	seedAdmin := flag.String("seed-admin", "", "create an admin account, given as email:password")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetupLogger(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close(context.Background())

	if *seedAdmin != "" {
		if err := seedAdminAccount(ctx, st, cfg, *seedAdmin); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
		log.Println("Admin account ready")
	}

	if *gameID == "" && *filePath == "" {
		if *seedAdmin == "" {
			flag.Usage()
			os.Exit(2)
		}
		return
	}
	if *gameID == "" || *filePath == "" {
		log.Fatal("-game and -file are both required to import entries")
	}

	view, err := importFile(ctx, st, *gameID, *filePath, *dryRun)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	printSummary(os.Stdout, view, *dryRun)
}

func seedAdminAccount(ctx context.Context, st *store.Store, cfg *config.Config, credentials string) error {
	email, password, ok := strings.Cut(credentials, ":")
	if !ok || email == "" || password == "" {
		return fmt.Errorf("expected email:password, got %q", credentials)
	}
	secret := cfg.JWT.Secret
	if secret == "" {
		// tokens are never issued here; the service only needs a signer to exist
		secret = "unused"
	}
	tokens, err := jwt.NewTokenService(secret, time.Hour)
	if err != nil {
		return err
	}
	return services.NewAuthService(st.StaffUsers, tokens).EnsureAdmin(ctx, email, password)
}

func importFile(ctx context.Context, st *store.Store, gameID, path string, dryRun bool) (*models.GameView, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	entries, rowErrors, err := utils.ReadEntries(file, gameID)
	if err != nil {
		return nil, err
	}
	if len(rowErrors) > 0 {
		for _, re := range rowErrors {
			log.Printf("Skipping %v", re)
		}
		return nil, fmt.Errorf("%d rows could not be parsed", len(rowErrors))
	}

	entrySvc := services.NewEntryService(st.Games, st.Entries, st.AuditEvents)
	return entrySvc.ImportEntries(ctx, gameID, entries, importActor, dryRun)
}

func printSummary(w io.Writer, view *models.GameView, dryRun bool) {
	mode := "Imported"
	if dryRun {
		mode = "Validated (dry run)"
	}
	fmt.Fprintf(w, "%s %d drawings for %s\n", mode, len(view.Entries), view.Game.Name)
	for _, e := range view.Entries {
		fmt.Fprintf(w, "  %s  %s  sales %s  jackpot %s  change %s\n",
			e.DisplayName,
			e.DrawDate.Format("2006-01-02"),
			utils.FormatMoney(e.TicketSales),
			utils.FormatMoney(e.Totals.TotalJackpot),
			utils.FormatPercent(e.PercentChange),
		)
	}
	fmt.Fprintf(w, "Total sales:   %s\n", utils.FormatMoney(view.Totals.TotalSales))
	fmt.Fprintf(w, "Total jackpot: %s\n", utils.FormatMoney(view.Totals.TotalJackpot))
	fmt.Fprintf(w, "Total profit:  %s\n", utils.FormatMoney(view.Totals.TotalProfit))
	fmt.Fprintf(w, "Shuffle:       %d (resets: %d)\n", view.CurrentShuffle, view.ResetCount)
	if view.IsComplete {
		fmt.Fprintln(w, "Game is complete")
	}
}
