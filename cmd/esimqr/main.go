package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arj/esimqr/internal/config"
	"github.com/arj/esimqr/internal/database"
	"github.com/arj/esimqr/internal/database/repository"
	"github.com/arj/esimqr/internal/lpa"
	"github.com/arj/esimqr/internal/service"
	"github.com/arj/esimqr/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.Migrations); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	profileRepo := repository.NewProfileRepo(db)
	scanRepo := repository.NewScanRepo(db)

	parser := lpa.NewParserWithLimits(cfg.LPA.MinCodeLength, cfg.LPA.MaxCodeLength)

	intake := &service.IntakeService{Parser: parser, Profiles: profileRepo, Scans: scanRepo}
	export := &service.ExportService{Parser: parser, Size: cfg.QR.Size}
	maintenance := &service.MaintenanceService{DB: db, Scans: scanRepo}

	if days := cfg.Scans.RetentionDays; days > 0 {
		retention := time.Duration(days) * 24 * time.Hour
		if err := maintenance.PruneScans(ctx, retention); err != nil {
			log.Printf("warn: prune scan log: %v", err)
		}
	}

	p := tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Profiles: profileRepo, Scans: scanRepo},
		tui.Services{Intake: intake, Export: export, Maintenance: maintenance},
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
