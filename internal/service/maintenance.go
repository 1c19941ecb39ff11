package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arj/esimqr/internal/database"
	"github.com/arj/esimqr/internal/database/repository"
)

// MaintenanceService houses destructive/ops actions surfaced through the TUI.
type MaintenanceService struct {
	DB    *sql.DB
	Scans *repository.ScanRepo
}

// Reset wipes all saved profiles and the scan log. It keeps the schema
// intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"scans", "profiles"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}

// PruneScans drops scan-log entries older than the retention window.
func (s *MaintenanceService) PruneScans(ctx context.Context, retention time.Duration) error {
	if s.Scans == nil {
		return fmt.Errorf("maintenance: scan repo not configured")
	}
	return s.Scans.Purge(ctx, database.Now().Add(-retention))
}
