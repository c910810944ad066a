// Package audit exports the agenda tables to Excel once a month, ships the
// report to the managers and prunes old appointments.
package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TableExporter provides access to the tables being exported.
type TableExporter interface {
	GetTableNames(ctx context.Context) ([]string, error)
	GetTableData(ctx context.Context, tableName string) ([]map[string]interface{}, []string, error)
}

// Cleaner removes appointments past the retention window.
type Cleaner interface {
	DeleteOldAppointments(ctx context.Context, olderThan time.Duration) (int64, error)
}

// DocumentSender delivers the report file to a chat.
type DocumentSender interface {
	SendDocument(ctx context.Context, chatID int64, path, caption string) error
}

// Config for the audit service.
type Config struct {
	RetentionDays int
	ExportOnStart bool
	ExportDir     string
	Managers      []int64
}

// Service runs the monthly export and cleanup cycle.
type Service struct {
	cfg      Config
	exporter TableExporter
	cleaner  Cleaner
	sender   DocumentSender
	logger   zerolog.Logger

	mu           sync.Mutex
	lastRunMonth string
}

// NewService wires the audit service. sender may be nil; the report is then
// only written to disk.
func NewService(cfg Config, exporter TableExporter, cleaner Cleaner, sender DocumentSender, logger zerolog.Logger) *Service {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "data/audit"
	}
	return &Service{
		cfg:      cfg,
		exporter: exporter,
		cleaner:  cleaner,
		sender:   sender,
		logger:   logger.With().Str("component", "audit").Logger(),
	}
}

// Run checks hourly whether a new month started. Blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info().Int("retention_days", s.cfg.RetentionDays).Msg("audit service started")

	if s.cfg.ExportOnStart {
		s.runCycle(ctx)
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("audit service stopped")
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runCycle(ctx)
			}
		}
	}
}

// shouldRun fires once per month, on the first day.
func (s *Service) shouldRun(now time.Time) bool {
	if now.Day() != 1 {
		return false
	}
	month := now.Format("2006-01")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRunMonth == month {
		return false
	}
	s.lastRunMonth = month
	return true
}

func (s *Service) runCycle(ctx context.Context) {
	path, err := s.Export(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("audit export failed")
		return
	}

	if s.sender != nil {
		caption := fmt.Sprintf("Reporte de agenda: %s", filepath.Base(path))
		for _, chatID := range s.cfg.Managers {
			if err := s.sender.SendDocument(ctx, chatID, path, caption); err != nil {
				s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("report delivery failed")
			}
		}
	}

	retention := time.Duration(s.cfg.RetentionDays) * 24 * time.Hour
	deleted, err := s.cleaner.DeleteOldAppointments(ctx, retention)
	if err != nil {
		s.logger.Error().Err(err).Msg("appointment cleanup failed")
		return
	}
	s.logger.Info().Int64("deleted", deleted).Msg("old appointments pruned")
}

// Export dumps every audited table into a dated Excel file and returns its
// path.
func (s *Service) Export(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.cfg.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	names, err := s.exporter.GetTableNames(ctx)
	if err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}

	wb := newWorkbook()
	defer wb.close()

	for _, name := range names {
		rows, columns, err := s.exporter.GetTableData(ctx, name)
		if err != nil {
			return "", fmt.Errorf("export table %s: %w", name, err)
		}
		if err := wb.addTable(name, columns, rows); err != nil {
			return "", err
		}
	}

	path := filepath.Join(s.cfg.ExportDir, ReportFilename(time.Now()))
	if err := wb.saveToFile(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	s.logger.Info().Str("path", path).Int("tables", len(names)).Msg("audit report written")
	return path, nil
}

var monthNames = map[time.Month]string{
	time.January:   "Enero",
	time.February:  "Febrero",
	time.March:     "Marzo",
	time.April:     "Abril",
	time.May:       "Mayo",
	time.June:      "Junio",
	time.July:      "Julio",
	time.August:    "Agosto",
	time.September: "Septiembre",
	time.October:   "Octubre",
	time.November:  "Noviembre",
	time.December:  "Diciembre",
}

// ReportFilename names the report after the previous month, the one the
// export covers.
func ReportFilename(now time.Time) string {
	prev := now.AddDate(0, -1, 0)
	return fmt.Sprintf("Agenda_%s_%d.xlsx", monthNames[prev.Month()], prev.Year())
}
