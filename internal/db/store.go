// Package db implements the SQLite store for the clinic agenda.
package db

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps sql.DB for the agenda service.
type Store struct {
	*sql.DB
	path string
}

// NewStore opens the database at path and runs migrations.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &Store{DB: db, path: path}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS appointments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doctor_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			hour TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			origin TEXT NOT NULL DEFAULT 'SECRETARY',
			is_guest BOOLEAN NOT NULL DEFAULT 0,
			patient_id INTEGER,
			patient_name TEXT,
			patient_dni TEXT,
			guest_name TEXT,
			guest_phone TEXT,
			guest_reference TEXT,
			health_insurance TEXT,
			affiliation_number TEXT,
			consultation_type TEXT,
			reminder_sent BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date
			ON appointments(doctor_id, date)`,

		`CREATE TABLE IF NOT EXISTS overturns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doctor_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			hour TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			is_guest BOOLEAN NOT NULL DEFAULT 0,
			patient_id INTEGER,
			patient_name TEXT,
			patient_dni TEXT,
			guest_name TEXT,
			guest_phone TEXT,
			health_insurance TEXT,
			affiliation_number TEXT,
			consultation_type TEXT,
			reminder_sent BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_overturns_doctor_date
			ON overturns(doctor_id, date)`,

		`CREATE TABLE IF NOT EXISTS blocked_slots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doctor_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			hour TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT 'other',
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(doctor_id, date, hour)
		)`,

		`CREATE TABLE IF NOT EXISTS doctor_absences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doctor_id INTEGER NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'personal',
			start_time TEXT,
			end_time TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS holidays (
			date TEXT PRIMARY KEY,
			name TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS doctor_availabilities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doctor_id INTEGER NOT NULL,
			weekday INTEGER NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			slot_duration INTEGER DEFAULT 30,
			active BOOLEAN NOT NULL DEFAULT 1
		)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// Backup copies the database file to dest.
func (s *Store) Backup(dest string) error {
	source, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open source db: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

// CleanupBackups removes backup files in dir older than retention.
func (s *Store) CleanupBackups(dir string, retention time.Duration) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	deleted := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, file.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
