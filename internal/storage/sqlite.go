package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/devaki001/HillTech-Growers/internal/models"
)

// Store is the durable side of the service: alert history and the crops each
// farmer has under irrigation tracking.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the SQLite database and ensures the
// schema exists.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// SQLite handles one writer at a time; serializing through a single
	// connection avoids SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS alert_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			farmer_id TEXT,
			alert_id TEXT NOT NULL,
			alert_type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			severity TEXT NOT NULL,
			category TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_crops (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			farmer_id TEXT NOT NULL,
			crop_name TEXT NOT NULL,
			soil_type TEXT NOT NULL,
			water_requirement REAL NOT NULL,
			start_date TEXT NOT NULL,
			status TEXT DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAlert appends an alert to durable history. ownerID may be empty for
// anonymous alerts.
func (s *Store) SaveAlert(ctx context.Context, alert models.Alert, ownerID string) error {
	owner := sql.NullString{String: ownerID, Valid: ownerID != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alert_history
		 (farmer_id, alert_id, alert_type, title, message, severity, category, recommendation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		owner, alert.ID, alert.Type, alert.Title, alert.Message,
		alert.Severity, alert.Category, alert.Recommendation, alert.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return nil
}

// AddUserCrop records a crop a farmer has started growing and returns its id.
func (s *Store) AddUserCrop(ctx context.Context, crop models.UserCrop) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO user_crops (farmer_id, crop_name, soil_type, water_requirement, start_date, status)
		 VALUES (?, ?, ?, ?, ?, 'active')`,
		crop.FarmerID, crop.CropName, crop.SoilType, crop.WaterRequirement, crop.StartDate)
	if err != nil {
		return 0, fmt.Errorf("inserting user crop: %w", err)
	}
	return res.LastInsertId()
}

// ListUserCrops returns a farmer's tracked crops, most recent first.
func (s *Store) ListUserCrops(ctx context.Context, farmerID string) ([]models.UserCrop, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, farmer_id, crop_name, soil_type, water_requirement, start_date, status, created_at
		 FROM user_crops WHERE farmer_id = ? ORDER BY created_at DESC`, farmerID)
	if err != nil {
		return nil, fmt.Errorf("listing user crops: %w", err)
	}
	defer rows.Close()

	var crops []models.UserCrop
	for rows.Next() {
		var c models.UserCrop
		var createdAt string
		if err := rows.Scan(&c.ID, &c.FarmerID, &c.CropName, &c.SoilType,
			&c.WaterRequirement, &c.StartDate, &c.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning user crop: %w", err)
		}
		if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
			c.CreatedAt = t
		}
		crops = append(crops, c)
	}
	return crops, rows.Err()
}

// RemoveUserCrop deletes a tracked crop, scoped to its owner. Returns
// sql.ErrNoRows when the crop does not exist or belongs to someone else.
func (s *Store) RemoveUserCrop(ctx context.Context, farmerID string, cropID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_crops WHERE id = ? AND farmer_id = ?`, cropID, farmerID)
	if err != nil {
		return fmt.Errorf("deleting user crop: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
