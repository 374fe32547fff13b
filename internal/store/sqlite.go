// Package store provides storage backends for the diet coach.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	// Ensure the directory exists
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateUserIfAbsent(contactKey string) error {
	if contactKey == "" {
		return models.ErrEmptyContactKey
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO users (contact_key, water_goal_liters) VALUES (?, ?)`,
		contactKey, models.DefaultWaterGoalLiters)
	if err != nil {
		slog.Error("SQLiteStore CreateUserIfAbsent failed", "error", err, "contactKey", contactKey)
		return fmt.Errorf("failed to create user %s: %w", contactKey, err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(contactKey string) (*models.UserProfile, error) {
	var u models.UserProfile
	err := s.db.QueryRow(
		`SELECT contact_key, name, diet_preference, regional_cuisine, allergies,
		        health_goal, water_goal_liters, onboarding_complete, created_at, last_active
		 FROM users WHERE contact_key = ?`, contactKey).Scan(
		&u.ContactKey, &u.Name, &u.DietPreference, &u.RegionalCuisine, &u.Allergies,
		&u.HealthGoal, &u.WaterGoalLiters, &u.OnboardingComplete, &u.CreatedAt, &u.LastActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetUser failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to get user %s: %w", contactKey, err)
	}
	return &u, nil
}

func (s *SQLiteStore) UpdateProfile(contactKey string, upd models.ProfileUpdate) error {
	cols, args := profileUpdateFields(upd)
	if len(cols) == 0 {
		return nil
	}
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = c + " = ?"
	}
	args = append(args, contactKey)
	query := fmt.Sprintf("UPDATE users SET %s WHERE contact_key = ?", strings.Join(set, ", "))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		slog.Error("SQLiteStore UpdateProfile failed", "error", err, "contactKey", contactKey)
		return fmt.Errorf("failed to update profile for %s: %w", contactKey, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrUserNotFound
	}
	slog.Debug("SQLiteStore UpdateProfile succeeded", "contactKey", contactKey, "fields", len(set))
	return nil
}

func (s *SQLiteStore) TouchLastActive(contactKey string) error {
	_, err := s.db.Exec(`UPDATE users SET last_active = CURRENT_TIMESTAMP WHERE contact_key = ?`, contactKey)
	if err != nil {
		slog.Error("SQLiteStore TouchLastActive failed", "error", err, "contactKey", contactKey)
		return fmt.Errorf("failed to touch last_active for %s: %w", contactKey, err)
	}
	return nil
}

func (s *SQLiteStore) AppendTurn(contactKey string, role models.Role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO conversation_turns (contact_key, role, content) VALUES (?, ?, ?)`,
		contactKey, role, content)
	if err != nil {
		slog.Error("SQLiteStore AppendTurn failed", "error", err, "contactKey", contactKey, "role", role)
		return fmt.Errorf("failed to append turn for %s: %w", contactKey, err)
	}
	return nil
}

func (s *SQLiteStore) GetRecentTurns(contactKey string, limit int) ([]models.ConversationTurn, error) {
	rows, err := s.db.Query(
		`SELECT id, contact_key, role, content, created_at FROM conversation_turns
		 WHERE contact_key = ? ORDER BY id DESC LIMIT ?`, contactKey, limit)
	if err != nil {
		slog.Error("SQLiteStore GetRecentTurns query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to query turns for %s: %w", contactKey, err)
	}
	defer rows.Close()
	return scanTurnsReversed(rows)
}

func (s *SQLiteStore) GetOlderTurns(contactKey string, skipRecent, limit int) ([]models.ConversationTurn, error) {
	rows, err := s.db.Query(
		`SELECT id, contact_key, role, content, created_at FROM conversation_turns
		 WHERE contact_key = ? ORDER BY id DESC LIMIT ? OFFSET ?`, contactKey, limit, skipRecent)
	if err != nil {
		slog.Error("SQLiteStore GetOlderTurns query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to query older turns for %s: %w", contactKey, err)
	}
	defer rows.Close()
	return scanTurnsReversed(rows)
}

func (s *SQLiteStore) GetMessageCount(contactKey string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM conversation_turns WHERE contact_key = ?`, contactKey).Scan(&count)
	if err != nil {
		slog.Error("SQLiteStore GetMessageCount failed", "error", err, "contactKey", contactKey)
		return 0, fmt.Errorf("failed to count turns for %s: %w", contactKey, err)
	}
	return count, nil
}

func (s *SQLiteStore) AppendFoodLog(log models.FoodLog) error {
	_, err := s.db.Exec(
		`INSERT INTO food_logs (contact_key, meal_type, description, log_date, clock_time, analysis)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		log.ContactKey, log.MealType, log.Description, log.Date, log.ClockTime, log.Analysis)
	if err != nil {
		slog.Error("SQLiteStore AppendFoodLog failed", "error", err, "contactKey", log.ContactKey)
		return fmt.Errorf("failed to append food log for %s: %w", log.ContactKey, err)
	}
	slog.Debug("SQLiteStore AppendFoodLog succeeded", "contactKey", log.ContactKey, "mealType", log.MealType)
	return nil
}

func (s *SQLiteStore) GetTodayFoodLogs(contactKey, date string) ([]models.FoodLog, error) {
	rows, err := s.db.Query(
		`SELECT id, contact_key, meal_type, description, log_date, clock_time, analysis
		 FROM food_logs WHERE contact_key = ? AND log_date = ? ORDER BY id ASC`,
		contactKey, date)
	if err != nil {
		slog.Error("SQLiteStore GetTodayFoodLogs query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to query food logs for %s: %w", contactKey, err)
	}
	defer rows.Close()
	return scanFoodLogs(rows)
}

func (s *SQLiteStore) AppendWaterLog(contactKey string, glasses int, date string) error {
	if glasses < models.MinGlassesPerLog || glasses > models.MaxGlassesPerLog {
		return models.ErrInvalidGlassCount
	}
	_, err := s.db.Exec(
		`INSERT INTO water_logs (contact_key, glasses, log_date) VALUES (?, ?, ?)`,
		contactKey, glasses, date)
	if err != nil {
		slog.Error("SQLiteStore AppendWaterLog failed", "error", err, "contactKey", contactKey)
		return fmt.Errorf("failed to append water log for %s: %w", contactKey, err)
	}
	return nil
}

func (s *SQLiteStore) GetTodayWaterTotal(contactKey, date string) (int, error) {
	var total int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(glasses), 0) FROM water_logs WHERE contact_key = ? AND log_date = ?`,
		contactKey, date).Scan(&total)
	if err != nil {
		slog.Error("SQLiteStore GetTodayWaterTotal failed", "error", err, "contactKey", contactKey)
		return 0, fmt.Errorf("failed to sum water logs for %s: %w", contactKey, err)
	}
	return total, nil
}

func (s *SQLiteStore) GetWeeklyAggregates(contactKey, startDate string) (*models.WeeklyAggregates, error) {
	agg := &models.WeeklyAggregates{MealCounts: make(map[models.MealType]int)}

	rows, err := s.db.Query(
		`SELECT id, contact_key, meal_type, description, log_date, clock_time, analysis
		 FROM food_logs WHERE contact_key = ? AND log_date >= ?
		 ORDER BY log_date ASC, id ASC`, contactKey, startDate)
	if err != nil {
		slog.Error("SQLiteStore GetWeeklyAggregates food query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to query weekly food logs for %s: %w", contactKey, err)
	}
	foods, err := scanFoodLogs(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	activeDays := make(map[string]bool)
	for _, f := range foods {
		agg.MealCounts[f.MealType]++
		agg.TotalMeals++
		activeDays[f.Date] = true
	}
	agg.Foods = foods
	agg.ActiveDays = len(activeDays)

	err = s.db.QueryRow(
		`SELECT COALESCE(AVG(daily_total), 0) FROM (
		   SELECT SUM(glasses) AS daily_total FROM water_logs
		   WHERE contact_key = ? AND log_date >= ? GROUP BY log_date)`,
		contactKey, startDate).Scan(&agg.AvgWaterGlasses)
	if err != nil {
		slog.Error("SQLiteStore GetWeeklyAggregates water query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to average water logs for %s: %w", contactKey, err)
	}
	return agg, nil
}

func (s *SQLiteStore) GetAllUsers() ([]models.UserSummary, error) {
	rows, err := s.db.Query(
		`SELECT u.contact_key, u.name, u.diet_preference, u.regional_cuisine,
		        u.health_goal, u.onboarding_complete, u.last_active, COUNT(t.id)
		 FROM users u LEFT JOIN conversation_turns t ON u.contact_key = t.contact_key
		 GROUP BY u.contact_key ORDER BY u.last_active DESC`)
	if err != nil {
		slog.Error("SQLiteStore GetAllUsers query failed", "error", err)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()
	return scanUserSummaries(rows)
}

func (s *SQLiteStore) GetStats(today string) (*models.Stats, error) {
	var stats models.Stats
	queries := []struct {
		query string
		args  []any
		dest  *int
	}{
		{`SELECT COUNT(*) FROM users`, nil, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM conversation_turns`, nil, &stats.TotalTurns},
		{`SELECT COUNT(*) FROM food_logs`, nil, &stats.TotalFoodLogs},
		{`SELECT COUNT(*) FROM users WHERE date(last_active) = ?`, []any{today}, &stats.ActiveToday},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(q.query, q.args...).Scan(q.dest); err != nil {
			slog.Error("SQLiteStore GetStats failed", "error", err, "query", q.query)
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
	}
	return &stats, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
