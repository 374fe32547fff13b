// Package store provides storage backends for the diet coach.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "embed"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) CreateUserIfAbsent(contactKey string) error {
	if contactKey == "" {
		return models.ErrEmptyContactKey
	}
	_, err := s.db.Exec(
		`INSERT INTO users (contact_key, water_goal_liters) VALUES ($1, $2)
		 ON CONFLICT (contact_key) DO NOTHING`,
		contactKey, models.DefaultWaterGoalLiters)
	if err != nil {
		slog.Error("PostgresStore CreateUserIfAbsent failed", "error", err, "contactKey", contactKey)
		return fmt.Errorf("failed to create user %s: %w", contactKey, err)
	}
	return nil
}

func (s *PostgresStore) GetUser(contactKey string) (*models.UserProfile, error) {
	var u models.UserProfile
	err := s.db.QueryRow(
		`SELECT contact_key, name, diet_preference, regional_cuisine, allergies,
		        health_goal, water_goal_liters, onboarding_complete, created_at, last_active
		 FROM users WHERE contact_key = $1`, contactKey).Scan(
		&u.ContactKey, &u.Name, &u.DietPreference, &u.RegionalCuisine, &u.Allergies,
		&u.HealthGoal, &u.WaterGoalLiters, &u.OnboardingComplete, &u.CreatedAt, &u.LastActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetUser failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to get user %s: %w", contactKey, err)
	}
	return &u, nil
}

func (s *PostgresStore) UpdateProfile(contactKey string, upd models.ProfileUpdate) error {
	cols, args := profileUpdateFields(upd)
	if len(cols) == 0 {
		return nil
	}
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	args = append(args, contactKey)
	query := fmt.Sprintf("UPDATE users SET %s WHERE contact_key = $%d",
		strings.Join(set, ", "), len(args))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		slog.Error("PostgresStore UpdateProfile failed", "error", err, "contactKey", contactKey)
		return fmt.Errorf("failed to update profile for %s: %w", contactKey, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrUserNotFound
	}
	slog.Debug("PostgresStore UpdateProfile succeeded", "contactKey", contactKey, "fields", len(cols))
	return nil
}

func (s *PostgresStore) TouchLastActive(contactKey string) error {
	_, err := s.db.Exec(`UPDATE users SET last_active = NOW() WHERE contact_key = $1`, contactKey)
	if err != nil {
		slog.Error("PostgresStore TouchLastActive failed", "error", err, "contactKey", contactKey)
		return fmt.Errorf("failed to touch last_active for %s: %w", contactKey, err)
	}
	return nil
}

func (s *PostgresStore) AppendTurn(contactKey string, role models.Role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO conversation_turns (contact_key, role, content) VALUES ($1, $2, $3)`,
		contactKey, role, content)
	if err != nil {
		slog.Error("PostgresStore AppendTurn failed", "error", err, "contactKey", contactKey, "role", role)
		return fmt.Errorf("failed to append turn for %s: %w", contactKey, err)
	}
	return nil
}

func (s *PostgresStore) GetRecentTurns(contactKey string, limit int) ([]models.ConversationTurn, error) {
	rows, err := s.db.Query(
		`SELECT id, contact_key, role, content, created_at FROM conversation_turns
		 WHERE contact_key = $1 ORDER BY id DESC LIMIT $2`, contactKey, limit)
	if err != nil {
		slog.Error("PostgresStore GetRecentTurns query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to query turns for %s: %w", contactKey, err)
	}
	defer rows.Close()
	return scanTurnsReversed(rows)
}

func (s *PostgresStore) GetOlderTurns(contactKey string, skipRecent, limit int) ([]models.ConversationTurn, error) {
	rows, err := s.db.Query(
		`SELECT id, contact_key, role, content, created_at FROM conversation_turns
		 WHERE contact_key = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`, contactKey, limit, skipRecent)
	if err != nil {
		slog.Error("PostgresStore GetOlderTurns query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to query older turns for %s: %w", contactKey, err)
	}
	defer rows.Close()
	return scanTurnsReversed(rows)
}

func (s *PostgresStore) GetMessageCount(contactKey string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM conversation_turns WHERE contact_key = $1`, contactKey).Scan(&count)
	if err != nil {
		slog.Error("PostgresStore GetMessageCount failed", "error", err, "contactKey", contactKey)
		return 0, fmt.Errorf("failed to count turns for %s: %w", contactKey, err)
	}
	return count, nil
}

func (s *PostgresStore) AppendFoodLog(log models.FoodLog) error {
	_, err := s.db.Exec(
		`INSERT INTO food_logs (contact_key, meal_type, description, log_date, clock_time, analysis)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ContactKey, log.MealType, log.Description, log.Date, log.ClockTime, log.Analysis)
	if err != nil {
		slog.Error("PostgresStore AppendFoodLog failed", "error", err, "contactKey", log.ContactKey)
		return fmt.Errorf("failed to append food log for %s: %w", log.ContactKey, err)
	}
	slog.Debug("PostgresStore AppendFoodLog succeeded", "contactKey", log.ContactKey, "mealType", log.MealType)
	return nil
}

func (s *PostgresStore) GetTodayFoodLogs(contactKey, date string) ([]models.FoodLog, error) {
	rows, err := s.db.Query(
		`SELECT id, contact_key, meal_type, description, log_date, clock_time, analysis
		 FROM food_logs WHERE contact_key = $1 AND log_date = $2 ORDER BY id ASC`,
		contactKey, date)
	if err != nil {
		slog.Error("PostgresStore GetTodayFoodLogs query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to query food logs for %s: %w", contactKey, err)
	}
	defer rows.Close()
	return scanFoodLogs(rows)
}

func (s *PostgresStore) AppendWaterLog(contactKey string, glasses int, date string) error {
	if glasses < models.MinGlassesPerLog || glasses > models.MaxGlassesPerLog {
		return models.ErrInvalidGlassCount
	}
	_, err := s.db.Exec(
		`INSERT INTO water_logs (contact_key, glasses, log_date) VALUES ($1, $2, $3)`,
		contactKey, glasses, date)
	if err != nil {
		slog.Error("PostgresStore AppendWaterLog failed", "error", err, "contactKey", contactKey)
		return fmt.Errorf("failed to append water log for %s: %w", contactKey, err)
	}
	return nil
}

func (s *PostgresStore) GetTodayWaterTotal(contactKey, date string) (int, error) {
	var total int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(glasses), 0) FROM water_logs WHERE contact_key = $1 AND log_date = $2`,
		contactKey, date).Scan(&total)
	if err != nil {
		slog.Error("PostgresStore GetTodayWaterTotal failed", "error", err, "contactKey", contactKey)
		return 0, fmt.Errorf("failed to sum water logs for %s: %w", contactKey, err)
	}
	return total, nil
}

func (s *PostgresStore) GetWeeklyAggregates(contactKey, startDate string) (*models.WeeklyAggregates, error) {
	agg := &models.WeeklyAggregates{MealCounts: make(map[models.MealType]int)}

	rows, err := s.db.Query(
		`SELECT id, contact_key, meal_type, description, log_date, clock_time, analysis
		 FROM food_logs WHERE contact_key = $1 AND log_date >= $2
		 ORDER BY log_date ASC, id ASC`, contactKey, startDate)
	if err != nil {
		slog.Error("PostgresStore GetWeeklyAggregates food query failed", "error", err, "contactKey", contactKey)
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
		   WHERE contact_key = $1 AND log_date >= $2 GROUP BY log_date) d`,
		contactKey, startDate).Scan(&agg.AvgWaterGlasses)
	if err != nil {
		slog.Error("PostgresStore GetWeeklyAggregates water query failed", "error", err, "contactKey", contactKey)
		return nil, fmt.Errorf("failed to average water logs for %s: %w", contactKey, err)
	}
	return agg, nil
}

func (s *PostgresStore) GetAllUsers() ([]models.UserSummary, error) {
	rows, err := s.db.Query(
		`SELECT u.contact_key, u.name, u.diet_preference, u.regional_cuisine,
		        u.health_goal, u.onboarding_complete, u.last_active, COUNT(t.id)
		 FROM users u LEFT JOIN conversation_turns t ON u.contact_key = t.contact_key
		 GROUP BY u.contact_key ORDER BY u.last_active DESC`)
	if err != nil {
		slog.Error("PostgresStore GetAllUsers query failed", "error", err)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()
	return scanUserSummaries(rows)
}

func (s *PostgresStore) GetStats(today string) (*models.Stats, error) {
	var stats models.Stats
	queries := []struct {
		query string
		args  []any
		dest  *int
	}{
		{`SELECT COUNT(*) FROM users`, nil, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM conversation_turns`, nil, &stats.TotalTurns},
		{`SELECT COUNT(*) FROM food_logs`, nil, &stats.TotalFoodLogs},
		{`SELECT COUNT(*) FROM users WHERE DATE(last_active) = $1::date`, []any{today}, &stats.ActiveToday},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(q.query, q.args...).Scan(q.dest); err != nil {
			slog.Error("PostgresStore GetStats failed", "error", err, "query", q.query)
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
	}
	return &stats, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
