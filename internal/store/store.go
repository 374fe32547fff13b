// Package store provides storage backends for the diet coach.
//
// It includes an in-memory store for tests and small deployments, plus
// SQLite and PostgreSQL backed stores selected by DSN at startup.
package store

import "github.com/rakesh1308/whatsapp-diet-coach/internal/models"

// Store is the persistence interface the conversation flow and API
// depend on. Dates are civil dates in the coach timezone, formatted
// "2006-01-02"; callers compute them so backends stay clock-free.
type Store interface {
	// CreateUserIfAbsent inserts a blank profile for the contact key if
	// none exists. Existing profiles are left untouched.
	CreateUserIfAbsent(contactKey string) error
	// GetUser returns the profile, or nil when the contact is unknown.
	GetUser(contactKey string) (*models.UserProfile, error)
	// UpdateProfile applies the non-nil fields of the update.
	UpdateProfile(contactKey string, upd models.ProfileUpdate) error
	TouchLastActive(contactKey string) error

	// AppendTurn stores one conversation turn. Sequence numbers are
	// assigned by the store, strictly increasing per contact.
	AppendTurn(contactKey string, role models.Role, content string) error
	// GetRecentTurns returns up to limit most recent turns in
	// chronological order.
	GetRecentTurns(contactKey string, limit int) ([]models.ConversationTurn, error)
	// GetOlderTurns returns up to limit turns older than the
	// skipRecent most recent ones, in chronological order.
	GetOlderTurns(contactKey string, skipRecent, limit int) ([]models.ConversationTurn, error)
	GetMessageCount(contactKey string) (int, error)

	AppendFoodLog(log models.FoodLog) error
	// GetTodayFoodLogs returns the food logs for the given civil date
	// in insertion order.
	GetTodayFoodLogs(contactKey, date string) ([]models.FoodLog, error)
	AppendWaterLog(contactKey string, glasses int, date string) error
	GetTodayWaterTotal(contactKey, date string) (int, error)

	// GetWeeklyAggregates summarizes food and water logs on or after
	// startDate.
	GetWeeklyAggregates(contactKey, startDate string) (*models.WeeklyAggregates, error)

	GetAllUsers() ([]models.UserSummary, error)
	// GetStats returns service-wide counters; today is used for the
	// active-today count.
	GetStats(today string) (*models.Stats, error)

	Close() error
}
