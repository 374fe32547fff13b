package store

import (
	"database/sql"
	"fmt"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// profileUpdateFields flattens the non-nil fields of a partial profile
// update into column names and values. Drivers add their own
// placeholder syntax.
func profileUpdateFields(upd models.ProfileUpdate) ([]string, []any) {
	var cols []string
	var args []any
	if upd.Name != nil {
		cols = append(cols, "name")
		args = append(args, *upd.Name)
	}
	if upd.DietPreference != nil {
		cols = append(cols, "diet_preference")
		args = append(args, *upd.DietPreference)
	}
	if upd.RegionalCuisine != nil {
		cols = append(cols, "regional_cuisine")
		args = append(args, *upd.RegionalCuisine)
	}
	if upd.Allergies != nil {
		cols = append(cols, "allergies")
		args = append(args, *upd.Allergies)
	}
	if upd.HealthGoal != nil {
		cols = append(cols, "health_goal")
		args = append(args, *upd.HealthGoal)
	}
	if upd.WaterGoalLiters != nil {
		cols = append(cols, "water_goal_liters")
		args = append(args, *upd.WaterGoalLiters)
	}
	if upd.OnboardingComplete != nil {
		cols = append(cols, "onboarding_complete")
		args = append(args, *upd.OnboardingComplete)
	}
	return cols, args
}

// scanTurnsReversed scans rows ordered newest-first and returns them
// in chronological order.
func scanTurnsReversed(rows *sql.Rows) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	for rows.Next() {
		var t models.ConversationTurn
		if err := rows.Scan(&t.Seq, &t.ContactKey, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn failed: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows failed: %w", err)
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// scanFoodLogs scans a food log result set.
func scanFoodLogs(rows *sql.Rows) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	for rows.Next() {
		var l models.FoodLog
		if err := rows.Scan(&l.ID, &l.ContactKey, &l.MealType, &l.Description, &l.Date, &l.ClockTime, &l.Analysis); err != nil {
			return nil, fmt.Errorf("scan food log failed: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate food log rows failed: %w", err)
	}
	return logs, nil
}

// scanUserSummaries scans the admin user listing result set.
func scanUserSummaries(rows *sql.Rows) ([]models.UserSummary, error) {
	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ContactKey, &u.Name, &u.DietPreference, &u.RegionalCuisine,
			&u.HealthGoal, &u.OnboardingComplete, &u.LastActive, &u.TurnCount); err != nil {
			return nil, fmt.Errorf("scan user summary failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows failed: %w", err)
	}
	return users, nil
}
