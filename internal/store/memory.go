package store

import (
	"sort"
	"sync"
	"time"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// InMemoryStore keeps all state in process memory. Used by tests and
// by deployments that do not need persistence across restarts.
type InMemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*models.UserProfile
	turns    map[string][]models.ConversationTurn
	foodLogs map[string][]models.FoodLog
	water    map[string][]models.WaterLog
	nextSeq  int64
	nextID   int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[string]*models.UserProfile),
		turns:    make(map[string][]models.ConversationTurn),
		foodLogs: make(map[string][]models.FoodLog),
		water:    make(map[string][]models.WaterLog),
	}
}

func (s *InMemoryStore) CreateUserIfAbsent(contactKey string) error {
	if contactKey == "" {
		return models.ErrEmptyContactKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[contactKey]; ok {
		return nil
	}
	now := time.Now().UTC()
	s.users[contactKey] = &models.UserProfile{
		ContactKey:      contactKey,
		WaterGoalLiters: models.DefaultWaterGoalLiters,
		CreatedAt:       now,
		LastActive:      now,
	}
	return nil
}

func (s *InMemoryStore) GetUser(contactKey string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[contactKey]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *InMemoryStore) UpdateProfile(contactKey string, upd models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[contactKey]
	if !ok {
		return models.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.DietPreference != nil {
		u.DietPreference = *upd.DietPreference
	}
	if upd.RegionalCuisine != nil {
		u.RegionalCuisine = *upd.RegionalCuisine
	}
	if upd.Allergies != nil {
		u.Allergies = *upd.Allergies
	}
	if upd.HealthGoal != nil {
		u.HealthGoal = *upd.HealthGoal
	}
	if upd.WaterGoalLiters != nil {
		u.WaterGoalLiters = *upd.WaterGoalLiters
	}
	if upd.OnboardingComplete != nil {
		u.OnboardingComplete = *upd.OnboardingComplete
	}
	return nil
}

func (s *InMemoryStore) TouchLastActive(contactKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[contactKey]
	if !ok {
		return models.ErrUserNotFound
	}
	u.LastActive = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) AppendTurn(contactKey string, role models.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.turns[contactKey] = append(s.turns[contactKey], models.ConversationTurn{
		Seq:        s.nextSeq,
		ContactKey: contactKey,
		Role:       role,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

func (s *InMemoryStore) GetRecentTurns(contactKey string, limit int) ([]models.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.turns[contactKey]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]models.ConversationTurn, len(all))
	copy(out, all)
	return out, nil
}

func (s *InMemoryStore) GetOlderTurns(contactKey string, skipRecent, limit int) ([]models.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.turns[contactKey]
	if skipRecent >= len(all) {
		return nil, nil
	}
	older := all[:len(all)-skipRecent]
	if limit > 0 && len(older) > limit {
		older = older[len(older)-limit:]
	}
	out := make([]models.ConversationTurn, len(older))
	copy(out, older)
	return out, nil
}

func (s *InMemoryStore) GetMessageCount(contactKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns[contactKey]), nil
}

func (s *InMemoryStore) AppendFoodLog(log models.FoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	log.ID = s.nextID
	s.foodLogs[log.ContactKey] = append(s.foodLogs[log.ContactKey], log)
	return nil
}

func (s *InMemoryStore) GetTodayFoodLogs(contactKey, date string) ([]models.FoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.FoodLog
	for _, l := range s.foodLogs[contactKey] {
		if l.Date == date {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *InMemoryStore) AppendWaterLog(contactKey string, glasses int, date string) error {
	if glasses < models.MinGlassesPerLog || glasses > models.MaxGlassesPerLog {
		return models.ErrInvalidGlassCount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.water[contactKey] = append(s.water[contactKey], models.WaterLog{
		ID:         s.nextID,
		ContactKey: contactKey,
		Glasses:    glasses,
		Date:       date,
	})
	return nil
}

func (s *InMemoryStore) GetTodayWaterTotal(contactKey, date string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, w := range s.water[contactKey] {
		if w.Date == date {
			total += w.Glasses
		}
	}
	return total, nil
}

func (s *InMemoryStore) GetWeeklyAggregates(contactKey, startDate string) (*models.WeeklyAggregates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agg := &models.WeeklyAggregates{
		MealCounts: make(map[models.MealType]int),
	}
	activeDays := make(map[string]bool)
	for _, l := range s.foodLogs[contactKey] {
		if l.Date < startDate {
			continue
		}
		agg.MealCounts[l.MealType]++
		agg.TotalMeals++
		activeDays[l.Date] = true
		agg.Foods = append(agg.Foods, l)
	}
	agg.ActiveDays = len(activeDays)

	dailyWater := make(map[string]int)
	for _, w := range s.water[contactKey] {
		if w.Date >= startDate {
			dailyWater[w.Date] += w.Glasses
		}
	}
	if len(dailyWater) > 0 {
		total := 0
		for _, g := range dailyWater {
			total += g
		}
		agg.AvgWaterGlasses = float64(total) / float64(len(dailyWater))
	}
	return agg, nil
}

func (s *InMemoryStore) GetAllUsers() ([]models.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserSummary, 0, len(s.users))
	for key, u := range s.users {
		out = append(out, models.UserSummary{
			ContactKey:         key,
			Name:               u.Name,
			DietPreference:     u.DietPreference,
			RegionalCuisine:    u.RegionalCuisine,
			HealthGoal:         u.HealthGoal,
			OnboardingComplete: u.OnboardingComplete,
			LastActive:         u.LastActive,
			TurnCount:          len(s.turns[key]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActive.After(out[j].LastActive)
	})
	return out, nil
}

func (s *InMemoryStore) GetStats(today string) (*models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &models.Stats{TotalUsers: len(s.users)}
	for _, turns := range s.turns {
		stats.TotalTurns += len(turns)
	}
	for _, logs := range s.foodLogs {
		stats.TotalFoodLogs += len(logs)
	}
	for _, u := range s.users {
		if u.LastActive.Format("2006-01-02") == today {
			stats.ActiveToday++
		}
	}
	return stats, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
