// Package models defines the data types exchanged with the MacroMind auth
// service and cached locally by the client.
package models

// FitnessGoal is one of the goal options offered during onboarding.
type FitnessGoal string

const (
	GoalCut      FitnessGoal = "cut"
	GoalBulk     FitnessGoal = "bulk"
	GoalMaintain FitnessGoal = "maintain"
)

// Valid reports whether g is one of the known goal values.
func (g FitnessGoal) Valid() bool {
	switch g {
	case GoalCut, GoalBulk, GoalMaintain:
		return true
	}
	return false
}

// DietaryPreference is one of the dietary options offered during onboarding.
type DietaryPreference string

const (
	DietNone       DietaryPreference = "none"
	DietHalal      DietaryPreference = "halal"
	DietVegan      DietaryPreference = "vegan"
	DietVegetarian DietaryPreference = "vegetarian"
)

// Valid reports whether d is one of the known dietary values.
func (d DietaryPreference) Valid() bool {
	switch d {
	case DietNone, DietHalal, DietVegan, DietVegetarian:
		return true
	}
	return false
}

// Profile is the server-owned user profile. HasCompletedOnboarding is the
// single authoritative completion flag: a missing or null field unmarshals
// to false, which is exactly the "not completed" reading the gate requires.
type Profile struct {
	FitnessGoal            FitnessGoal       `json:"fitness_goal"`
	DietaryPreference      DietaryPreference `json:"dietary_preference"`
	DailyCalories          *int              `json:"daily_calories"`
	HasCompletedOnboarding bool              `json:"has_completed_onboarding"`

	// Free-form onboarding attributes. All optional.
	CurrentWeight            *float64 `json:"current_weight,omitempty"`
	GoalWeight               *float64 `json:"goal_weight,omitempty"`
	Height                   *float64 `json:"height,omitempty"`
	AgeRange                 *string  `json:"age_range,omitempty"`
	MainGoal                 *string  `json:"main_goal,omitempty"`
	SeriousnessScore         *int     `json:"seriousness_score,omitempty"`
	DislikedFoods            *string  `json:"disliked_foods,omitempty"`
	MealsPerDay              *int     `json:"meals_per_day,omitempty"`
	SnackingFrequency        *string  `json:"snacking_frequency,omitempty"`
	ActivityLevel            *string  `json:"activity_level,omitempty"`
	PreferredWorkoutLocation *string  `json:"preferred_workout_location,omitempty"`
	EnjoyedMovementTypes     *string  `json:"enjoyed_movement_types,omitempty"`
	CurrentMentalState       *string  `json:"current_mental_state,omitempty"`
	BiggestStruggle          *string  `json:"biggest_struggle,omitempty"`
	SleepQuality             *string  `json:"sleep_quality,omitempty"`
	MotivationText           *string  `json:"motivation_text,omitempty"`
	FearText                 *string  `json:"fear_text,omitempty"`
}

// User is the account snapshot returned by GET /api/auth/me. The session
// store replaces the whole value on every successful fetch; nothing mutates
// a User in place.
type User struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Profile Profile `json:"profile"`
}

// TokenPair is an opaque bearer credential pair. Lifetimes are owned by the
// server; the client never decodes either token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProfileUpdate is a partial profile change for PUT /api/auth/profile.
// Nil fields are omitted and left untouched server-side.
type ProfileUpdate struct {
	FitnessGoal       *FitnessGoal       `json:"fitness_goal,omitempty"`
	DietaryPreference *DietaryPreference `json:"dietary_preference,omitempty"`
	DailyCalories     *int               `json:"daily_calories,omitempty"`
}

// OnboardingData carries the answers submitted at the end of the onboarding
// wizard. The server echoes the resulting profile with the completion flag
// set; the client never sets the flag itself.
type OnboardingData struct {
	FitnessGoal              FitnessGoal       `json:"fitness_goal"`
	DietaryPreference        DietaryPreference `json:"dietary_preference"`
	DailyCalories            *int              `json:"daily_calories,omitempty"`
	CurrentWeight            *float64          `json:"current_weight,omitempty"`
	GoalWeight               *float64          `json:"goal_weight,omitempty"`
	Height                   *float64          `json:"height,omitempty"`
	AgeRange                 *string           `json:"age_range,omitempty"`
	MainGoal                 *string           `json:"main_goal,omitempty"`
	SeriousnessScore         *int              `json:"seriousness_score,omitempty"`
	DislikedFoods            *string           `json:"disliked_foods,omitempty"`
	MealsPerDay              *int              `json:"meals_per_day,omitempty"`
	SnackingFrequency        *string           `json:"snacking_frequency,omitempty"`
	ActivityLevel            *string           `json:"activity_level,omitempty"`
	PreferredWorkoutLocation *string           `json:"preferred_workout_location,omitempty"`
	EnjoyedMovementTypes     *string           `json:"enjoyed_movement_types,omitempty"`
	CurrentMentalState       *string           `json:"current_mental_state,omitempty"`
	BiggestStruggle          *string           `json:"biggest_struggle,omitempty"`
	SleepQuality             *string           `json:"sleep_quality,omitempty"`
	MotivationText           *string           `json:"motivation_text,omitempty"`
	FearText                 *string           `json:"fear_text,omitempty"`
}

// GuestUser returns the fixed synthetic identity used for guest mode.
// It never comes from, and never goes to, the server.
func GuestUser() *User {
	calories := 2200
	return &User{
		ID:    "guest",
		Email: "guest@macromind.local",
		Profile: Profile{
			FitnessGoal:            GoalMaintain,
			DietaryPreference:      DietNone,
			DailyCalories:          &calories,
			HasCompletedOnboarding: false,
		},
	}
}
