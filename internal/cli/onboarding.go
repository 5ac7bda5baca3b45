package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/macromind-app/macromind-cli/internal/models"
)

// RunOnboarding walks the onboarding questions and submits the answers. The
// session store accepts the result only if the server confirms completion.
func (a *App) RunOnboarding(ctx context.Context) {
	goal, err := GetSimpleText(a.reader, "Fitness goal (cut/bulk/maintain)", os.Stdout)
	if err != nil {
		fmt.Printf("input error: %v\n", err)
		return
	}
	g := models.FitnessGoal(goal)
	if !g.Valid() {
		fmt.Printf("unknown goal %q\n", goal)
		return
	}

	diet, err := GetSimpleText(a.reader, "Dietary preference (none/halal/vegan/vegetarian)", os.Stdout)
	if err != nil {
		fmt.Printf("input error: %v\n", err)
		return
	}
	d := models.DietaryPreference(diet)
	if !d.Valid() {
		fmt.Printf("unknown preference %q\n", diet)
		return
	}

	data := models.OnboardingData{FitnessGoal: g, DietaryPreference: d}

	if cal, err := GetOptionalText(a.reader, "Daily calorie target", os.Stdout); err == nil && cal != nil {
		n, convErr := strconv.Atoi(*cal)
		if convErr != nil {
			fmt.Printf("not a number: %q\n", *cal)
			return
		}
		data.DailyCalories = &n
	}
	if v, err := GetOptionalText(a.reader, "Activity level", os.Stdout); err == nil {
		data.ActivityLevel = v
	}
	if v, err := GetOptionalText(a.reader, "Biggest struggle", os.Stdout); err == nil {
		data.BiggestStruggle = v
	}
	if v, err := GetOptionalText(a.reader, "What motivates you?", os.Stdout); err == nil {
		data.MotivationText = v
	}

	if _, err := a.session.CompleteOnboarding(ctx, data); err != nil {
		fmt.Printf("onboarding failed: %v\n", err)
		return
	}
	fmt.Println("onboarding complete, welcome aboard")
	a.Open("/dashboard")
}
