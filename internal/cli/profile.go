package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/macromind-app/macromind-cli/internal/access"
	"github.com/macromind-app/macromind-cli/internal/models"
)

// Open runs the access gate for a path and reports its decision, following
// redirects the way the router would.
func (a *App) Open(path string) {
	decision := access.DecidePath(a.session.State(), path)
	switch decision.Kind {
	case access.Allow:
		fmt.Printf("%s: ok\n", path)
	case access.Wait:
		fmt.Printf("%s: session still loading, try again\n", path)
	case access.Redirect:
		fmt.Printf("%s: -> %s\n", path, decision.Target)
	}
}

func (a *App) ShowProfile() {
	u := a.session.User()
	if u == nil {
		fmt.Println("no active user")
		return
	}
	p := u.Profile
	fmt.Printf("email:              %s\n", u.Email)
	fmt.Printf("fitness goal:       %s\n", p.FitnessGoal)
	fmt.Printf("dietary preference: %s\n", p.DietaryPreference)
	if p.DailyCalories != nil {
		fmt.Printf("daily calories:     %d\n", *p.DailyCalories)
	}
	fmt.Printf("onboarding done:    %v\n", p.HasCompletedOnboarding)
}

func (a *App) RefreshProfile(ctx context.Context) {
	user, err := a.session.RefreshUserProfile(ctx)
	if err != nil {
		fmt.Printf("refresh failed: %v\n", err)
		return
	}
	if user == nil {
		fmt.Println("nothing to refresh")
		return
	}
	fmt.Println("profile refreshed")
}

func (a *App) UpdateProfile(ctx context.Context) {
	update := models.ProfileUpdate{}

	if goal, err := GetOptionalText(a.reader, "Fitness goal (cut/bulk/maintain)", os.Stdout); err == nil && goal != nil {
		g := models.FitnessGoal(*goal)
		if !g.Valid() {
			fmt.Printf("unknown goal %q\n", *goal)
			return
		}
		update.FitnessGoal = &g
	}
	if diet, err := GetOptionalText(a.reader, "Dietary preference (none/halal/vegan/vegetarian)", os.Stdout); err == nil && diet != nil {
		d := models.DietaryPreference(*diet)
		if !d.Valid() {
			fmt.Printf("unknown preference %q\n", *diet)
			return
		}
		update.DietaryPreference = &d
	}
	if cal, err := GetOptionalText(a.reader, "Daily calories", os.Stdout); err == nil && cal != nil {
		n, convErr := strconv.Atoi(*cal)
		if convErr != nil {
			fmt.Printf("not a number: %q\n", *cal)
			return
		}
		update.DailyCalories = &n
	}

	if _, err := a.session.UpdateProfile(ctx, update); err != nil {
		fmt.Printf("update failed: %v\n", err)
		return
	}
	fmt.Println("profile updated")
}
