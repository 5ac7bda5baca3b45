package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/macromind-app/macromind-cli/internal/session"
)

func (a *App) prompt() string {
	switch st := a.session.State(); st {
	case session.GuestActive:
		return "macromind (guest)> "
	case session.AuthenticatedIncomplete, session.AuthenticatedComplete:
		if u := a.session.User(); u != nil {
			return fmt.Sprintf("macromind (%s)> ", u.Email)
		}
		return "macromind> "
	default:
		return "macromind> "
	}
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to MacroMind (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(a.prompt())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.session.State().HasIdentity() {
				fmt.Println("Available commands: status, open <path>, profile, onboarding, update, refresh, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, guest, status, open <path>, exit")
			}

		case "register":
			a.Register(ctx)

		case "login":
			a.Login(ctx)

		case "guest":
			a.EnterGuest(ctx)

		case "logout":
			a.Logout(ctx)

		case "status":
			a.Status()

		case "open":
			if len(args) != 1 {
				fmt.Println("usage: open <path>  (e.g. open /dashboard)")
				continue
			}
			a.Open(args[0])

		case "profile":
			a.ShowProfile()

		case "onboarding":
			a.RunOnboarding(ctx)

		case "update":
			a.UpdateProfile(ctx)

		case "refresh":
			a.RefreshProfile(ctx)

		case "exit", "quit":
			return

		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (a *App) Status() {
	fmt.Printf("session: %s\n", a.session.State())
	if u := a.session.User(); u != nil {
		fmt.Printf("user: %s (%s)\n", u.Email, u.ID)
		fmt.Printf("onboarding completed: %v\n", a.session.HasCompletedOnboarding())
	}
}
