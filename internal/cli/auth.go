package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Printf("input error: %v\n", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("input error: %v\n", err)
		return
	}

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		fmt.Printf("login failed: %v\n", err)
		return
	}
	fmt.Printf("signed in as %s\n", user.Email)
	a.Open("/dashboard")
}

func (a *App) Register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Printf("input error: %v\n", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("input error: %v\n", err)
		return
	}

	user, err := a.session.Register(ctx, email, password)
	if err != nil {
		fmt.Printf("registration failed: %v\n", err)
		return
	}
	fmt.Printf("account created for %s\n", user.Email)
	a.Open("/dashboard")
}

func (a *App) EnterGuest(ctx context.Context) {
	if err := a.session.EnterGuest(ctx); err != nil {
		fmt.Printf("could not enter guest mode: %v\n", err)
		return
	}
	fmt.Println("browsing as guest; register to save your data")
}

func (a *App) Logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Printf("logout finished with a storage error: %v\n", err)
		return
	}
	fmt.Println("logged out")
}
