package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"matrixadmin.app/panel/internal/panel/session"
)

// terminalNavigator is the CLI's stand-in for the web panel's router: a
// route change just gets printed.
type terminalNavigator struct{}

func (terminalNavigator) NavigateTo(route string) {
	fmt.Printf("-> %s\n", route)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Print the login URL to open in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Open %s/auth/login in your browser, then pass the issued\n", serverURL)
		fmt.Println("session ID via --session or the PANEL_SESSION environment variable.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and revoke the session everywhere",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := session.NewStore(apiClient, slog.Default())
		store.Set(&session.Session{ID: sessionID})
		coordinator := session.NewCoordinator(store, terminalNavigator{})
		defer coordinator.Stop()

		store.SignOut(context.Background())
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := apiClient.Me(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			data, err := json.MarshalIndent(user, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
		return nil
	},
}

var membershipCmd = &cobra.Command{
	Use:   "membership",
	Short: "Show the signed-in user's access predicates",
	RunE: func(cmd *cobra.Command, args []string) error {
		membership, err := apiClient.Membership(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			data, err := json.MarshalIndent(membership, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Matrix owner:     %v\n", membership.MatrixOwner)
		fmt.Printf("Member of an org: %v\n", membership.MemberOfAny)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow auth events until the session is revoked",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		store := session.NewStore(apiClient, slog.Default())
		store.Set(&session.Session{ID: sessionID})
		coordinator := session.NewCoordinator(store, terminalNavigator{})
		defer coordinator.Stop()

		events, err := apiClient.StreamAuthEvents(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Watching auth events (ctrl-c to stop)...")
		for evt := range events {
			fmt.Printf("%s  %s (session %d)\n", evt.At.Format("15:04:05"), evt.Type, evt.SessionID)
			store.ApplyAuthEvent(evt)
			if store.Current() == nil {
				fmt.Println("Session revoked, exiting.")
				return nil
			}
		}

		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintln(os.Stderr, "event stream closed by server")
		return nil
	},
}
