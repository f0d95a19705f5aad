// Command panel is a terminal client for the matrix admin server. It drives
// the same session store, list view and creation wizard the web panel uses.
package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"matrixadmin.app/panel/internal/panel/api"
)

var (
	serverURL  string
	sessionID  int64
	jsonOutput bool

	apiClient *api.Client
)

func defaultServerURL() string {
	if s := os.Getenv("PANEL_SERVER_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func defaultSessionID() int64 {
	raw := os.Getenv("PANEL_SESSION")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

var rootCmd = &cobra.Command{
	Use:   "panel <command>",
	Short: "CLI client for the matrix admin panel",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apiClient = api.NewClient(serverURL)
		if sessionID != 0 {
			apiClient.SetSession(sessionID)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "admin server URL")
	rootCmd.PersistentFlags().Int64Var(&sessionID, "session", defaultSessionID(), "session ID to authenticate with")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(membershipCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(companiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
