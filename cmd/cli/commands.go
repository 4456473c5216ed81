package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(courtsCmd)
	rootCmd.AddCommand(waitingCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health")
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sessions")
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [session-id]",
	Short: "Show the summary for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sessions/"+args[0]+"/summary")
	},
}

var courtsCmd = &cobra.Command{
	Use:   "courts [session-id]",
	Short: "Show the court assignments for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sessions/"+args[0]+"/courts")
	},
}

var waitingCmd = &cobra.Command{
	Use:   "waiting [session-id]",
	Short: "Show the waiting players for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sessions/"+args[0]+"/waiting")
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate [session-id]",
	Short: "Suggest next matches for a session's empty courts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/sessions/"+args[0]+"/next-matches")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics")
	},
}

func performRequest(method, endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(method, url, strings.NewReader(""))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
