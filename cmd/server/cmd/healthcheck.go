package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	healthcheckTimeout time.Duration
	healthcheckURL     string
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe a running server's /health endpoint",
	Long: `Call /health and exit non-zero unless the server reports healthy.
Intended for container HEALTHCHECK directives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := healthcheckURL
		if url == "" {
			port := os.Getenv("SERVER_PORT")
			if port == "" {
				port = "8080"
			}
			url = fmt.Sprintf("http://localhost:%s/health", port)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), healthcheckTimeout)
		defer cancel()

		status, err := probeHealth(ctx, http.DefaultClient, url)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", status)
		return nil
	},
}

func init() {
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 5*time.Second, "request timeout")
	healthcheckCmd.Flags().StringVar(&healthcheckURL, "url", "", "health URL (default: http://localhost:$SERVER_PORT/health)")
}

type healthResponse struct {
	Status string `json:"status"`
}

func probeHealth(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("invalid health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "healthy" {
		return body.Status, fmt.Errorf("server unhealthy: status %d (%s)", resp.StatusCode, body.Status)
	}
	return body.Status, nil
}
