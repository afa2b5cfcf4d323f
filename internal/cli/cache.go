package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/httputil"
	"github.com/matzehuels/orbit/pkg/space"
)

// DefaultServerURL is where `orbit cache` looks for a running `orbit serve`.
const DefaultServerURL = "http://localhost:8080"

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cache of a running server",
		Long: `Inspect or clear the response cache of a running "orbit serve".

One-shot commands keep their cache in memory and discard it on exit, so
only a server has a cache worth managing.`,
	}
	cmd.PersistentFlags().StringVar(&serverURL, "server", DefaultServerURL, "base URL of the orbit server")

	cmd.AddCommand(c.cacheStatsCommand(&serverURL))
	cmd.AddCommand(c.cacheClearCommand(&serverURL))

	return cmd
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached entries and their freshness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var stats space.Stats
			if err := c.callServer(cmd.Context(), http.MethodGet, *serverURL, &stats); err != nil {
				return err
			}
			return c.emit(stats, func() {
				if stats.Entries == 0 {
					printInfo("Cache is empty")
					return
				}
				printTitle("Cache", *serverURL)
				printFreshness(stats.Fresh, stats.Stale, stats.DefaultTTL)
				for _, k := range stats.Keys {
					printDetail("%s", k)
				}
			})
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				Removed int `json:"removed"`
			}
			if err := c.callServer(cmd.Context(), http.MethodDelete, *serverURL, &resp); err != nil {
				return err
			}
			return c.emit(resp, func() {
				if resp.Removed == 0 {
					printInfo("Cache is empty")
					return
				}
				printSuccess("Cleared %d cached entries", resp.Removed)
			})
		},
	}
}

// callServer sends method to the server's /v1/cache endpoint and decodes
// the JSON answer into out.
func (c *CLI) callServer(ctx context.Context, method, serverURL string, out any) error {
	url := strings.TrimRight(serverURL, "/") + "/v1/cache"
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "server URL %q", serverURL)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.NewHTTPClient(10 * time.Second).Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransport, err, "is `orbit serve` running at %s?", serverURL)
	}
	defer resp.Body.Close()

	c.Logger.Debug("cache request", "method", method, "url", url, "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return &errors.HTTPStatusError{Status: resp.StatusCode, URL: url}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "decode %s", url)
	}
	return nil
}
