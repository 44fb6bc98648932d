package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"driver-manager/core/config"
	"driver-manager/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

var (
	clearCache bool
	serverURL  string
)

// cacheCmd inspects or clears the driver caches of a running server.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the driver caches of a running server",
	Long: `Queries the pending-update cache of a running driver-manager server.
With --clear the catalog and pending-update caches are dropped so the next
check fetches both again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		base := serverURL
		if base == "" {
			base = "http://127.0.0.1:" + cfg.Server.Port
		}

		body, err := cacheRequest(base, cfg.Server.ApiKey, clearCache)
		if err != nil {
			return err
		}

		var out bytes.Buffer
		if err := json.Indent(&out, body, "", "  "); err != nil {
			out.Reset()
			out.Write(body)
		}
		out.WriteByte('\n')
		_, err = out.WriteTo(os.Stdout)
		return err
	},
}

func init() {
	cacheCmd.Flags().BoolVar(&clearCache, "clear", false, "Clear the catalog and pending-update caches")
	cacheCmd.Flags().StringVar(&serverURL, "url", "", "Server base URL (default http://127.0.0.1:<server.port>)")
	RootCmd.AddCommand(cacheCmd)
}

// cacheRequest calls the cache endpoint of the server at base and returns the response body.
func cacheRequest(base, apiKey string, invalidate bool) ([]byte, error) {
	url := strings.TrimRight(base, "/") + "/drivers/cache"

	var agent *fiber.Agent
	if invalidate {
		agent = fiber.Delete(url)
	} else {
		agent = fiber.Get(url)
	}
	agent.Timeout(10 * time.Second)
	if apiKey != "" {
		agent.Set(auth.Header, apiKey)
	}

	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", base, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to reach server: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", code, strings.TrimSpace(string(body)))
	}
	return body, nil
}
