package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"gopunch/config"
	"gopunch/web"

	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveMonth  string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start local read-only JSON API over arranged punch records",
	Long: `Start a local HTTP server exposing arranged records, monthly label counts, per-employee
summaries and the configured schedules as JSON.

Reads arrange in dry-run mode. Only POST /api/arrange writes labels.

Endpoints:
- GET  /api/records?from=YYYY-MM-DD&to=YYYY-MM-DD&employee=ID
- GET  /api/records/{employee}/{date}
- GET  /api/month/{YYYY-MM}?employee=ID
- GET  /api/summary?from=YYYY-MM-DD&to=YYYY-MM-DD&employee=ID
- GET  /api/schedules
- POST /api/arrange  {"from":"","to":"","employees":[],"dryRun":false}`,
	Example: `
  # Start local server on default port
  gopunch serve

  # Start on another port, opening March 2026
  gopunch serve --port 9090 --month 2026-03
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		defaultMonth, err := resolveServeMonth(serveMonth, time.Now())
		if err != nil {
			return err
		}

		opts, err := cfg.ArrangeOptions()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		opts.Logger = logger

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		addr := fmt.Sprintf("127.0.0.1:%d", servePort)
		server := &http.Server{
			Addr:              addr,
			Handler:           withServeMonthRedirect(web.NewServer(store, *cfg, opts), defaultMonth),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", servePort)
		fmt.Printf("Listening on %s\n", listenURL)
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL + "/api/month/" + defaultMonth); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local server")
	serveCmd.Flags().StringVar(&serveMonth, "month", "", "Month opened at / (format YYYY-MM, default current month)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func resolveServeMonth(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.Format("2006-01"), nil
	}
	parsed, err := time.ParseInLocation("2006-01", value, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid --month value %q (expected YYYY-MM)", value)
	}
	return parsed.Format("2006-01"), nil
}

func withServeMonthRedirect(next http.Handler, month string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" && month != "" {
			http.Redirect(w, r, "/api/month/"+month, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
