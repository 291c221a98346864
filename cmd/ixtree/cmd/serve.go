package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ssargent/ixtree/pkg/driver"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve /healthz and Prometheus /metrics for this tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, store, err := treeFromContext(cmd)
		if err != nil {
			return err
		}

		if dsn := os.Getenv("IXTREE_SENTRY_DSN"); dsn != "" {
			if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
				fmt.Fprintf(os.Stderr, "warning: sentry init failed: %v\n", err)
			} else {
				defer sentry.Flush(2 * time.Second)
				defer sentry.Recover()
			}
		}

		rec, err := recorderFromContext(cmd)
		if err != nil {
			return err
		}
		rec.SetRootOffset(tree.Root)

		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			_, err := driver.RunInstrumented(r.Context(), store, tree.Last(), rec, "healthz_last")
			if err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, "unhealthy: %v\n", err)
				return
			}
			height, err := driver.RunInstrumented(r.Context(), store, tree.Height(), rec, "height")
			if err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, "unhealthy: %v\n", err)
				return
			}
			rec.SetTreeHeight(height)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "ok")
		})
		mux.Handle("/metrics", promhttp.Handler())

		addr := fmt.Sprintf(":%d", servePort)
		fmt.Printf("ixtree serving %s on %s\n", dataFile, addr)
		return listenAndServe(addr, mux)
	},
}

// listenAndServe is split out so it can be swapped in tests without
// actually binding a port.
var listenAndServe = func(addr string, handler http.Handler) error {
	return http.ListenAndServe(addr, handler)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on")
}
