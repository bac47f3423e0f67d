package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/cuemby/dynakv/pkg/log"
	"github.com/cuemby/dynakv/pkg/metrics"
)

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Serve Prometheus metrics over HTTP until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("listen")
		log.WithComponent("metrics").Info().Str("addr", addr).Msg("serving metrics")
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		return http.ListenAndServe(addr, mux)
	},
}

func init() {
	serveMetricsCmd.Flags().String("listen", ":9090", "Address to serve /metrics on")
}
