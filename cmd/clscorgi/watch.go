package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/clscor/clscorgi/catalog"
)

func watchCmd(flags *globalFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload vocabularies on change and serve lookups and metrics",
		Long: `Watch the configured vocabulary files and reload the catalog when they
change. A reload that fails keeps the previous catalog.

With --metrics-addr, serves:
  /metrics   Prometheus metrics
  /term      GET ?vocab=<name>&label=<label> returns the concept URI
  /healthz   catalog generation and load time`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if metricsAddr == "" {
				metricsAddr = a.cfg.Metrics.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics, err := catalog.NewMetrics(reg)
			if err != nil {
				return err
			}

			loader := a.loader(catalog.WithLoaderMetrics(metrics))
			initial, err := loader.Load(ctx)
			if err != nil {
				return err
			}
			live := catalog.NewLive(initial)

			w, err := catalog.NewWatcher(catalog.WatcherConfig{
				Loader:   loader,
				Live:     live,
				Debounce: a.cfg.Watch.Debounce,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           newMux(live, reg),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					a.logger.Info("Serving metrics", "addr", metricsAddr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error("HTTP server failed", "error", err)
						cancel()
					}
				}()
				defer func() {
					shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
					defer done()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Listen address for /metrics and /term (default metrics.addr)")
	return cmd
}

type termResponse struct {
	Vocabulary string `json:"vocabulary"`
	Label      string `json:"label"`
	URI        string `json:"uri,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newMux(live *catalog.Live, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		c := live.Current()
		concepts := make(map[string]int, len(c.Names()))
		for _, name := range c.Names() {
			if reg, err := c.Registry(name); err == nil {
				concepts[name] = reg.Len()
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"generation":   c.Generation(),
			"loaded_at":    c.LoadedAt(),
			"vocabularies": c.Names(),
			"concepts":     concepts,
		})
	})

	mux.HandleFunc("GET /term", func(w http.ResponseWriter, r *http.Request) {
		resp := termResponse{
			Vocabulary: r.URL.Query().Get("vocab"),
			Label:      r.URL.Query().Get("label"),
		}
		uri, err := live.Current().Term(resp.Vocabulary, resp.Label)
		if err != nil {
			resp.Error = err.Error()
			status := http.StatusNotFound
			if errors.Is(err, catalog.ErrAmbiguousTerm) {
				status = http.StatusConflict
			}
			writeJSON(w, status, resp)
			return
		}
		resp.URI = uri
		writeJSON(w, http.StatusOK, resp)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
