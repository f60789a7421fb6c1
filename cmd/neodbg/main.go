// Command neodbg is a thin interactive front-end over pkg/debugger: it
// loads a compiled contract, steps or runs it against a simulated chain,
// and reports gas and stack state. It is an external collaborator over the
// debugger façade, not part of the core engine.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/dbgconfig"
	"github.com/phetter/neo-debugger-tools/pkg/profiler"
)

func main() {
	configPath := flag.String("config", "", "path to a dbgconfig YAML file")
	verbose := flag.Bool("v", false, "enable debug logging")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics at this address (e.g. :9090)")
	flag.Parse()

	var cfg *dbgconfig.Config
	var err error
	if *configPath != "" {
		cfg, err = dbgconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		cfg = dbgconfig.Default()
	}

	var logger *zap.Logger
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cli := NewDebugCLI(cfg, logger)

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(profiler.NewCollector(cli.dm.Profiler()))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	if err := cli.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
