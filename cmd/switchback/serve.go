package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/xy-planning-network/switchback/app"
)

func serveCmd(f *flags) *cobra.Command {
	var metricsPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long:  `Run the web server until it receives an interrupt or termination signal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			opts := append(f.options(),
				app.WithContext(cmd.Context()),
				app.WithMetrics(reg, metricsPath),
			)

			a, err := app.New(opts...)
			if err != nil {
				return err
			}

			return a.Guide()
		},
	}

	cmd.Flags().StringVar(&metricsPath, "metrics", "/metrics", "path metrics are served over; empty disables them")

	return cmd
}
