package main

import (
	"fmt"
	"os"
	"time"

	"raycompile/internal/db"
	"raycompile/internal/logger"
	"raycompile/internal/metrics"
	"raycompile/internal/model"
	"raycompile/internal/probe"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	probeSubID   string
	probeURL     string
	probeTimeout time.Duration
	probeRetries int
	probeWorkers int
	probeReport  bool
)

var probeCmd = &cobra.Command{
	Use:   "probe [uuid...]",
	Short: "Measure latency of stored profiles through the engine",
	Long: `Starts the engine with the compiled outbounds behind local socks ports and
requests the probe URL through each of them. The time to the first response
header is stored as the profile speed in milliseconds (-1 when unreachable).
Use --report for latency percentiles and tuning hints.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, database := mustLoad()
		defer db.Close(database)
		store := db.NewProfileStore(database)
		ctx := cmd.Context()

		if probeURL != "" {
			cfg.Probe.URL = probeURL
		}
		if probeTimeout > 0 {
			cfg.Probe.Timeout = probeTimeout
		}
		if cmd.Flags().Changed("retries") {
			cfg.Probe.Retries = probeRetries
		}
		if probeWorkers > 0 {
			cfg.Probe.Workers = probeWorkers
		}

		var profiles []model.Profile
		if len(args) == 0 {
			list, err := store.List(ctx, probeSubID)
			if err != nil {
				logger.Log.Fatalf("%v", err)
			}
			profiles = list
		} else {
			for _, id := range args {
				p, err := store.Get(ctx, id)
				if err != nil {
					logger.Log.Fatalf("%v", err)
				}
				profiles = append(profiles, *p)
			}
		}
		if len(profiles) == 0 {
			logger.Log.Warn("Nothing to probe.")
			return
		}

		logger.Log.Infof("🔎 Probing %d profiles via %s...", len(profiles), cfg.Probe.URL)

		bar := progressbar.NewOptions(len(profiles),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("[cyan]Probing...[reset]"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)

		mc := metrics.New()
		prober := probe.New(probe.Config{
			URL:     cfg.Probe.URL,
			Timeout: cfg.Probe.Timeout,
			Retries: cfg.Probe.Retries,
			Workers: cfg.Probe.Workers,
		}, mc)

		alive := 0
		results, err := prober.Run(ctx, profiles, func(r probe.Result) {
			if r.Err == nil {
				alive++
				bar.Describe(fmt.Sprintf("[cyan]Alive: %d[reset]", alive))
			}
			bar.Add(1)
		})
		bar.Finish()
		fmt.Fprintln(os.Stderr)
		if err != nil && results == nil {
			logger.Log.Fatalf("Probe aborted: %v", err)
		}

		for i, r := range results {
			if r.UUID == "" {
				continue
			}
			p := &profiles[i]
			if err := store.SetSpeed(ctx, r.UUID, r.Millis()); err != nil {
				logger.Log.Errorf("%v", err)
			}
			if r.Err != nil {
				logger.Log.Debugf("%s (%s): %v", p.Remark, p.UUID, r.Err)
				fmt.Printf("❌ %s  %s\n", p.UUID, p.Remark)
				continue
			}
			fmt.Printf("✅ %s  %-24s %dms\n", p.UUID, p.Remark, r.Millis())
		}

		if err != nil {
			logger.Log.Fatalf("Probe interrupted after saving finished batches: %v", err)
		}
		logger.Log.Infof("✅ Probe complete. Reachable: %d/%d", alive, len(profiles))
		if probeReport {
			mc.PrintReport(os.Stdout, cfg.Probe.Timeout, cfg.Probe.Retries)
		}
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeSubID, "sub", "", "Only probe profiles of this subscription id")
	probeCmd.Flags().StringVar(&probeURL, "url", "", "Override probe URL")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 0, "Override per-request timeout (e.g. 5s)")
	probeCmd.Flags().IntVar(&probeRetries, "retries", 0, "Override retry count")
	probeCmd.Flags().IntVar(&probeWorkers, "workers", 0, "Override parallel probes per engine batch")
	probeCmd.Flags().BoolVar(&probeReport, "report", false, "Print latency and error report")
	rootCmd.AddCommand(probeCmd)
}
