package main

import (
	"strconv"

	"raycompile/internal/config"
	"raycompile/internal/db"
	"raycompile/internal/logger"
	"raycompile/internal/publishers"

	"github.com/spf13/cobra"
)

var (
	exportParams map[string]string
	exportBase64 bool
)

var exportCmd = &cobra.Command{
	Use:   "export [publisher_names...]",
	Short: "Publish stored profiles as a subscription",
	Long: `Runs the publishers defined in config (all, or only the named ones) over the
stored profiles. Without any configured publisher the subscription is printed
to stdout. Use --param to override publisher configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, database := mustLoad()
		defer db.Close(database)
		store := db.NewProfileStore(database)
		ctx := cmd.Context()

		if len(args) > 0 {
			cfg.FilterPublishers(args)
		}
		if len(cfg.Publishers) == 0 {
			if len(args) > 0 {
				logger.Log.Warn("No publishers matched.")
				return
			}
			cfg.Publishers = []config.PublisherConfig{{
				Name: "stdout", Type: "stdout", Params: map[string]interface{}{},
			}}
		}

		for _, pubCfg := range cfg.Publishers {
			if cmd.Flags().Changed("base64") {
				pubCfg.Params["base64"] = exportBase64
			}
			for k, v := range exportParams {
				if intVal, err := strconv.Atoi(v); err == nil {
					pubCfg.Params[k] = intVal
				} else {
					pubCfg.Params[k] = v
				}
			}

			plugin, err := publishers.Get(pubCfg.Type)
			if err != nil {
				logger.Log.Warnf("Plugin not found: %v", err)
				continue
			}

			profiles, err := store.List(ctx, pubCfg.SubID)
			if err != nil {
				logger.Log.Fatalf("%v", err)
			}

			logger.Log.Infof("Running publisher: %s (%s), %d profiles...", pubCfg.Name, pubCfg.Type, len(profiles))
			if err := plugin.Publish(ctx, profiles, pubCfg.Params); err != nil {
				logger.Log.Errorf("Publish failed: %v", err)
				continue
			}
			logger.Log.Info("Published successfully.")
		}
	},
}

func init() {
	exportCmd.Flags().StringToStringVarP(&exportParams, "param", "p", nil, "Override publisher params (e.g. -p path=sub.txt)")
	exportCmd.Flags().BoolVar(&exportBase64, "base64", false, "Base64 encode the subscription")
	rootCmd.AddCommand(exportCmd)
}
