package main

import (
	"os"
	"strconv"

	"raycompile/internal/collectors"
	"raycompile/internal/config"
	"raycompile/internal/db"
	"raycompile/internal/logger"
	"raycompile/internal/xray/parser"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	importFile       string
	importURL        string
	importSubID      string
	importCollectors []string
	importParams     map[string]string
)

type sourcedLink struct {
	link  string
	subid string
}

var importCmd = &cobra.Command{
	Use:   "import [links...]",
	Short: "Import share links into the profile database",
	Long: `Parses share links (vmess, vless, trojan, ss, socks) and stores them as
profiles. Links come from arguments, --file, --url, or the collectors defined
in config (select them with --collector). Profiles pointing at an endpoint
that is already stored are updated in place.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, database := mustLoad()
		defer db.Close(database)
		store := db.NewProfileStore(database)
		ctx := cmd.Context()

		var sources []config.CollectorConfig
		if importFile != "" {
			sources = append(sources, config.CollectorConfig{
				Name: "file", Type: "file", SubID: importSubID,
				Params: map[string]interface{}{"path": importFile},
			})
		}
		if importURL != "" {
			sources = append(sources, config.CollectorConfig{
				Name: "url", Type: "http", SubID: importSubID,
				Params: map[string]interface{}{"url": importURL},
			})
		}
		if len(importCollectors) > 0 {
			cfg.FilterCollectors(importCollectors)
			sources = append(sources, cfg.Collectors...)
		}

		var links []sourcedLink
		for _, l := range args {
			links = append(links, sourcedLink{link: l, subid: importSubID})
		}

		for _, src := range sources {
			for k, v := range importParams {
				if intVal, err := strconv.Atoi(v); err == nil {
					src.Params[k] = intVal
				} else {
					src.Params[k] = v
				}
			}

			plugin, err := collectors.Get(src.Type)
			if err != nil {
				logger.Log.Warnf("Plugin not found: %v", err)
				continue
			}

			logger.Log.Infof("Running collector: %s (%s)...", src.Name, src.Type)
			found, err := plugin.Collect(ctx, src.Params)
			if err != nil {
				logger.Log.Errorf("Collector %s failed: %v", src.Name, err)
				continue
			}
			logger.Log.Infof("Collector %s returned %d links", src.Name, len(found))

			subid := src.SubID
			if subid == "" {
				subid = importSubID
			}
			for _, l := range found {
				links = append(links, sourcedLink{link: l, subid: subid})
			}
		}

		if len(links) == 0 {
			logger.Log.Warn("Nothing to import.")
			return
		}

		bar := progressbar.NewOptions(len(links),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("[cyan]Importing...[reset]"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)

		var created, updated, invalid int
		for _, sl := range links {
			bar.Add(1)

			p, err := parser.Parse(sl.link)
			if err != nil {
				invalid++
				logger.Log.Debugf("Skipping invalid link: %v", err)
				continue
			}
			p.SubID = sl.subid

			isNew, err := store.Import(ctx, p)
			if err != nil {
				logger.Log.Errorf("Failed to store %s: %v", p.Remark, err)
				continue
			}
			if isNew {
				created++
			} else {
				updated++
			}
		}
		bar.Finish()

		logger.Log.Infof("Import done: %d new, %d updated, %d invalid", created, updated, invalid)
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "Read links from a file (plain or base64 subscription)")
	importCmd.Flags().StringVar(&importURL, "url", "", "Fetch links from a subscription URL")
	importCmd.Flags().StringVar(&importSubID, "sub", "", "Subscription id to tag imported profiles with")
	importCmd.Flags().StringSliceVarP(&importCollectors, "collector", "c", nil, "Run collectors from config by name")
	importCmd.Flags().StringToStringVarP(&importParams, "param", "p", nil, "Override collector params (e.g. -p limit=100)")
	rootCmd.AddCommand(importCmd)
}
