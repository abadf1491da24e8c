package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"raycompile/internal/config"
	"raycompile/internal/db"
	"raycompile/internal/logger"
	"raycompile/internal/model"
	"raycompile/internal/xray"
	"raycompile/internal/xray/parser"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	flagProfileFile string
	flagFormat      string
	flagFull        bool
	flagStrict      bool
	flagCheck       bool
	flagOut         string
)

var buildCmd = &cobra.Command{
	Use:   "build [uuid|link]",
	Short: "Compile one profile into engine configuration",
	Long: `Compiles a profile into the engine's outbound configuration and prints it.
The profile is taken from --profile (a YAML or JSON file), from a share link
argument, or from the database by uuid. Use --full to emit a complete engine
config with local socks/http inbounds around the outbound.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}
		applyOutputFlags(cmd, cfg)

		profile, err := resolveProfile(cmd.Context(), cfg, args)
		if err != nil {
			logger.Log.Fatalf("Error loading profile: %v", err)
		}

		opts, err := compileOptions(cfg)
		if err != nil {
			logger.Log.Fatalf("%v", err)
		}

		data, err := xray.Compile(profile, opts)
		if err != nil {
			logger.Log.Fatalf("Error compiling profile %s: %v", profile.UUID, err)
		}

		if flagOut == "" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(flagOut, data, 0644); err != nil {
			logger.Log.Fatalf("Error writing %s: %v", flagOut, err)
		}
		logger.Log.Infof("Wrote %s (%s %s)", flagOut, profile.Protocol, profile.Network)
	},
}

// applyOutputFlags lets explicitly set flags win over the config file.
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = flagFormat
	}
	if cmd.Flags().Changed("full") {
		cfg.Output.Full = flagFull
	}
	if cmd.Flags().Changed("strict") {
		cfg.Output.Strict = flagStrict
	}
	if cmd.Flags().Changed("check") {
		cfg.Output.Check = flagCheck
	}
}

func compileOptions(cfg *config.Config) (xray.CompileOptions, error) {
	format, err := xray.ParseFormat(cfg.Output.Format)
	if err != nil {
		return xray.CompileOptions{}, err
	}
	return xray.CompileOptions{
		Options:  xray.Options{Strict: cfg.Output.Strict},
		Format:   format,
		Full:     cfg.Output.Full,
		Document: documentOptions(cfg.Document),
		Check:    cfg.Output.Check,
	}, nil
}

func documentOptions(d config.DocumentConfig) xray.DocumentOptions {
	return xray.DocumentOptions{
		LogLevel:       d.LogLevel,
		Listen:         d.Listen,
		SocksPort:      d.SocksPort,
		HTTPPort:       d.HTTPPort,
		UDP:            d.UDP,
		Sniffing:       d.Sniffing,
		DomainStrategy: d.DomainStrategy,
		BypassPrivate:  d.BypassPrivate,
	}
}

func resolveProfile(ctx context.Context, cfg *config.Config, args []string) (*model.Profile, error) {
	if flagProfileFile != "" {
		return loadProfileFile(flagProfileFile)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("need a uuid, a share link or --profile")
	}

	if strings.Contains(args[0], "://") {
		return parser.Parse(args[0])
	}

	database, err := db.Connect(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close(database)
	return db.NewProfileStore(database).Get(ctx, args[0])
}

// loadProfileFile reads a profile written as YAML or JSON over the defaults.
func loadProfileFile(path string) (*model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	p := model.NewProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}
	return p, nil
}

func init() {
	buildCmd.Flags().StringVarP(&flagProfileFile, "profile", "f", "", "Read the profile from a YAML/JSON file")
	buildCmd.Flags().StringVar(&flagFormat, "format", "json", "Output format: json or yaml")
	buildCmd.Flags().BoolVar(&flagFull, "full", false, "Emit a complete engine config instead of a single outbound")
	buildCmd.Flags().BoolVar(&flagStrict, "strict", false, "Fail on unknown protocol or network")
	buildCmd.Flags().BoolVar(&flagCheck, "check", false, "Validate with the engine's config builder before printing")
	buildCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(buildCmd)
}
