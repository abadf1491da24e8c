package main

import (
	"fmt"
	"os"

	"raycompile/internal/db"
	"raycompile/internal/logger"
	"raycompile/internal/model"
	"raycompile/internal/xray"

	"github.com/spf13/cobra"
)

var checkSubID string

var checkCmd = &cobra.Command{
	Use:   "check [uuid...]",
	Short: "Validate stored profiles against the engine's config builder",
	Long: `Compiles every stored profile (or only the given uuids) in strict mode and
builds the result with the engine's own configuration loader. Profiles using
transports the engine has removed are reported as failures.`,
	Run: func(cmd *cobra.Command, args []string) {
		_, database := mustLoad()
		defer db.Close(database)
		store := db.NewProfileStore(database)
		ctx := cmd.Context()

		var profiles []model.Profile
		if len(args) == 0 {
			list, err := store.List(ctx, checkSubID)
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

		assembler := xray.NewAssembler(xray.Options{Strict: true})
		failed := 0
		for i := range profiles {
			p := &profiles[i]
			out, err := assembler.Assemble(p)
			if err == nil {
				err = xray.Check(out)
			}
			if err != nil {
				failed++
				fmt.Printf("❌ %s  %-24s %v\n", p.UUID, p.Remark, err)
				continue
			}
			fmt.Printf("✅ %s  %s\n", p.UUID, p.Remark)
		}

		logger.Log.Infof("Checked %d profiles, %d failed", len(profiles), failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkSubID, "sub", "", "Only check profiles of this subscription id")
	rootCmd.AddCommand(checkCmd)
}
