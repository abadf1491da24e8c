package main

import (
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"raycompile/internal/db"
	"raycompile/internal/geoip"
	"raycompile/internal/logger"

	"github.com/spf13/cobra"
)

var (
	listSubID string
	listGeo   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Long:  `Prints stored profiles in sort order, followed by a protocol/transport breakdown. With --geo, IP addresses are annotated with their country from the configured GeoIP database.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, database := mustLoad()
		defer db.Close(database)

		profiles, err := db.NewProfileStore(database).List(cmd.Context(), listSubID)
		if err != nil {
			logger.Log.Fatalf("%v", err)
		}

		var resolver *geoip.Resolver
		if listGeo {
			resolver, err = geoip.Open(cfg.GeoIP.CountryPath)
			if err != nil {
				logger.Log.Warnf("%v. Country column will be empty.", err)
			}
			defer resolver.Close()
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		header := "#\tUUID\tREMARK\tPROTOCOL\tENDPOINT\tNETWORK\tSECURITY\tSPEED"
		if listGeo {
			header += "\tCOUNTRY"
		}
		fmt.Fprintln(w, header)

		protoCounts := make(map[string]int)
		for _, p := range profiles {
			speed := "-"
			if p.Measured() {
				speed = strconv.Itoa(p.Speed) + "ms"
			}
			line := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s",
				p.Sort, p.UUID, p.Remark, p.Protocol,
				net.JoinHostPort(p.Address, strconv.Itoa(p.Port)),
				p.Network, p.Security, speed)
			if listGeo {
				code := resolver.Country(p.Address)
				line += fmt.Sprintf("\t%s %s", geoip.FlagEmoji(code), code)
			}
			fmt.Fprintln(w, line)
			protoCounts[fmt.Sprintf("%s/%s", p.Protocol, p.Network)]++
		}
		w.Flush()

		if len(protoCounts) == 0 {
			fmt.Println("(no profiles)")
			return
		}

		keys := make([]string, 0, len(protoCounts))
		for k := range protoCounts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s:\t%d\n", k, protoCounts[k])
		}
		fmt.Fprintf(w, "  total:\t%d\n", len(profiles))
		w.Flush()
	},
}

var removeCmd = &cobra.Command{
	Use:   "rm uuid...",
	Short: "Delete stored profiles",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, database := mustLoad()
		defer db.Close(database)
		store := db.NewProfileStore(database)

		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				logger.Log.Errorf("%v", err)
				continue
			}
			logger.Log.Infof("Deleted %s", id)
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listSubID, "sub", "", "Only list profiles of this subscription id")
	listCmd.Flags().BoolVar(&listGeo, "geo", false, "Show country of IP addresses")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
}
