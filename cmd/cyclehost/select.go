package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wifiwake-go/services/config"
	"wifiwake-go/services/wifi"
	"wifiwake-go/services/wifi/sim"
)

var (
	selectFixture  string
	selectTarget   string
	selectCapacity int
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Show which network a scripted scan would select",
	Long: `Run only the selection step over a fixture's network list and print the
retained networks. The selected one is marked with *.`,
	Args: cobra.NoArgs,
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().StringVar(&selectFixture, "sim", "", "fixture YAML with the scan report (required)")
	selectCmd.Flags().StringVar(&selectTarget, "target", config.TargetSSID, "target SSID")
	selectCmd.Flags().IntVar(&selectCapacity, "capacity", config.MaxOurDevicesCount, "networks retained per scan")
	_ = selectCmd.MarkFlagRequired("sim")
}

func runSelect(cmd *cobra.Command, _ []string) error {
	fx, err := sim.LoadFixture(selectFixture)
	if err != nil {
		return err
	}
	sel := wifi.Select(fx.Report(), selectTarget, selectCapacity)
	out := cmd.OutOrStdout()
	if len(sel.Retained) == 0 {
		fmt.Fprintf(out, "no network named %q\n", selectTarget)
		return nil
	}
	for i, n := range sel.Retained {
		mark := ""
		if i == sel.Best {
			mark = " *"
		}
		fmt.Fprintf(out, "%d %s %s %d dBm%s\n", i+1, n.SSID, n.BSSID, n.RSSI, mark)
	}
	return nil
}
