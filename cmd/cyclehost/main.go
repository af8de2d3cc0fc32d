// Command cyclehost runs the wake cycle on a Linux host, or against a
// scripted radio for bench testing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cyclehost",
	Short: "Scan, select and join a WiFi network, then sleep",
	Long: `cyclehost performs one duty cycle: scan for the target SSID, join the
strongest access point advertising it, report the result on the attached
display, arm the RTC wake alarm and suspend.

Examples:
  cyclehost run --config /etc/wifiwake.yaml
  cyclehost run --sim testdata/home.yaml --dry-run
  cyclehost select --sim testdata/home.yaml --target home
  cyclehost boards`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
