package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wifiwake-go/services/board"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List supported board variants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, v := range board.Variants() {
			d, err := board.Resolve(v)
			if err != nil {
				return err
			}
			disp := "-"
			if d.HasDisplay {
				disp = fmt.Sprintf("ssd1306 %dx%d @0x%02x on %s", d.DisplayWidth, d.DisplayHeight, d.DisplayAddr, d.I2C.Bus)
			}
			fmt.Fprintf(out, "%-12s %-30s %s\n", v, d.Name, disp)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}
