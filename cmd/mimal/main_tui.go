//go:build tui

package main

import (
	"github.com/unowned-ai/mimal/pkg/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Browse recordings by day and manage documents in an interactive terminal UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		loc, err := displayLocation()
		if err != nil {
			return err
		}
		return tui.ShowTUI(store, storageLabel(), loc)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
