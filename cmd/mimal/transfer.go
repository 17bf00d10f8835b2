package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/mimal/pkg/notes"
)

var (
	exportOutFlag string
	importInFlag  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all recordings and documents as one JSON snapshot",
	Long: `Export both collections as a JSON object keyed "recordings" and "editor-notes".
The same format is accepted by import, so it can move notes between backends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		toFile := exportOutFlag != "" && exportOutFlag != "-"
		var w io.Writer = cmd.OutOrStdout()
		if toFile {
			f, err := os.Create(exportOutFlag)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()
			w = f
		}

		snap := store.Export(cmd.Context())
		if err := notes.EncodeSnapshot(w, snap); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		if toFile {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d day groups and %d documents to %s\n", len(snap.Recordings), len(snap.Documents), exportOutFlag)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a JSON snapshot into the configured storage",
	Long: `Import a snapshot written by export. Recordings replace the stored recordings
only when the snapshot has a "recordings" key. Each document is saved over any document
with the same ID and keeps the created and updated times recorded in the snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if importInFlag != "" && importInFlag != "-" {
			f, err := os.Open(importInFlag)
			if err != nil {
				return fmt.Errorf("failed to open snapshot: %w", err)
			}
			defer f.Close()
			r = f
		}

		snap, err := notes.DecodeSnapshot(r)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}

		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		if err := store.Import(cmd.Context(), snap); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d day groups and %d documents.\n", len(snap.Recordings), len(snap.Documents))
		return nil
	},
}

func initTransferCmd() {
	exportCmd.Flags().StringVarP(&exportOutFlag, "out", "o", "", "File to write (default: stdout)")
	importCmd.Flags().StringVarP(&importInFlag, "in", "i", "", "File to read (default: stdin)")
}
