package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/mimal/pkg/notes"
)

var (
	audioURLFlag string
	dateFlag     string
	jsonFlag     bool
)

var recordCmd = &cobra.Command{
	Use:   "record [transcript...]",
	Short: "Save a voice note into today's group",
	Long: `Append a voice note to the group for the current day. The transcript is the
joined arguments; with no arguments the note is stored as "Recording without transcript".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.TrimSpace(strings.Join(args, " "))
		if content == "" {
			content = notes.DefaultVoiceNoteContent
		}

		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		note := notes.VoiceNote{
			ID:       notes.NewID(),
			Content:  content,
			AudioURL: audioURLFlag,
		}
		if err := store.AppendVoiceNote(cmd.Context(), note); err != nil {
			return fmt.Errorf("failed to save voice note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved voice note %s to %s\n", note.ID, store.Today())
		return nil
	},
}

var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "Browse saved voice notes",
}

var listRecordingsCmd = &cobra.Command{
	Use:   "list",
	Short: "List voice notes grouped by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		groups := store.LoadVoiceGroups(cmd.Context())
		if dateFlag != "" {
			g, ok := notes.FindDayGroup(groups, dateFlag)
			groups = []notes.DayGroup{}
			if ok {
				groups = append(groups, g)
			}
		}

		if jsonFlag {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(groups)
		}
		printVoiceGroups(cmd.OutOrStdout(), groups)
		return nil
	},
}

func printVoiceGroups(w io.Writer, groups []notes.DayGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No recordings found.")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "%s (%d notes)\n", g.Date, len(g.Notes))
		for _, n := range g.Notes {
			fmt.Fprintf(w, "  %s  %s  %s\n", formatTimestamp(n.Timestamp), n.ID, n.Content)
			if n.AudioURL != "" {
				fmt.Fprintf(w, "      audio: %s\n", n.AudioURL)
			}
		}
	}
}

func initRecordingsCmd() {
	recordCmd.Flags().StringVar(&audioURLFlag, "audio-url", "", "Reference to the recorded audio (optional)")

	listRecordingsCmd.Flags().StringVar(&dateFlag, "date", "", "Only show the group for this day (YYYY-MM-DD)")
	listRecordingsCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of text")

	recordingsCmd.AddCommand(listRecordingsCmd)
}
