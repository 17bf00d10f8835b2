package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/mimal/pkg/notes"
)

var (
	docIDFlag      string
	docTitleFlag   string
	docContentFlag string
	docFileFlag    string
	yesFlag        bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage rich-text documents",
	Long:  `List, show, save, and delete documents.`,
}

var listDocsCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, most recently updated first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		docs := store.LoadDocuments(cmd.Context())
		notes.SortByUpdated(docs)

		if jsonFlag {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(docs)
		}

		out := cmd.OutOrStdout()
		if len(docs) == 0 {
			fmt.Fprintln(out, "No documents found.")
			return nil
		}
		fmt.Fprintln(out, "Documents:")
		for _, d := range docs {
			fmt.Fprintf(out, "- %s  %s  (updated %s)\n", d.ID, d.Title, formatTimestamp(d.UpdatedAt))
		}
		return nil
	},
}

var getDocCmd = &cobra.Command{
	Use:   "get [document-id]",
	Short: "Show a document by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		doc, err := store.GetDocument(cmd.Context(), args[0])
		if errors.Is(err, notes.ErrDocumentNotFound) {
			return fmt.Errorf("document not found: %s", args[0])
		}
		if err != nil {
			return err
		}
		printDocument(cmd.OutOrStdout(), doc)
		return nil
	},
}

var saveDocCmd = &cobra.Command{
	Use:   "save",
	Short: "Create a document or replace an existing one",
	Long: `Save a document. Without --id a new document is created. Content comes from
--content, or from --file (use "-" for stdin). An empty title is stored as "เอกสารใหม่".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content := docContentFlag
		if docFileFlag != "" {
			if docContentFlag != "" {
				return errors.New("use either --content or --file, not both")
			}
			b, err := readContent(cmd.InOrStdin(), docFileFlag)
			if err != nil {
				return err
			}
			content = string(b)
		}

		id := docIDFlag
		if id == "" {
			id = notes.NewID()
		}

		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		saved, err := store.UpsertDocument(cmd.Context(), notes.Document{ID: id, Title: docTitleFlag, Content: content})
		if err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		printDocument(cmd.OutOrStdout(), saved)
		return nil
	},
}

var deleteDocCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document by ID",
	Long:  `Delete a document. Asks for confirmation unless --yes is given. Unknown IDs are ignored.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		store, medium, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer medium.Close()

		if !yesFlag {
			title := id
			if doc, err := store.GetDocument(cmd.Context(), id); err == nil {
				title = fmt.Sprintf("%q (%s)", doc.Title, id)
			}
			ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete document %s?", title))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := store.DeleteDocument(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Document %s deleted.\n", id)
		return nil
	},
}

// confirm asks a yes/no question on in; anything but y/yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func readContent(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	return b, nil
}

func printDocument(w io.Writer, doc notes.Document) {
	fmt.Fprintln(w, "Document Details:")
	fmt.Fprintf(w, "ID:         %s\n", doc.ID)
	fmt.Fprintf(w, "Title:      %s\n", doc.Title)
	fmt.Fprintf(w, "Created At: %s\n", formatTimestamp(doc.CreatedAt))
	fmt.Fprintf(w, "Updated At: %s\n", formatTimestamp(doc.UpdatedAt))
	fmt.Fprintln(w, "\nContent:")
	fmt.Fprintln(w, "------------------------------------------------------------")
	fmt.Fprintln(w, doc.Content)
	fmt.Fprintln(w, "------------------------------------------------------------")
}

func initDocumentsCmd() {
	listDocsCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of text")

	saveDocCmd.Flags().StringVar(&docIDFlag, "id", "", "ID of the document to replace (default: new document)")
	saveDocCmd.Flags().StringVar(&docTitleFlag, "title", "", "Document title")
	saveDocCmd.Flags().StringVar(&docContentFlag, "content", "", "Document body (HTML markup)")
	saveDocCmd.Flags().StringVar(&docFileFlag, "file", "", "Read the document body from a file, or - for stdin")

	deleteDocCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Delete without asking for confirmation")

	docsCmd.AddCommand(listDocsCmd, getDocCmd, saveDocCmd, deleteDocCmd)
}
