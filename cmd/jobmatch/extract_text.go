package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/intake"
	"github.com/jonathan/jobmatch/internal/pdftext"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text <resume.pdf>",
	Short: "Print the text the local extractor finds in a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractText,
}

var extractOutputFile string

func init() {
	extractTextCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Write the text to a file instead of stdout")
	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, args []string) error {
	sel, err := intake.Open(args[0])
	if err != nil {
		return err
	}
	if sel.MIMEType != intake.PDFMIMEType {
		return fmt.Errorf("%s is not a PDF (detected %s)", sel.FileName, sel.MIMEType)
	}

	text, err := pdftext.New().ExtractText(cmd.Context(), sel.Bytes)
	if err != nil {
		return err
	}
	text = pdftext.CleanText(text)
	if text == "" {
		return fmt.Errorf("no text could be extracted from %s", sel.FileName)
	}

	if extractOutputFile != "" {
		if err := os.WriteFile(extractOutputFile, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Extracted %d characters to %s\n", len(text), extractOutputFile) //nolint:errcheck
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
