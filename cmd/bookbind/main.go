package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bookbind/internal/dpi"
	"github.com/dgallion1/bookbind/internal/inspect"
	"github.com/dgallion1/bookbind/internal/layout"
	"github.com/dgallion1/bookbind/internal/pdfexport"
)

var rootCmd = &cobra.Command{
	Use:   "bookbind",
	Short: "Format docx manuscripts for print",
	Long: `bookbind prepares a docx manuscript for print publishing: trim
size and mirrored margins, consistent body and heading type, synthesized
front matter, forced chapter breaks and a dynamic table of contents.`,
}

var formatCmd = &cobra.Command{
	Use:   "format <manuscript.docx>",
	Short: "Produce a print-ready copy of a manuscript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]
		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
			outputPath = base + "_formatted.docx"
		}

		trim, _ := cmd.Flags().GetString("trim")
		printMode, _ := cmd.Flags().GetBool("print")
		title, _ := cmd.Flags().GetString("title")
		author, _ := cmd.Flags().GetString("author")
		spacing, _ := cmd.Flags().GetFloat64("line-spacing")

		res, err := layout.Format(inputPath, outputPath, layout.Options{
			TrimSize:    trim,
			PrintMode:   printMode,
			Title:       title,
			Author:      author,
			LineSpacing: spacing,
		})
		for _, warning := range res.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning.Message)
		}
		if err != nil {
			return fmt.Errorf("format failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.OutputPath)

		if wantPDF, _ := cmd.Flags().GetBool("pdf"); wantPDF {
			soffice, _ := cmd.Flags().GetString("soffice")
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			exporter := pdfexport.New(soffice, 2*time.Minute, log)
			pdfPath, err := exporter.Convert(cmd.Context(), outputPath, filepath.Dir(outputPath))
			if err != nil {
				return fmt.Errorf("pdf export failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pdfPath)
		}
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan <manuscript.docx>",
	Short: "Check embedded images against a print DPI floor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minDPI, _ := cmd.Flags().GetInt("min-dpi")

		warnings := dpi.Scan(args[0], minDPI)
		if len(warnings) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "all images meet the print resolution floor")
			return nil
		}
		for _, warning := range warnings {
			fmt.Fprintln(cmd.OutOrStdout(), warning.Message)
		}
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <manuscript.docx>",
	Short: "Print the chapter outline and word counts as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		report, err := inspect.Inspect(f, filepath.Base(args[0]))
		if err != nil {
			return fmt.Errorf("inspect failed: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	formatCmd.Flags().StringP("output", "o", "", "Output file path (default: input with _formatted suffix)")
	formatCmd.Flags().String("trim", layout.DefaultTrimSize, "Trim size: 6x9, 5x8, 8.5x11")
	formatCmd.Flags().Bool("print", false, "Enable mirrored margins for bound printing")
	formatCmd.Flags().String("title", "", "Book title for the title page")
	formatCmd.Flags().String("author", "", "Author name for the title and copyright pages")
	formatCmd.Flags().Float64("line-spacing", layout.DefaultLineSpacing, "Body line spacing multiplier")
	formatCmd.Flags().Bool("pdf", false, "Also render a PDF with LibreOffice")
	formatCmd.Flags().String("soffice", "soffice", "LibreOffice binary used with --pdf")

	scanCmd.Flags().Int("min-dpi", dpi.DefaultMinDPI, "Minimum acceptable image resolution")

	rootCmd.AddCommand(formatCmd, scanCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
