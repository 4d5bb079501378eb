package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cvlens/cvlens/internal/extract"
	"github.com/cvlens/cvlens/internal/logger"
	"github.com/cvlens/cvlens/internal/model"
	"github.com/cvlens/cvlens/internal/output"
	"github.com/cvlens/cvlens/internal/pdftext"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.pdf>",
	Short: "Parse a single resume PDF",
	Long: `Parse one PDF resume and write the structured record as a JSON
(or YAML) artifact. By default the artifact is written next to the
input as <name>.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	addExtractionFlags(parseCmd)
	parseCmd.Flags().StringP("output", "o", "", "output file path (default: <input>.json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ext, err := buildExtractor(cmd)
	if err != nil {
		return err
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format := output.Format(formatStr)
	inputPath := args[0]

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = derivedOutputPath(inputPath, "", format)
	}

	logger.Info("parsing resume", "input", inputPath)
	warnings, err := processDocument(ctx, ext, inputPath, outPath, format)
	if err != nil {
		return err
	}

	for _, w := range warnings {
		logger.Warn("schema drift", "field", w.Field, "value", w.Value, "message", w.Message)
	}
	logger.Info("saved", "output", outPath)
	return nil
}

// processDocument runs the full pipeline for one PDF: text extraction,
// structured extraction, artifact write.
func processDocument(ctx context.Context, ext *extract.Extractor, inputPath, outPath string, format output.Format) ([]model.Warning, error) {
	text, err := pdftext.Extract(inputPath)
	if err != nil {
		return nil, err
	}

	result, err := ext.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extraction failed for %s: %w", inputPath, err)
	}

	f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w, err := output.NewWriter(f, format)
	if err != nil {
		return nil, err
	}
	if err := w.Write(result.Record); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	return result.Warnings, nil
}

// derivedOutputPath maps an input PDF to its artifact path: same base name,
// format extension, in outDir (or next to the input when outDir is empty).
func derivedOutputPath(inputPath, outDir string, format output.Format) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, base+output.Extension(format))
}
