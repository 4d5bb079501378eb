package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cvlens/cvlens/internal/logger"
	"github.com/cvlens/cvlens/internal/output"
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Parse every resume PDF in a directory",
	Long: `Parse all PDF files in a directory concurrently. Each document is
processed independently: one failure never aborts its siblings. A
summary is printed at the end and the exit code is non-zero if any
document failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addExtractionFlags(batchCmd)
	batchCmd.Flags().StringP("output", "o", "", "output directory (default: same as input)")
	batchCmd.Flags().IntP("concurrency", "c", 3, "concurrent documents")
}

// batchOutcome is the per-document result collected by the batch driver.
type batchOutcome struct {
	Input  string
	Output string
	Err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ext, err := buildExtractor(cmd)
	if err != nil {
		return err
	}

	dir := args[0]
	pdfs, err := findPDFs(dir)
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		return fmt.Errorf("no PDF files found in %s", dir)
	}

	outDir, _ := cmd.Flags().GetString("output")
	if outDir == "" {
		outDir = dir
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format := output.Format(formatStr)

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency < 1 {
		concurrency = 1
	}

	logger.Info("batch starting",
		"documents", len(pdfs),
		"output_dir", outDir,
		"concurrency", concurrency)

	// Bounded worker pool: documents share nothing but the read-only
	// extractor configuration.
	sem := make(chan struct{}, concurrency)
	outcomes := make([]batchOutcome, len(pdfs))
	var wg sync.WaitGroup

	for i, pdfPath := range pdfs {
		if ctx.Err() != nil {
			outcomes[i] = batchOutcome{Input: pdfPath, Err: ctx.Err()}
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, pdfPath string) {
			defer wg.Done()
			defer func() { <-sem }()

			outPath := derivedOutputPath(pdfPath, outDir, format)
			logger.Info("parsing", "input", pdfPath)
			warnings, err := processDocument(ctx, ext, pdfPath, outPath, format)
			if err != nil {
				logger.Error("failed", "input", pdfPath, "error", err)
				outcomes[i] = batchOutcome{Input: pdfPath, Err: err}
				return
			}
			for _, w := range warnings {
				logger.Warn("schema drift", "input", pdfPath, "field", w.Field, "message", w.Message)
			}
			outcomes[i] = batchOutcome{Input: pdfPath, Output: outPath}
		}(i, pdfPath)
	}
	wg.Wait()

	var failed int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}

	logger.Info("batch complete",
		"documents", len(pdfs),
		"succeeded", len(pdfs)-failed,
		"failed", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(pdfs))
	}
	return nil
}

// findPDFs returns the sorted PDF paths directly inside dir.
func findPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var pdfs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(pdfs)
	return pdfs, nil
}
