package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/barscan/internal/backend"
	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/config"
	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/imageio"
	"github.com/MeKo-Tech/barscan/internal/multi"
	"github.com/MeKo-Tech/barscan/internal/symbol"
)

// newReader builds the single-symbol reader; tests replace it with stubs.
var newReader = backend.New

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan <image> [image...]",
	Short: "Find every barcode in one or more images",
	Long: `Scan image files for barcode symbols. Each file is binarized and
searched recursively; every symbol found is reported with its payload,
format, and localization points in the coordinates of the original image.

Supported formats: JPEG, PNG, BMP

Examples:
  barscan scan photo.jpg
  barscan scan *.png --format yaml
  barscan scan shelf.jpg --workers 4 --output results.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}
		cfg := GetConfig()
		maxSize, _ := cmd.Flags().GetInt("max-size")
		return runScan(cmd, args, cfg, maxSize)
	},
}

func runScan(cmd *cobra.Command, paths []string, cfg *config.Config, maxSize int) error {
	reader, err := newReader()
	if err != nil {
		return fmt.Errorf("initializing decoder: %w", err)
	}
	locator := multi.New(reader)
	opts := cfg.Locator.DecodeOptions()

	outputs := make([]scanOutput, 0, len(paths))
	var firstErr error
	for _, path := range paths {
		out, err := scanFile(cmd, locator, opts, cfg.Locator.Workers, path, maxSize)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		outputs = append(outputs, out)
	}

	if len(outputs) == 0 {
		return firstErr
	}
	if err := writeOutputs(cmd, outputs, cfg.Output); err != nil {
		return err
	}
	return firstErr
}

func scanFile(cmd *cobra.Command, locator *multi.Locator, opts *decode.Options, workers int, path string, maxSize int) (scanOutput, error) {
	img, meta, err := imageio.LoadImage(path)
	if err != nil {
		return scanOutput{}, err
	}
	if maxSize > 0 && (meta.Width > maxSize || meta.Height > maxSize) {
		img = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	}

	bm := bitmap.FromImage(img)

	var results []*symbol.Result
	if workers > 1 {
		results, err = locator.DecodeMultipleParallel(cmd.Context(), bm, opts, workers)
	} else {
		results, err = locator.DecodeMultipleWithOptions(bm, opts)
	}
	if err != nil {
		return scanOutput{}, fmt.Errorf("%s: %w", path, err)
	}

	out := scanOutput{
		File:    path,
		Width:   bm.Width(),
		Height:  bm.Height(),
		Symbols: make([]symbolOutput, 0, len(results)),
	}
	for _, r := range results {
		out.Symbols = append(out.Symbols, newSymbolOutput(r))
	}
	return out, nil
}

// scanOutput is the serialized result for one image.
type scanOutput struct {
	File    string         `json:"file" yaml:"file"`
	Width   int            `json:"width" yaml:"width"`
	Height  int            `json:"height" yaml:"height"`
	Symbols []symbolOutput `json:"symbols" yaml:"symbols"`
}

type symbolOutput struct {
	Text      string         `json:"text" yaml:"text"`
	Format    string         `json:"format" yaml:"format"`
	NumBits   int            `json:"num_bits,omitempty" yaml:"num_bits,omitempty"`
	Points    []*pointOutput `json:"points,omitempty" yaml:"points,omitempty"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

// pointOutput keeps absent localization points as explicit nulls so point
// indices stay meaningful.
type pointOutput struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func newSymbolOutput(r *symbol.Result) symbolOutput {
	out := symbolOutput{
		Text:      r.Text,
		Format:    r.Format.String(),
		NumBits:   r.NumBits,
		Timestamp: r.Timestamp,
	}
	if r.Points != nil {
		out.Points = make([]*pointOutput, len(r.Points))
		for i, p := range r.Points {
			if p != nil {
				out.Points[i] = &pointOutput{X: p.X, Y: p.Y}
			}
		}
	}
	return out
}

func writeOutputs(cmd *cobra.Command, outputs []scanOutput, cfg config.OutputConfig) error {
	var rendered []byte
	var err error
	switch cfg.Format {
	case config.OutputFormatYAML:
		rendered, err = yaml.Marshal(outputs)
	case config.OutputFormatText:
		rendered = []byte(renderText(outputs))
	default:
		rendered, err = json.MarshalIndent(outputs, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("rendering results: %w", err)
	}

	if cfg.File != "" {
		return os.WriteFile(cfg.File, rendered, 0o600)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(rendered), "\n"))
	return err
}

func renderText(outputs []scanOutput) string {
	var b strings.Builder
	for _, out := range outputs {
		fmt.Fprintf(&b, "%s: %d symbol(s)\n", out.File, len(out.Symbols))
		for _, s := range out.Symbols {
			fmt.Fprintf(&b, "  [%s] %s\n", s.Format, s.Text)
		}
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("format", "f", config.OutputFormatJSON, "output format (json, yaml, text)")
	scanCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	scanCmd.Flags().Int("workers", 1, "parallel search workers (>1 gives nondeterministic result order)")
	scanCmd.Flags().Bool("try-harder", false, "spend more time decoding each region")
	scanCmd.Flags().Bool("also-inverted", false, "also look for light-on-dark symbols")
	scanCmd.Flags().StringSlice("formats", nil, "restrict symbologies, e.g. qr,ean13,code128")
	scanCmd.Flags().Int("max-size", 0, "downscale images whose longest side exceeds this many pixels")

	_ = viper.BindPFlag("output.format", scanCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.file", scanCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("locator.workers", scanCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("locator.try_harder", scanCmd.Flags().Lookup("try-harder"))
	_ = viper.BindPFlag("locator.also_inverted", scanCmd.Flags().Lookup("also-inverted"))
	_ = viper.BindPFlag("locator.formats", scanCmd.Flags().Lookup("formats"))
}
