package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-adjust-mcp/internal/adjust"
	"github.com/ironsheep/image-adjust-mcp/internal/imaging"
	"github.com/ironsheep/image-adjust-mcp/internal/session"
	"github.com/ironsheep/image-adjust-mcp/internal/vision"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Render every artifact of one image to PNG files",
	Args:  cobra.NoArgs,
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringP("input", "i", "", "Input JPEG or PNG file")
	processCmd.Flags().StringP("output", "o", ".", "Output directory")
	processCmd.Flags().IntP("brightness", "b", 0, "Brightness (-100 to 100)")
	processCmd.Flags().IntP("contrast", "c", 0, "Contrast (-100 to 100)")
	processCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputDir, _ := cmd.Flags().GetString("output")
	brightness, _ := cmd.Flags().GetInt("brightness")
	contrast, _ := cmd.Flags().GetInt("contrast")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := initLogger(cfg)

	params := session.Params{Brightness: brightness, Contrast: contrast}
	if err := params.Validate(); err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	img, format, err := imaging.Decode(f, cfg.Limits())
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	tk, err := vision.New(cfg.Backend)
	if err != nil {
		return err
	}
	r := session.Render(adjust.New(tk, cfg.Chart), img, params)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	type artifact struct {
		name string
		img  image.Image
	}
	var outputs []artifact
	add := func(name string, b *imaging.Buffer) {
		if b != nil {
			outputs = append(outputs, artifact{name, b})
		}
	}
	add(session.ArtifactOriginal, r.Original)
	add(session.ArtifactHSV, r.HSV)
	if r.Histogram != nil && r.Histogram.Chart != nil {
		outputs = append(outputs, artifact{session.ArtifactHistogram, r.Histogram.Chart})
	}
	add(session.ArtifactAdjusted, r.Adjusted)
	add(session.ArtifactContours, r.Overlay)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Input:      %s (%s, %d x %d)\n", inputPath, format, img.Width, img.Height)
	fmt.Fprintf(out, "Backend:    %s\n", tk.Name())
	fmt.Fprintf(out, "Brightness: %d  Contrast: %d\n", params.Brightness, params.Contrast)
	for _, a := range outputs {
		path := filepath.Join(outputDir, a.name+".png")
		if err := imaging.SavePNG(a.img, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote:      %s\n", path)
	}
	if r.Contours != nil || r.Overlay != nil {
		fmt.Fprintf(out, "Contours:   %d\n", len(r.Contours))
	}
	for name, err := range r.Errors {
		logger.WithField("artifact", name).WithError(err).Error("artifact failed")
	}
	fmt.Fprintln(out, session.CompletionMessage)

	return r.Err()
}
