package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/image-adjust-mcp/internal/session"
)

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "square.png")

	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}
	f, err := os.Create(input)
	if err != nil {
		t.Fatalf("failed to create input: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode input: %v", err)
	}
	f.Close()

	outDir := filepath.Join(dir, "out")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"process", "-i", input, "-o", outDir, "-b", "20", "-c", "-10"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	for _, name := range session.Artifacts {
		if _, err := os.Stat(filepath.Join(outDir, name+".png")); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	text := out.String()
	if !strings.Contains(text, "Contours:   1") {
		t.Errorf("expected one contour in summary:\n%s", text)
	}
	if !strings.HasSuffix(strings.TrimSpace(text), session.CompletionMessage) {
		t.Errorf("summary should end with the completion message:\n%s", text)
	}
}
