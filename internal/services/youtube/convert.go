package youtube

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/vodtools/streamreup/internal/utils"

	// Decoders for thumbnail formats yt-dlp may produce.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// jpegQuality matches the quality the original thumbnails were saved with.
const jpegQuality = 95

// ConvertToJPEG converts an image file to JPEG, flattening any transparency
// onto a white background. It returns the path of the converted file, which
// the caller owns and should delete after use.
func ConvertToJPEG(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			utils.LogWarning("Failed to close image file: %v", err)
		}
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Flatten onto white so transparent regions do not turn black.
	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + "_converted.jpg"
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create converted file: %w", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			utils.LogWarning("Failed to close converted file: %v", err)
		}
	}()

	if err := jpeg.Encode(out, flat, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return outPath, nil
}
