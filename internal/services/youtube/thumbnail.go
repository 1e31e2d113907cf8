package youtube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vodtools/streamreup/internal/utils"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// SetThumbnail attaches a thumbnail to an uploaded video. The API accepts
// only JPEG and PNG, so other formats are converted to JPEG first and the
// temporary file removed afterwards.
func (m *Service) SetThumbnail(ctx context.Context, client *youtube.Service, videoID, thumbnailPath string) error {
	if client == nil {
		return fmt.Errorf("hosting API not authenticated")
	}

	utils.LogInfo("Uploading thumbnail: %s", thumbnailPath)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(thumbnailPath), "."))
	switch ext {
	case "jpg", "jpeg":
		return m.attachThumbnail(ctx, client, videoID, thumbnailPath, "image/jpeg")
	case "png":
		return m.attachThumbnail(ctx, client, videoID, thumbnailPath, "image/png")
	}

	utils.LogInfo("Converting unsupported thumbnail format %s to JPEG", ext)
	converted, err := ConvertToJPEG(thumbnailPath)
	if err != nil {
		return fmt.Errorf("could not convert thumbnail: %w", err)
	}
	defer func() {
		if err := os.Remove(converted); err != nil {
			utils.LogWarning("Could not remove converted thumbnail %s: %v", converted, err)
		}
	}()

	return m.attachThumbnail(ctx, client, videoID, converted, "image/jpeg")
}

func (m *Service) attachThumbnail(ctx context.Context, client *youtube.Service, videoID, path, mimeType string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open thumbnail file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			utils.LogWarning("Failed to close thumbnail file: %v", err)
		}
	}()

	_, err = client.Thumbnails.Set(videoID).
		Media(file, googleapi.ContentType(mimeType)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to set thumbnail: %w", err)
	}

	utils.LogInfo("Thumbnail uploaded successfully")
	return nil
}
