package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vodtools/streamreup/internal/metadata"
	"github.com/vodtools/streamreup/internal/retry"
	"github.com/vodtools/streamreup/internal/utils"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

const (
	// uploadChunkSize is the resumable-upload chunk size.
	uploadChunkSize = 8 * 1024 * 1024

	// maxUploadRetries bounds retries of retriable HTTP errors across the
	// whole upload.
	maxUploadRetries = 5
)

// Upload performs a chunked resumable upload of the file described by req
// and returns the new video ID. Server errors (500/502/503/504) are retried
// up to maxUploadRetries times; any other error aborts immediately.
func (m *Service) Upload(ctx context.Context, client *youtube.Service, req metadata.UploadRequest, filePath string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("hosting API not authenticated")
	}
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("video file not found: %s", filePath)
	}

	utils.LogInfo("Starting upload of: %s", filePath)

	video, parts := buildVideo(req)

	videoID, err := uploadWithRetry(ctx, func(ctx context.Context) (string, error) {
		file, err := os.Open(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to open video file: %w", err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				utils.LogWarning("Failed to close video file: %v", err)
			}
		}()

		call := client.Videos.Insert(parts, video).
			Media(file, googleapi.ChunkSize(uploadChunkSize), googleapi.ContentType("video/mp4")).
			ProgressUpdater(func(current, total int64) {
				if total > 0 {
					utils.LogInfo("Upload progress: %d%%", int(current*100/total))
				}
			}).
			Context(ctx)

		response, err := call.Do()
		if err != nil {
			return "", err
		}
		return response.Id, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	utils.LogSuccess("Upload successful! Video ID: %s", videoID)
	utils.LogInfo("Video URL: https://www.youtube.com/watch?v=%s", videoID)
	return videoID, nil
}

// uploadWithRetry wraps one upload attempt in the bounded retry policy.
func uploadWithRetry(ctx context.Context, attempt func(context.Context) (string, error)) (string, error) {
	var videoID string

	cfg := retry.Config{
		MaxRetries: maxUploadRetries,
		OnRetry: func(n int, err error) {
			utils.LogWarning("Retriable upload error (retry %d/%d): %v", n, maxUploadRetries, err)
		},
	}

	err := retry.Do(ctx, cfg, isRetriableStatus, func(ctx context.Context) error {
		id, err := attempt(ctx)
		if err != nil {
			return err
		}
		videoID = id
		return nil
	})
	if err != nil {
		return "", err
	}

	return videoID, nil
}

// isRetriableStatus classifies transient server errors from the hosting API.
func isRetriableStatus(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case 500, 502, 503, 504:
		return true
	}
	return false
}

// buildVideo maps an UploadRequest onto the API resource and returns the
// parts the insert call must carry.
func buildVideo(req metadata.UploadRequest) (*youtube.Video, []string) {
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                req.Title,
			Description:          req.Description,
			Tags:                 req.Tags,
			CategoryId:           req.CategoryID,
			DefaultLanguage:      req.DefaultLanguage,
			DefaultAudioLanguage: req.DefaultAudioLanguage,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           req.PrivacyStatus,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	parts := []string{"snippet", "status"}
	if req.RecordingDate != "" {
		video.RecordingDetails = &youtube.VideoRecordingDetails{
			RecordingDate: req.RecordingDate,
		}
		parts = append(parts, "recordingDetails")
	}

	return video, parts
}
