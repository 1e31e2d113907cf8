package downloader

import "context"

// Downloader defines the interface for the stream download stage
type Downloader interface {
	// Download fetches the stream at streamURL into outputDir, reusing an
	// existing valid file when one is present
	Download(ctx context.Context, streamURL, outputDir string) (*DownloadResult, error)
}

// StreamMetadata is the sidecar metadata extracted at download time. It is
// read-only after the download stage.
type StreamMetadata struct {
	Title       string
	Description string
	Tags        []string
	UploadDate  string // 8-digit YYYYMMDD when present
	Language    string
	IsLive      bool
}

// DownloadResult is the outcome of one download: the media file on disk and
// whatever sidecar metadata could be extracted. Metadata may be nil.
type DownloadResult struct {
	FilePath string
	Metadata *StreamMetadata
}
