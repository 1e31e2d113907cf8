package youtube

import (
	"context"

	"github.com/vodtools/streamreup/internal/metadata"

	"google.golang.org/api/youtube/v3"
)

// YouTubeService defines the interface for hosting-API operations
type YouTubeService interface {
	// Authenticate yields an authenticated client handle, refreshing or
	// obtaining OAuth tokens as needed
	Authenticate(ctx context.Context, credentialsPath, tokenPath string) (*youtube.Service, error)

	// Upload performs a chunked resumable upload and returns the video ID
	Upload(ctx context.Context, client *youtube.Service, req metadata.UploadRequest, filePath string) (string, error)

	// ListPlaylists retrieves all playlists of the authenticated channel
	ListPlaylists(ctx context.Context, client *youtube.Service) ([]PlaylistRef, error)

	// ResolvePlaylist finds the best playlist match for a title search term
	ResolvePlaylist(ctx context.Context, client *youtube.Service, term string) (*PlaylistRef, error)

	// AddToPlaylist appends a video to a playlist
	AddToPlaylist(ctx context.Context, client *youtube.Service, videoID, playlistID string) error

	// SetThumbnail attaches a thumbnail image, converting to JPEG when the
	// format is not accepted directly
	SetThumbnail(ctx context.Context, client *youtube.Service, videoID, thumbnailPath string) error
}

// PlaylistRef identifies a playlist of the authenticated channel. Fetched
// per run, never cached.
type PlaylistRef struct {
	ID          string
	Title       string
	Description string
}

// Service implements the YouTubeService interface
type Service struct{}

// NewService creates a new hosting-API service
func NewService() *Service {
	return &Service{}
}
