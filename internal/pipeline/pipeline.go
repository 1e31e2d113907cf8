// Package pipeline sequences the download, authentication, metadata
// composition and upload stages for one stream.
package pipeline

import (
	"context"
	"fmt"

	"github.com/vodtools/streamreup/internal/metadata"
	"github.com/vodtools/streamreup/internal/services/downloader"
	youtubesvc "github.com/vodtools/streamreup/internal/services/youtube"
	"github.com/vodtools/streamreup/internal/utils"
)

// Options configures one end-to-end run.
type Options struct {
	StreamURL       string
	OutputDir       string
	CredentialsPath string
	TokenPath       string
	Overrides       metadata.Overrides
	// PlaylistSearch resolves a playlist by fuzzy title match when no
	// explicit playlist ID override is set.
	PlaylistSearch string
	// DownloadOnly stops the pipeline after the download stage.
	DownloadOnly bool
}

// Pipeline wires the download engine and the hosting API together.
type Pipeline struct {
	downloader downloader.Downloader
	hosting    youtubesvc.YouTubeService
}

// New creates a pipeline over the given collaborators
func New(dl downloader.Downloader, hosting youtubesvc.YouTubeService) *Pipeline {
	return &Pipeline{downloader: dl, hosting: hosting}
}

// Run processes one stream end-to-end. Download, authentication and upload
// failures abort the run; thumbnail and playlist attachment failures are
// logged and swallowed.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	result, err := p.downloader.Download(ctx, opts.StreamURL, opts.OutputDir)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	if opts.DownloadOnly {
		fmt.Printf("Download completed: %s\n", result.FilePath)
		return nil
	}

	client, err := p.hosting.Authenticate(ctx, opts.CredentialsPath, opts.TokenPath)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	overrides := opts.Overrides
	if overrides.PlaylistID == "" && opts.PlaylistSearch != "" {
		chosen, err := p.hosting.ResolvePlaylist(ctx, client, opts.PlaylistSearch)
		switch {
		case err != nil:
			utils.LogWarning("Playlist search failed: %v", err)
		case chosen == nil:
			utils.LogWarning("No playlists found matching %q", opts.PlaylistSearch)
		default:
			overrides.PlaylistID = chosen.ID
		}
	}

	req, err := metadata.Compose(result.FilePath, overrides, result.Metadata)
	if err != nil {
		return err
	}

	videoID, err := p.hosting.Upload(ctx, client, req, result.FilePath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	// Best-effort side effects: the upload already succeeded.
	if req.ThumbnailPath != "" {
		if err := p.hosting.SetThumbnail(ctx, client, videoID, req.ThumbnailPath); err != nil {
			utils.LogWarning("Failed to upload thumbnail: %v", err)
		}
	}
	if req.PlaylistID != "" {
		if err := p.hosting.AddToPlaylist(ctx, client, videoID, req.PlaylistID); err != nil {
			utils.LogWarning("Failed to add video to playlist: %v", err)
		}
	}

	utils.LogSuccess("Process completed successfully!")
	fmt.Printf("Upload completed: https://www.youtube.com/watch?v=%s\n", videoID)
	return nil
}
