package youtube

import (
	"context"
	"fmt"
	"strings"

	"github.com/vodtools/streamreup/internal/utils"

	"google.golang.org/api/youtube/v3"
)

// preferredTitleWords picks the historically preferred playlist when a fuzzy
// search matches more than one: a title containing all of these words wins.
var preferredTitleWords = []string{"cybersec", "tuesday"}

// ListPlaylists retrieves all playlists of the authenticated channel,
// following pagination.
func (m *Service) ListPlaylists(ctx context.Context, client *youtube.Service) ([]PlaylistRef, error) {
	if client == nil {
		return nil, fmt.Errorf("hosting API not authenticated")
	}

	var playlists []PlaylistRef
	call := client.Playlists.List([]string{"snippet"}).Mine(true).MaxResults(50)
	err := call.Pages(ctx, func(resp *youtube.PlaylistListResponse) error {
		for _, item := range resp.Items {
			playlists = append(playlists, PlaylistRef{
				ID:          item.Id,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	return playlists, nil
}

// ResolvePlaylist finds the playlist matching a title search term. Nil with
// no error means nothing matched.
func (m *Service) ResolvePlaylist(ctx context.Context, client *youtube.Service, term string) (*PlaylistRef, error) {
	playlists, err := m.ListPlaylists(ctx, client)
	if err != nil {
		return nil, err
	}

	matches := FilterPlaylists(playlists, term)
	chosen := ChoosePlaylist(matches)
	if chosen != nil {
		utils.LogInfo("Found playlist: %s (ID: %s)", chosen.Title, chosen.ID)
	}
	return chosen, nil
}

// FilterPlaylists returns the playlists whose title contains term,
// case-insensitively, preserving order.
func FilterPlaylists(playlists []PlaylistRef, term string) []PlaylistRef {
	term = strings.ToLower(term)
	var matches []PlaylistRef
	for _, p := range playlists {
		if strings.Contains(strings.ToLower(p.Title), term) {
			matches = append(matches, p)
		}
	}
	return matches
}

// ChoosePlaylist picks from fuzzy matches: the preferred title when present,
// else the first match, else nil.
func ChoosePlaylist(matches []PlaylistRef) *PlaylistRef {
	if len(matches) == 0 {
		return nil
	}

	for i := range matches {
		title := strings.ToLower(matches[i].Title)
		preferred := true
		for _, word := range preferredTitleWords {
			if !strings.Contains(title, word) {
				preferred = false
				break
			}
		}
		if preferred {
			return &matches[i]
		}
	}

	return &matches[0]
}

// AddToPlaylist appends a video to a playlist
func (m *Service) AddToPlaylist(ctx context.Context, client *youtube.Service, videoID, playlistID string) error {
	if client == nil {
		return fmt.Errorf("hosting API not authenticated")
	}

	utils.LogInfo("Adding video to playlist: %s", playlistID)

	playlistItem := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}

	if _, err := client.PlaylistItems.Insert([]string{"snippet"}, playlistItem).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}

	utils.LogInfo("Video added to playlist successfully")
	return nil
}
