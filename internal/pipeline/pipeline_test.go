package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vodtools/streamreup/internal/metadata"
	"github.com/vodtools/streamreup/internal/services/downloader"
	youtubesvc "github.com/vodtools/streamreup/internal/services/youtube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/youtube/v3"
)

type fakeDownloader struct {
	result *downloader.DownloadResult
	err    error
	calls  int
}

func (f *fakeDownloader) Download(_ context.Context, _, _ string) (*downloader.DownloadResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeHosting struct {
	authErr      error
	uploadID     string
	uploadErr    error
	uploadReq    metadata.UploadRequest
	resolved     *youtubesvc.PlaylistRef
	resolveErr   error
	resolveTerm  string
	thumbErr     error
	thumbPath    string
	playlistErr  error
	playlistID   string
	authCalls    int
	uploadCalls  int
	thumbCalls   int
	addCalls     int
	resolveCalls int
}

func (f *fakeHosting) Authenticate(context.Context, string, string) (*youtube.Service, error) {
	f.authCalls++
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &youtube.Service{}, nil
}

func (f *fakeHosting) Upload(_ context.Context, _ *youtube.Service, req metadata.UploadRequest, _ string) (string, error) {
	f.uploadCalls++
	f.uploadReq = req
	return f.uploadID, f.uploadErr
}

func (f *fakeHosting) ListPlaylists(context.Context, *youtube.Service) ([]youtubesvc.PlaylistRef, error) {
	return nil, nil
}

func (f *fakeHosting) ResolvePlaylist(_ context.Context, _ *youtube.Service, term string) (*youtubesvc.PlaylistRef, error) {
	f.resolveCalls++
	f.resolveTerm = term
	return f.resolved, f.resolveErr
}

func (f *fakeHosting) AddToPlaylist(_ context.Context, _ *youtube.Service, _, playlistID string) error {
	f.addCalls++
	f.playlistID = playlistID
	return f.playlistErr
}

func (f *fakeHosting) SetThumbnail(_ context.Context, _ *youtube.Service, _, thumbnailPath string) error {
	f.thumbCalls++
	f.thumbPath = thumbnailPath
	return f.thumbErr
}

func testVideoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video"), 0644))
	return path
}

func baseOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		StreamURL:       "https://example.com/live/abc",
		OutputDir:       t.TempDir(),
		CredentialsPath: "credentials.json",
		TokenPath:       "token.json",
		Overrides:       metadata.Overrides{CategoryID: "28"},
	}
}

func TestRun_FullPipeline(t *testing.T) {
	videoPath := testVideoFile(t)
	dl := &fakeDownloader{result: &downloader.DownloadResult{
		FilePath: videoPath,
		Metadata: &downloader.StreamMetadata{Title: "Weekly Session", UploadDate: "20240115"},
	}}
	hosting := &fakeHosting{uploadID: "vid123"}

	err := New(dl, hosting).Run(context.Background(), baseOptions(t))
	require.NoError(t, err)

	assert.Equal(t, 1, dl.calls)
	assert.Equal(t, 1, hosting.authCalls)
	assert.Equal(t, 1, hosting.uploadCalls)
	assert.Equal(t, "Weekly Session", hosting.uploadReq.Title)
	assert.Equal(t, "2024-01-15T00:00:00.000Z", hosting.uploadReq.RecordingDate)
	assert.Zero(t, hosting.thumbCalls)
	assert.Zero(t, hosting.addCalls)
}

func TestRun_DownloadFailureAborts(t *testing.T) {
	dl := &fakeDownloader{err: errors.New("engine exploded")}
	hosting := &fakeHosting{}

	err := New(dl, hosting).Run(context.Background(), baseOptions(t))
	assert.ErrorContains(t, err, "download failed")
	assert.Zero(t, hosting.authCalls)
}

func TestRun_DownloadOnlySkipsUpload(t *testing.T) {
	dl := &fakeDownloader{result: &downloader.DownloadResult{FilePath: testVideoFile(t)}}
	hosting := &fakeHosting{}

	opts := baseOptions(t)
	opts.DownloadOnly = true

	require.NoError(t, New(dl, hosting).Run(context.Background(), opts))
	assert.Zero(t, hosting.authCalls)
	assert.Zero(t, hosting.uploadCalls)
}

func TestRun_AuthFailureAborts(t *testing.T) {
	dl := &fakeDownloader{result: &downloader.DownloadResult{FilePath: testVideoFile(t)}}
	hosting := &fakeHosting{authErr: errors.New("no refresh token")}

	err := New(dl, hosting).Run(context.Background(), baseOptions(t))
	assert.ErrorContains(t, err, "authentication failed")
	assert.Zero(t, hosting.uploadCalls)
}

func TestRun_UploadFailureAborts(t *testing.T) {
	dl := &fakeDownloader{result: &downloader.DownloadResult{FilePath: testVideoFile(t)}}
	hosting := &fakeHosting{uploadErr: errors.New("quota exceeded")}

	err := New(dl, hosting).Run(context.Background(), baseOptions(t))
	assert.ErrorContains(t, err, "upload failed")
}

func TestRun_PlaylistSearchFeedsUpload(t *testing.T) {
	dl := &fakeDownloader{result: &downloader.DownloadResult{FilePath: testVideoFile(t)}}
	hosting := &fakeHosting{
		uploadID: "vid123",
		resolved: &youtubesvc.PlaylistRef{ID: "PL9", Title: "Cybersec Tuesday Talks"},
	}

	opts := baseOptions(t)
	opts.PlaylistSearch = "cybersec"

	require.NoError(t, New(dl, hosting).Run(context.Background(), opts))
	assert.Equal(t, 1, hosting.resolveCalls)
	assert.Equal(t, "cybersec", hosting.resolveTerm)
	assert.Equal(t, 1, hosting.addCalls)
	assert.Equal(t, "PL9", hosting.playlistID)
}

func TestRun_ExplicitPlaylistSkipsSearch(t *testing.T) {
	dl := &fakeDownloader{result: &downloader.DownloadResult{FilePath: testVideoFile(t)}}
	hosting := &fakeHosting{uploadID: "vid123"}

	opts := baseOptions(t)
	opts.Overrides.PlaylistID = "PL42"
	opts.PlaylistSearch = "cybersec"

	require.NoError(t, New(dl, hosting).Run(context.Background(), opts))
	assert.Zero(t, hosting.resolveCalls)
	assert.Equal(t, "PL42", hosting.playlistID)
}

func TestRun_SideEffectFailuresAreSwallowed(t *testing.T) {
	videoPath := testVideoFile(t)
	// Sibling thumbnail so the composer picks it up.
	thumbPath := videoPath[:len(videoPath)-len(".mp4")] + ".jpg"
	require.NoError(t, os.WriteFile(thumbPath, []byte("img"), 0644))

	dl := &fakeDownloader{result: &downloader.DownloadResult{FilePath: videoPath}}
	hosting := &fakeHosting{
		uploadID:    "vid123",
		thumbErr:    errors.New("thumbnail rejected"),
		playlistErr: errors.New("playlist gone"),
	}

	opts := baseOptions(t)
	opts.Overrides.PlaylistID = "PL42"

	require.NoError(t, New(dl, hosting).Run(context.Background(), opts))
	assert.Equal(t, 1, hosting.thumbCalls)
	assert.Equal(t, thumbPath, hosting.thumbPath)
	assert.Equal(t, 1, hosting.addCalls)
}

func TestRun_NoPlaylistMatchWarnsAndContinues(t *testing.T) {
	dl := &fakeDownloader{result: &downloader.DownloadResult{FilePath: testVideoFile(t)}}
	hosting := &fakeHosting{uploadID: "vid123"}

	opts := baseOptions(t)
	opts.PlaylistSearch = "nonexistent"

	require.NoError(t, New(dl, hosting).Run(context.Background(), opts))
	assert.Equal(t, 1, hosting.resolveCalls)
	assert.Zero(t, hosting.addCalls)
}
