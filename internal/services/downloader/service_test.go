package downloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrictFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain title", "recording", "recording"},
		{"spaces become underscores", "My Live Stream", "My_Live_Stream"},
		{"punctuation replaced", "Q&A: part 1!", "Q_A_part_1"},
		{"non-ascii dropped", "café stream", "caf_stream"},
		{"kept characters", "ep-01_final.v2", "ep-01_final.v2"},
		{"collapses underscores", "a   -   b", "a_-_b"},
		{"everything stripped", "éèê", "stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RestrictFilename(tt.title))
		})
	}
}

func TestTargetPath(t *testing.T) {
	// yt-dlp's own transliteration wins over the fallback sanitizer.
	info := &streamInfo{Title: "café stream", Ext: "mp4", Filename: filepath.Join("out", "cafe_stream.mp4")}
	assert.Equal(t, filepath.Join("out", "cafe_stream.mp4"), targetPath("out", info))

	// Older yt-dlp only reports _filename; a bare name lands in outputDir.
	info = &streamInfo{Title: "café stream", Ext: "mp4", LegacyFilename: "cafe_stream.mp4"}
	assert.Equal(t, filepath.Join("out", "cafe_stream.mp4"), targetPath("out", info))

	info = &streamInfo{Title: "My Live Stream", Ext: "mp4"}
	assert.Equal(t, filepath.Join("out", "My_Live_Stream.mp4"), targetPath("out", info))

	// Missing extension falls back to mp4.
	info = &streamInfo{Title: "clip"}
	assert.Equal(t, filepath.Join("out", "clip.mp4"), targetPath("out", info))
}

func TestStreamInfoReportedFilename(t *testing.T) {
	assert.Equal(t, "a.mp4", (&streamInfo{Filename: "a.mp4", LegacyFilename: "b.mp4"}).reportedFilename())
	assert.Equal(t, "b.mp4", (&streamInfo{LegacyFilename: "b.mp4"}).reportedFilename())
	assert.Empty(t, (&streamInfo{}).reportedFilename())
}

func TestStreamInfoExpectedSize(t *testing.T) {
	assert.Equal(t, int64(100), (&streamInfo{Filesize: 100, FilesizeApprox: 90}).expectedSize())
	assert.Equal(t, int64(90), (&streamInfo{FilesizeApprox: 90.4}).expectedSize())
	assert.Equal(t, int64(0), (&streamInfo{}).expectedSize())
}

func TestReadSidecarMetadata(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "My_Stream.mp4")
	sidecar := `{
		"title": "My Stream",
		"description": "weekly session",
		"tags": ["go", "security"],
		"upload_date": "20240115",
		"language": "en",
		"is_live": true,
		"filesize_approx": 1234.5
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "My_Stream.info.json"), []byte(sidecar), 0644))

	meta, err := readSidecarMetadata(mediaPath)
	require.NoError(t, err)
	assert.Equal(t, "My Stream", meta.Title)
	assert.Equal(t, "weekly session", meta.Description)
	assert.Equal(t, []string{"go", "security"}, meta.Tags)
	assert.Equal(t, "20240115", meta.UploadDate)
	assert.Equal(t, "en", meta.Language)
	assert.True(t, meta.IsLive)
}

func TestReadSidecarMetadata_Missing(t *testing.T) {
	_, err := readSidecarMetadata(filepath.Join(t.TempDir(), "nope.mp4"))
	assert.Error(t, err)
}

func TestReadSidecarMetadata_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.info.json"), []byte("{"), 0644))

	_, err := readSidecarMetadata(filepath.Join(dir, "bad.mp4"))
	assert.Error(t, err)
}
