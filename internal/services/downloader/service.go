package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vodtools/streamreup/internal/utils"

	"github.com/lrstanley/go-ytdlp"
)

// defaultFormat prefers an mp4 container so the upload stage can send a
// single well-known MIME type.
const defaultFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/bestvideo+bestaudio/best"

// Service drives yt-dlp to download a stream with sidecar metadata and
// thumbnail files.
type Service struct {
	// Format is the yt-dlp format selector. Empty means defaultFormat.
	Format string
}

// NewService creates a new download service
func NewService() *Service {
	return &Service{Format: defaultFormat}
}

// streamInfo mirrors the fields of yt-dlp's info JSON that the pipeline
// consumes, both from --dump-single-json output and from the sidecar
// .info.json file. Size fields are floats because yt-dlp emits
// filesize_approx as a float.
type streamInfo struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	UploadDate     string   `json:"upload_date"`
	Language       string   `json:"language"`
	IsLive         bool     `json:"is_live"`
	Ext            string   `json:"ext"`
	Filesize       float64  `json:"filesize"`
	FilesizeApprox float64  `json:"filesize_approx"`
	Filename       string   `json:"filename"`
	LegacyFilename string   `json:"_filename"`
}

// reportedFilename is the target path yt-dlp computed from the output
// template. Older yt-dlp versions only emit _filename.
func (i *streamInfo) reportedFilename() string {
	if i.Filename != "" {
		return i.Filename
	}
	return i.LegacyFilename
}

func (i *streamInfo) expectedSize() int64 {
	if i.Filesize > 0 {
		return int64(i.Filesize)
	}
	return int64(i.FilesizeApprox)
}

func (i *streamInfo) metadata() *StreamMetadata {
	return &StreamMetadata{
		Title:       i.Title,
		Description: i.Description,
		Tags:        i.Tags,
		UploadDate:  i.UploadDate,
		Language:    i.Language,
		IsLive:      i.IsLive,
	}
}

// Download fetches the stream at streamURL into outputDir. An existing file
// at the resolved target path is reused when it passes the integrity check,
// deleted and re-downloaded otherwise.
func (s *Service) Download(ctx context.Context, streamURL, outputDir string) (*DownloadResult, error) {
	utils.LogInfo("Starting download of stream: %s", streamURL)

	if err := utils.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	info, err := s.probe(ctx, streamURL, outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to probe stream: %w", err)
	}

	if info.IsLive {
		utils.LogWarning("Stream is currently live. Downloading live streams may be incomplete.")
	}

	target := targetPath(outputDir, info)

	if _, err := os.Stat(target); err == nil {
		verifyErr := VerifyFileIntegrity(target, info.expectedSize())
		if verifyErr == nil {
			utils.LogInfo("Video already exists and is valid: %s", target)
			return &DownloadResult{FilePath: target, Metadata: info.metadata()}, nil
		}
		utils.LogInfo("Existing file is corrupted or incomplete, re-downloading: %s (%v)", target, verifyErr)
		if err := os.Remove(target); err != nil {
			utils.LogWarning("Could not remove corrupted file %s: %v", target, err)
		}
	}

	path, err := s.fetch(ctx, streamURL, outputDir, target)
	if err != nil {
		return nil, fmt.Errorf("failed to download stream: %w", err)
	}

	meta := info.metadata()
	if sidecar, err := readSidecarMetadata(path); err != nil {
		utils.LogWarning("Could not read sidecar metadata for %s: %v", path, err)
	} else {
		meta = sidecar
	}

	utils.LogSuccess("Download completed: %s", path)
	return &DownloadResult{FilePath: path, Metadata: meta}, nil
}

// probe extracts stream metadata without downloading anything. It carries
// the same format and output template as the real download so the filename
// yt-dlp reports matches the eventual target path.
func (s *Service) probe(ctx context.Context, streamURL, outputDir string) (*streamInfo, error) {
	dl := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		Format(s.format()).
		Output(filepath.Join(outputDir, "%(title)s.%(ext)s")).
		RestrictFilenames()

	result, err := dl.Run(ctx, streamURL)
	if err != nil {
		return nil, err
	}

	var info streamInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return nil, fmt.Errorf("failed to parse stream info: %w", err)
	}
	if info.Title == "" {
		return nil, fmt.Errorf("stream info has no title")
	}
	return &info, nil
}

func (s *Service) format() string {
	if s.Format == "" {
		return defaultFormat
	}
	return s.Format
}

// fetch runs the actual download and returns the path of the media file.
func (s *Service) fetch(ctx context.Context, streamURL, outputDir, fallback string) (string, error) {
	dl := ytdlp.New().
		Format(s.format()).
		Output(filepath.Join(outputDir, "%(title)s.%(ext)s")).
		RestrictFilenames().
		WriteInfoJSON().
		WriteThumbnail()

	lastPercent := -1
	dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
		if update.TotalBytes <= 0 {
			return
		}
		percent := int(float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100)
		if percent != lastPercent {
			lastPercent = percent
			utils.LogVerbose("Download progress: %d%%", percent)
		}
	})

	result, err := dl.Run(ctx, streamURL)
	if err != nil {
		return "", err
	}

	// Prefer the path yt-dlp reports; fall back to the computed target.
	if result != nil {
		if extracted, err := result.GetExtractedInfo(); err == nil && len(extracted) > 0 {
			if extracted[0].Filename != nil && *extracted[0].Filename != "" {
				return *extracted[0].Filename, nil
			}
		}
	}

	return fallback, nil
}

// targetPath resolves the deterministic download target for a stream before
// any download happens. The filename the probe reports wins; the sanitized
// title is a fallback for probes that report none.
func targetPath(outputDir string, info *streamInfo) string {
	if name := info.reportedFilename(); name != "" {
		if filepath.Dir(name) != "." {
			return name
		}
		return filepath.Join(outputDir, name)
	}

	ext := info.Ext
	if ext == "" {
		ext = "mp4"
	}
	return filepath.Join(outputDir, RestrictFilename(info.Title)+"."+ext)
}

// readSidecarMetadata parses the .info.json file yt-dlp writes next to the
// media file.
func readSidecarMetadata(mediaPath string) (*StreamMetadata, error) {
	stem := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	data, err := os.ReadFile(stem + ".info.json")
	if err != nil {
		return nil, err
	}

	var info streamInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar metadata: %w", err)
	}
	return info.metadata(), nil
}

// RestrictFilename approximates yt-dlp's --restrict-filenames sanitization:
// ASCII letters, digits, dot, dash and underscore survive, spaces become
// underscores, everything else is dropped or replaced, runs of underscores
// collapse and leading/trailing underscores are trimmed. It does not
// transliterate accented characters the way yt-dlp does, so it only serves
// as a fallback when the probe reports no filename.
func RestrictFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte('_')
		case r < 128:
			b.WriteByte('_')
		}
	}

	name := b.String()
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	name = strings.Trim(name, "_")
	if name == "" {
		name = "stream"
	}
	return name
}
