// Package metadata composes the upload request for a downloaded stream by
// merging caller overrides with extracted sidecar metadata and built-in
// defaults.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vodtools/streamreup/internal/services/downloader"
	"github.com/vodtools/streamreup/internal/utils"
)

// defaultDescription is used when neither an override nor extracted metadata
// provides one.
const defaultDescription = "Video downloaded from live stream and re-uploaded."

// maxLanguageLen is the longest BCP-47 tag the upload API accepts for the
// default language fields.
const maxLanguageLen = 5

// thumbnailExtensions is the fixed probe order for sidecar thumbnails.
var thumbnailExtensions = []string{"jpg", "jpeg", "png", "webp"}

// Overrides carries caller-supplied metadata that wins over anything
// extracted at download time.
type Overrides struct {
	Title         string
	Description   string
	Tags          []string
	PrivacyStatus string
	CategoryID    string
	PlaylistID    string
}

// UploadRequest is the fully resolved metadata for one upload.
type UploadRequest struct {
	Title                string
	Description          string
	Tags                 []string
	CategoryID           string
	PrivacyStatus        string
	RecordingDate        string // ISO-8601, empty when unknown
	DefaultLanguage      string
	DefaultAudioLanguage string
	ThumbnailPath        string // empty when no sidecar thumbnail was found
	PlaylistID           string
}

// Compose resolves every upload field with override > extracted > default
// precedence. extracted may be nil. The category ID has no default: it is
// channel-specific and must come from the caller.
func Compose(videoPath string, ov Overrides, extracted *downloader.StreamMetadata) (UploadRequest, error) {
	if ov.CategoryID == "" {
		return UploadRequest{}, fmt.Errorf("category ID is required: set --category or categoryId in the config file")
	}

	var exTitle, exDescription, exUploadDate, exLanguage string
	var exTags []string
	if extracted != nil {
		exTitle = extracted.Title
		exDescription = extracted.Description
		exTags = extracted.Tags
		exUploadDate = extracted.UploadDate
		exLanguage = extracted.Language
	}

	language := resolve("", exLanguage, "en")
	if len(language) > maxLanguageLen {
		language = "en"
	}

	req := UploadRequest{
		Title:                resolve(ov.Title, exTitle, "Re-uploaded Stream - "+utils.FileStem(videoPath)),
		Description:          resolve(ov.Description, exDescription, defaultDescription),
		Tags:                 resolveTags(ov.Tags, exTags),
		CategoryID:           ov.CategoryID,
		PrivacyStatus:        resolve(ov.PrivacyStatus, "", "private"),
		RecordingDate:        convertRecordingDate(exUploadDate),
		DefaultLanguage:      language,
		DefaultAudioLanguage: language,
		ThumbnailPath:        FindThumbnail(videoPath),
		PlaylistID:           ov.PlaylistID,
	}

	return req, nil
}

// resolve picks the first non-empty value of override, extracted, fallback.
func resolve(override, extracted, fallback string) string {
	if override != "" {
		return override
	}
	if extracted != "" {
		return extracted
	}
	return fallback
}

func resolveTags(override, extracted []string) []string {
	if len(override) > 0 {
		return override
	}
	if len(extracted) > 0 {
		return extracted
	}
	return []string{}
}

// convertRecordingDate turns an 8-digit YYYYMMDD string into the ISO-8601
// form the upload API expects. Anything else is dropped with a warning.
func convertRecordingDate(date string) string {
	if date == "" {
		return ""
	}
	if len(date) != 8 || !isDigits(date) {
		utils.LogWarning("Invalid recording date format: %s. Skipping recording date.", date)
		return ""
	}
	return fmt.Sprintf("%s-%s-%sT00:00:00.000Z", date[:4], date[4:6], date[6:8])
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FindThumbnail probes for a sibling image sharing the video's base name.
// The first extension in thumbnailExtensions that exists wins.
func FindThumbnail(videoPath string) string {
	stem := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	for _, ext := range thumbnailExtensions {
		candidate := stem + "." + ext
		if _, err := os.Stat(candidate); err == nil {
			utils.LogInfo("Found thumbnail: %s", candidate)
			return candidate
		}
	}
	utils.LogInfo("No thumbnail file found for upload")
	return ""
}
