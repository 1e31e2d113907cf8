package cmd

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/vodtools/streamreup/internal/config"
	"github.com/vodtools/streamreup/internal/metadata"
	"github.com/vodtools/streamreup/internal/pipeline"
	"github.com/vodtools/streamreup/internal/services/downloader"
	youtubesvc "github.com/vodtools/streamreup/internal/services/youtube"
	"github.com/vodtools/streamreup/internal/utils"
	"github.com/vodtools/streamreup/internal/validator"

	"github.com/spf13/cobra"
)

var (
	// verbosityLevel is the command-line flag for setting the log level
	verbosityLevel string

	outputPath          string
	credentialsPath     string
	tokenPath           string
	titleOverride       string
	descriptionOverride string
	tagOverrides        []string
	privacyStatus       string
	playlistID          string
	playlistSearch      string
	listPlaylists       bool
	downloadOnly        bool
	categoryID          string
	configPath          string
)

var rootCmd = &cobra.Command{
	Use:   "streamreup [stream_url]",
	Short: "Download a live stream and re-upload it as a regular video",
	Long: `Streamreup downloads a video originally published as a live stream
and re-publishes it as a standard on-demand video on the same platform,
optionally attaching a thumbnail and assigning it to a playlist.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set the global log level based on the flag
		logLevel := utils.LogLevelFromString(verbosityLevel)
		utils.SetLogLevel(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validatePrivacy(privacyStatus); err != nil {
			return err
		}

		defaults, err := config.Load(configPath)
		if err != nil {
			return err
		}

		credentials, err := utils.ExpandHomeDir(credentialsPath)
		if err != nil {
			return err
		}
		token, err := utils.ExpandHomeDir(tokenPath)
		if err != nil {
			return err
		}

		hosting := youtubesvc.NewService()
		ctx := cmd.Context()

		if listPlaylists {
			return runListPlaylists(ctx, hosting, credentials, token)
		}

		if len(args) != 1 {
			return fmt.Errorf("stream URL is required")
		}

		if err := validator.ValidateExternalTools(); err != nil {
			return fmt.Errorf("dependency validation failed: %w", err)
		}

		opts := buildOptions(cmd, args[0], defaults, credentials, token)
		if !opts.DownloadOnly && opts.Overrides.CategoryID == "" {
			return fmt.Errorf("category ID is required: set --category or categoryId in the config file")
		}

		return pipeline.New(downloader.NewService(), hosting).Run(ctx, opts)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// buildOptions merges flags and config-file defaults into pipeline options.
// Flags win over the config file; extracted metadata and built-in defaults
// are resolved later by the metadata composer.
func buildOptions(cmd *cobra.Command, streamURL string, defaults *config.Defaults, credentials, token string) pipeline.Options {
	privacy := privacyStatus
	if !cmd.Flags().Changed("privacy") && defaults.Privacy != "" {
		privacy = defaults.Privacy
	}

	category := categoryID
	if category == "" {
		category = defaults.CategoryID
	}

	playlist := playlistID
	if playlist == "" {
		playlist = defaults.PlaylistID
	}

	search := playlistSearch
	if search == "" && playlist == "" {
		search = defaults.PlaylistSearch
	}

	return pipeline.Options{
		StreamURL:       streamURL,
		OutputDir:       outputPath,
		CredentialsPath: credentials,
		TokenPath:       token,
		Overrides: metadata.Overrides{
			Title:         titleOverride,
			Description:   descriptionOverride,
			Tags:          tagOverrides,
			PrivacyStatus: privacy,
			CategoryID:    category,
			PlaylistID:    playlist,
		},
		PlaylistSearch: search,
		DownloadOnly:   downloadOnly,
	}
}

func validatePrivacy(privacy string) error {
	switch privacy {
	case "private", "public", "unlisted":
		return nil
	}
	return fmt.Errorf("invalid privacy status: %s (expected private, public or unlisted)", privacy)
}

// runListPlaylists prints the channel's playlists and always reports
// success so scripted listing never fails the invocation.
func runListPlaylists(ctx context.Context, hosting youtubesvc.YouTubeService, credentials, token string) error {
	client, err := hosting.Authenticate(ctx, credentials, token)
	if err != nil {
		utils.LogError("Failed to authenticate: %v", err)
		fmt.Println("No playlists found or authentication failed")
		return nil
	}

	playlists, err := hosting.ListPlaylists(ctx, client)
	if err != nil {
		utils.LogError("Error listing playlists: %v", err)
		fmt.Println("No playlists found or authentication failed")
		return nil
	}

	if len(playlists) == 0 {
		fmt.Println("No playlists found")
		return nil
	}

	fmt.Println("Available playlists:")
	for _, playlist := range playlists {
		fmt.Printf("  ID: %s\n", playlist.ID)
		fmt.Printf("  Title: %s\n", playlist.Title)
		if playlist.Description != "" {
			fmt.Printf("  Description: %s\n", truncate(playlist.Description, 100))
		}
		fmt.Println()
	}
	return nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

func init() {
	// Initialize global flags
	rootCmd.PersistentFlags().StringVarP(&verbosityLevel, "log-level", "l", "normal",
		"Set the logging verbosity level: quiet, normal, verbose, debug")

	rootCmd.Flags().StringVar(&outputPath, "output-path", "./downloads", "Output directory for downloads")
	rootCmd.Flags().StringVar(&credentialsPath, "credentials", "credentials.json", "OAuth credentials file")
	rootCmd.Flags().StringVar(&tokenPath, "token", "token.json", "OAuth token file")
	rootCmd.Flags().StringVar(&titleOverride, "title", "", "Custom title for the uploaded video")
	rootCmd.Flags().StringVar(&descriptionOverride, "description", "", "Custom description for the uploaded video")
	rootCmd.Flags().StringArrayVar(&tagOverrides, "tags", nil, "Custom tags for the uploaded video (repeatable)")
	rootCmd.Flags().StringVar(&privacyStatus, "privacy", "private", "Privacy status for the uploaded video: private, public, unlisted")
	rootCmd.Flags().StringVar(&playlistID, "playlist", "", "Playlist ID to add the video to")
	rootCmd.Flags().StringVar(&playlistSearch, "playlist-search", "", "Search for a playlist by title")
	rootCmd.Flags().BoolVar(&listPlaylists, "list-playlists", false, "List all available playlists and exit")
	rootCmd.Flags().BoolVar(&downloadOnly, "download-only", false, "Only download, do not upload")
	rootCmd.Flags().StringVar(&categoryID, "category", "", "Video category ID (required for uploads unless set in the config file)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML defaults file (default streamreup.yaml when present)")
}
