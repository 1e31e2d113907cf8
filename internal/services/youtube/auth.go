package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vodtools/streamreup/internal/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Required OAuth scopes for the hosting API
var requiredScopes = []string{
	youtube.YoutubeReadonlyScope,
	youtube.YoutubeUploadScope,
	youtube.YoutubeForceSslScope,
}

// oauthCallbackPort is where the interactive flow's redirect lands.
const oauthCallbackPort = 8080

// TokenStore persists the OAuth token at an explicit path so separate runs
// reuse the same authorization.
type TokenStore struct {
	path string
}

// NewTokenStore creates a token store backed by the given file
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the persisted token. A missing file yields (nil, nil).
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// Save writes the token back to disk
func (s *TokenStore) Save(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Authenticate loads or obtains an OAuth token and returns an authenticated
// client handle. The token file is rewritten after a refresh or a fresh
// authorization, never after a plain reuse.
func (m *Service) Authenticate(ctx context.Context, credentialsPath, tokenPath string) (*youtube.Service, error) {
	credentials, err := os.ReadFile(credentialsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("credentials file %s not found: download your OAuth 2.0 credentials from the Google Cloud Console", credentialsPath)
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(credentials, requiredScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth config: %w", err)
	}

	store := NewTokenStore(tokenPath)
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	switch {
	case token != nil && token.Valid():
		utils.LogInfo("Using existing authorization token")

	case token != nil && token.RefreshToken != "":
		refreshed, err := config.TokenSource(ctx, token).Token()
		if err != nil {
			return nil, fmt.Errorf("failed to refresh token: %w", err)
		}
		token = refreshed
		if err := store.Save(token); err != nil {
			utils.LogWarning("Failed to save refreshed token: %v", err)
		}
		utils.LogInfo("Refreshed authorization token")

	default:
		token, err = runInteractiveFlow(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := store.Save(token); err != nil {
			utils.LogWarning("Failed to save token: %v", err)
		}
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return service, nil
}

// runInteractiveFlow walks the user through browser authorization and
// exchanges the resulting code for a token.
func runInteractiveFlow(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	callbackServer := NewOAuthCallbackServer()
	if err := callbackServer.Start(oauthCallbackPort); err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() {
		if err := callbackServer.Stop(); err != nil {
			utils.LogWarning("Failed to stop callback server: %v", err)
		}
	}()

	config.RedirectURL = fmt.Sprintf("http://localhost:%d", oauthCallbackPort)

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	utils.LogInfo("Authorize this application at: %s", authURL)
	if err := callbackServer.OpenURL(authURL); err != nil {
		utils.LogWarning("Could not open browser automatically: %v", err)
	}

	code, err := callbackServer.WaitForCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for authorization code: %w", err)
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return token, nil
}
