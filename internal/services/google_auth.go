package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"drive-activity-notifier/internal/log"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/driveactivity/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

var (
	ErrTokenFileMissing = errors.New("no saved Google credentials found")
	ErrTokenFileInvalid = errors.New("saved Google credentials are invalid")
)

// GoogleScopes are requested when the token file describes credentials that honour scopes.
var GoogleScopes = []string{
	drive.DriveScope,
	driveactivity.DriveActivityReadonlyScope,
	people.UserinfoEmailScope,
	people.ContactsOtherReadonlyScope,
	people.DirectoryReadonlyScope,
}

// LoadGoogleClientOptions reads a saved "authorized_user" token file and returns
// the client options every Google API service in this repo is built with.
// Refreshing the access token is left to oauth2.
func LoadGoogleClientOptions(ctx context.Context, tokenPath string) ([]option.ClientOption, error) {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrTokenFileMissing, tokenPath)
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", tokenPath, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, GoogleScopes...)
	if err != nil {
		log.Error(ctx, "Failed to parse saved Google credentials",
			"error", err,
			"token_path", tokenPath,
			"operation", "load_google_credentials",
		)
		return nil, fmt.Errorf("%w: %w", ErrTokenFileInvalid, err)
	}

	return []option.ClientOption{option.WithCredentials(creds)}, nil
}
