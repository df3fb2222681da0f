// Package firebase connects to Firebase Authentication so that users signed
// in there can exchange their ID token for a local access token.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Options selects the service account and project whose ID tokens are accepted.
type Options struct {
	CredentialsPath string
	// ProjectID overrides the project named in the credentials file.
	ProjectID string
}

// NewAuthClient returns an auth client able to verify ID tokens.
func NewAuthClient(ctx context.Context, opts Options) (*auth.Client, error) {
	if opts.CredentialsPath == "" {
		return nil, errors.New("firebase credentials path not provided")
	}

	var appConfig *firebase.Config
	if opts.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: opts.ProjectID}
	}
	app, err := firebase.NewApp(ctx, appConfig, option.WithCredentialsFile(opts.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	log.Printf("Firebase auth ready (credentials %s)", opts.CredentialsPath)
	return client, nil
}
