package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// Client is an optional cover-art fallback provider. It only operates
// when client credentials are configured; a disabled client is a valid
// collaborator that simply never contributes art.
type Client struct {
	id     string
	secret string
	client *spotify.Client
}

// NewClient creates a Spotify client with the given credentials. Empty
// credentials leave the client disabled.
func NewClient(id, secret string) *Client {
	return &Client{id: id, secret: secret}
}

// Enabled reports whether credentials are configured.
func (s *Client) Enabled() bool {
	return s.id != "" && s.secret != ""
}

// Authenticate performs the client-credentials flow.
func (s *Client) Authenticate(ctx context.Context) error {
	if !s.Enabled() {
		return fmt.Errorf("spotify credentials not configured")
	}
	config := &clientcredentials.Config{
		ClientID:     s.id,
		ClientSecret: s.secret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return err
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	s.client = spotify.New(httpClient)
	return nil
}

// FindAlbumArt searches for the album by artist and title and returns the
// largest cover image URL, or "" when nothing matches.
func (s *Client) FindAlbumArt(ctx context.Context, artist, album string) (string, error) {
	if s.client == nil {
		if err := s.Authenticate(ctx); err != nil {
			return "", err
		}
	}

	query := fmt.Sprintf("artist:%s album:%s", artist, album)
	results, err := s.client.Search(ctx, query, spotify.SearchTypeAlbum, spotify.Limit(1))
	if err != nil {
		return "", err
	}
	if results.Albums == nil || len(results.Albums.Albums) == 0 {
		return "", nil
	}

	images := results.Albums.Albums[0].Images
	if len(images) == 0 {
		return "", nil
	}
	// Spotify orders images largest first.
	return images[0].URL, nil
}
