package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gravadigital/encuentro-api/internal/apperror"
)

// Identity is what the federated provider asserts about the caller.
type Identity struct {
	Email         string
	EmailVerified bool
	Name          string
}

// GoogleVerifier validates a Google-issued identity token.
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (Identity, error)
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// googleTokenInfo is the subset of the tokeninfo response we consume.
type googleTokenInfo struct {
	Audience      string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleTokenVerifier verifies id tokens against Google's tokeninfo endpoint
// and checks the audience against the configured client id.
type GoogleTokenVerifier struct {
	clientID string
	endpoint string
	client   *http.Client
}

// NewGoogleTokenVerifier creates a verifier for the given OAuth client id.
func NewGoogleTokenVerifier(clientID string) *GoogleTokenVerifier {
	return &GoogleTokenVerifier{
		clientID: clientID,
		endpoint: googleTokenInfoURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint overrides the tokeninfo endpoint, used by tests.
func (g *GoogleTokenVerifier) WithEndpoint(endpoint string) *GoogleTokenVerifier {
	g.endpoint = endpoint
	return g
}

func (g *GoogleTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (Identity, error) {
	if idToken == "" {
		return Identity{}, apperror.New(apperror.KindMissingCredentials, "identity token is required")
	}

	reqURL := g.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Identity{}, apperror.Wrap(apperror.KindMalformedToken, err, "identity provider is unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, apperror.New(apperror.KindMalformedToken, "identity token was rejected by the provider")
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, apperror.Wrap(apperror.KindMalformedToken, err, "failed to decode tokeninfo response")
	}

	if g.clientID != "" && info.Audience != g.clientID {
		return Identity{}, apperror.New(apperror.KindMalformedToken, "identity token audience mismatch")
	}

	return Identity{
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		Name:          info.Name,
	}, nil
}
