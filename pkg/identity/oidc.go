package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Config holds the OIDC verifier settings
type Config struct {
	IssuerURL       string
	ClientID        string
	SkipIssuerCheck bool
}

// TokenVerifier turns a raw bearer token into a principal
type TokenVerifier interface {
	Authenticate(ctx context.Context, rawToken string) (*Principal, error)
}

// Authenticator verifies ID tokens issued by a discovered OIDC provider
type Authenticator struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewAuthenticator discovers the OIDC provider and builds a token verifier
func NewAuthenticator(ctx context.Context, config Config) (*Authenticator, error) {
	if config.IssuerURL == "" {
		return nil, fmt.Errorf("issuer URL is required")
	}
	if config.ClientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}

	provider, err := oidc.NewProvider(ctx, config.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID:        config.ClientID,
		SkipIssuerCheck: config.SkipIssuerCheck,
	})

	return &Authenticator{
		provider: provider,
		verifier: verifier,
	}, nil
}

// Authenticate verifies a raw ID token and extracts the principal. When
// the token carries no email claim the provider's userinfo endpoint is
// consulted before giving up.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*Principal, error) {
	idToken, err := a.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	if claims.Email == "" {
		claims.Email, _ = a.fetchEmail(ctx, rawToken)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("missing email in OIDC token")
	}

	return &Principal{
		UserID: idToken.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

// fetchEmail asks the userinfo endpoint for the email claim
func (a *Authenticator) fetchEmail(ctx context.Context, rawToken string) (string, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: rawToken})
	userInfo, err := a.provider.UserInfo(ctx, source)
	if err != nil {
		return "", err
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := userInfo.Claims(&claims); err != nil {
		return "", err
	}
	return claims.Email, nil
}

// Middleware rejects requests without a verifiable bearer token and
// attaches the principal to the request context.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := bearerToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			principal, err := verifier.Authenticate(r.Context(), rawToken)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("malformed Authorization header")
	}
	return parts[1], nil
}
