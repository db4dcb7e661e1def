package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
)

// KeycloakConfig описывает realm и клиента, по которым проверяются токены.
type KeycloakConfig struct {
	ServerURL    string
	Realm        string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// KeycloakClaims - часть claims токена Keycloak, которую читает сервис.
type KeycloakClaims struct {
	UserID      string `json:"sub"`
	Username    string `json:"preferred_username"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	TenantID    string `json:"tenant_id"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	ResourceAccess map[string]struct {
		Roles []string `json:"roles"`
	} `json:"resource_access"`
}

// Roles объединяет роли realm и роли, выданные для clientID.
func (c *KeycloakClaims) Roles(clientID string) []string {
	roles := append([]string(nil), c.RealmAccess.Roles...)
	if clientRoles, exists := c.ResourceAccess[clientID]; exists {
		roles = append(roles, clientRoles.Roles...)
	}
	return roles
}

// KeycloakClient проверяет access токены Keycloak и реализует interfaces.AuthPort.
type KeycloakClient struct {
	provider     *oidc.Provider
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
	tokenCache   *cache.Cache
	clientID     string
	realm        string
	serverURL    string
}

func NewKeycloakClient(ctx context.Context, cfg KeycloakConfig) (*KeycloakClient, error) {
	providerURL := fmt.Sprintf("%s/realms/%s", cfg.ServerURL, cfg.Realm)

	provider, err := oidc.NewProvider(ctx, providerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create oidc provider: %w", err)
	}

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID:        cfg.ClientID,
		SkipIssuerCheck: true,
	})

	return &KeycloakClient{
		provider:     provider,
		verifier:     verifier,
		oauth2Config: oauth2Config,
		tokenCache:   cache.New(5*time.Minute, 10*time.Minute),
		clientID:     cfg.ClientID,
		realm:        cfg.Realm,
		serverURL:    cfg.ServerURL,
	}, nil
}

// ValidateToken проверяет подпись и срок действия токена. Проверенные
// principal кэшируются до истечения токена.
func (k *KeycloakClient) ValidateToken(ctx context.Context, tokenString string) (*interfaces.Principal, error) {
	if cached, found := k.tokenCache.Get(tokenString); found {
		return cached.(*interfaces.Principal), nil
	}

	idToken, err := k.verifier.Verify(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var claims KeycloakClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to extract claims: %w", err)
	}

	principal := &interfaces.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		TenantID: claims.TenantID,
		Roles:    claims.Roles(k.clientID),
	}

	if expiresIn := time.Until(idToken.Expiry); expiresIn > 0 {
		k.tokenCache.Set(tokenString, principal, expiresIn)
	}

	return principal, nil
}

func (k *KeycloakClient) HasRole(principal *interfaces.Principal, role string) bool {
	return hasRole(principal, role)
}

func (k *KeycloakClient) HasAnyRole(principal *interfaces.Principal, roles ...string) bool {
	return hasAnyRole(principal, roles...)
}

// GetAuthURL возвращает url входа для authorization code flow.
func (k *KeycloakClient) GetAuthURL(state string) string {
	return k.oauth2Config.AuthCodeURL(state)
}

// ExchangeCode обменивает код авторизации на токены.
func (k *KeycloakClient) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return k.oauth2Config.Exchange(ctx, code)
}

func hasRole(principal *interfaces.Principal, role string) bool {
	if principal == nil {
		return false
	}
	for _, r := range principal.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func hasAnyRole(principal *interfaces.Principal, roles ...string) bool {
	for _, role := range roles {
		if hasRole(principal, role) {
			return true
		}
	}
	return false
}
