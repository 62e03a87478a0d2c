package auth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/endpoints"
)

// DatabaseScope is the resource scope for Azure SQL access tokens.
const DatabaseScope = "https://database.windows.net/.default"

// TokenProvider exchanges service principal credentials for access tokens.
// The underlying token source caches the token and refreshes it when it
// nears expiry, so Token can be called on every connection attempt.
type TokenProvider struct {
	source oauth2.TokenSource
}

func NewTokenProvider(clientID, clientSecret, tenantID, scope string) *TokenProvider {
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     endpoints.AzureAD(tenantID).TokenURL,
		Scopes:       []string{scope},
	}

	return &TokenProvider{
		source: cc.TokenSource(context.Background()),
	}
}

// Token returns a currently valid access token.
func (p *TokenProvider) Token() (string, error) {
	tok, err := p.source.Token()
	if err != nil {
		return "", err
	}

	return tok.AccessToken, nil
}
