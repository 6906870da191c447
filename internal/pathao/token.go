package pathao

import (
	"context"
	"net/http"
	"time"
	
	"github.com/rs/zerolog/log"
)

type issueTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	GrantType    string `json:"grant_type"`
}

type issueTokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticate returns a bearer token, issuing a new one when the cached token
// is missing or expires within five minutes. Concurrent callers share one
// issue-token round trip.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if accessToken, ok := c.cachedToken(ctx); ok {
		return accessToken, nil
	}
	
	// The flight is detached from the first caller's ctx, each caller waits on its own.
	ch := c.group.DoChan(issueTokenPath, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.RequestTimeout)
		defer cancel()
		
		// A flight that finished just before this one may already have refreshed the token.
		if accessToken, ok := c.cachedToken(flightCtx); ok {
			return accessToken, nil
		}
		return c.issueToken(flightCtx)
	})
	
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) cachedToken(ctx context.Context) (string, bool) {
	token, err := c.tokens.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load cached pathao token")
		return "", false
	}
	
	if !token.ValidAt(c.now()) {
		return "", false
	}
	
	return token.AccessToken, true
}

func (c *Client) issueToken(ctx context.Context) (string, error) {
	arg := issueTokenRequest{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		Username:     c.config.Username,
		Password:     c.config.Password,
		GrantType:    grantTypePassword,
	}
	
	resp, err := c.send(ctx, http.MethodPost, issueTokenPath, arg, "")
	if err != nil {
		return "", err
	}
	
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			Endpoint:   issueTokenPath,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Raw),
		}
	}
	
	var result issueTokenResponse
	if err = resp.decode(issueTokenPath, &result); err != nil {
		return "", err
	}
	
	if result.AccessToken == "" {
		return "", ErrMissingAccessToken
	}
	
	expiresIn := result.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultTokenLifetime
	}
	
	lifetime := time.Duration(expiresIn) * time.Second
	token := Token{
		AccessToken: result.AccessToken,
		ExpiresAt:   c.now().Add(lifetime),
	}
	if err = c.tokens.Save(ctx, token, lifetime); err != nil {
		// The token is still good, the next call just issues another one.
		log.Warn().Err(err).Msg("failed to cache pathao token")
	}
	
	log.Info().Time("expires_at", token.ExpiresAt).Msg("pathao access token issued")
	
	return token.AccessToken, nil
}
