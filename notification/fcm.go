package notification

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	fcmScope       = "https://www.googleapis.com/auth/firebase.messaging"
	fcmDefaultBase = "https://fcm.googleapis.com"
	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// ServiceAccount is the subset of a Google service-account key file FCM needs.
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

func LoadServiceAccount(path string) (ServiceAccount, error) {
	var sa ServiceAccount
	raw, err := os.ReadFile(path)
	if err != nil {
		return sa, fmt.Errorf("read service account: %w", err)
	}
	if err := json.Unmarshal(raw, &sa); err != nil {
		return sa, fmt.Errorf("parse service account: %w", err)
	}
	if sa.TokenURI == "" {
		sa.TokenURI = "https://oauth2.googleapis.com/token"
	}
	return sa, nil
}

type FCMOptions struct {
	BaseURL     string
	RatePerSec  int
	Concurrency int
	Timeout     time.Duration
}

// FCMProvider sends through the FCM HTTP v1 API using an OAuth token minted from the
// service account key.
type FCMProvider struct {
	sa      ServiceAccount
	key     *rsa.PrivateKey
	client  *resty.Client
	limiter *rate.Limiter
	fanout  int

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

func NewFCMProvider(sa ServiceAccount, opts FCMOptions) (*FCMProvider, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = fcmDefaultBase
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 50
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &FCMProvider{
		sa:      sa,
		key:     key,
		client:  resty.New().SetBaseURL(opts.BaseURL).SetTimeout(opts.Timeout),
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.RatePerSec),
		fanout:  opts.Concurrency,
		now:     time.Now,
	}, nil
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (p *FCMProvider) Send(ctx context.Context, token string, payload Payload) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	access, err := p.token(ctx)
	if err != nil {
		return err
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(access).
		SetBody(fcmRequest{Message: fcmMessage{
			Token:        token,
			Notification: fcmNotification{Title: payload.Title, Body: payload.Body},
			Data:         payload.Data,
		}}).
		Post(fmt.Sprintf("/v1/projects/%s/messages:send", p.sa.ProjectID))
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fcm send: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// SendMulticast fans out one request per token. Per-token failures are counted, not returned.
func (p *FCMProvider) SendMulticast(ctx context.Context, tokens []string, payload Payload) (MulticastResult, error) {
	var success, failure atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fanout)
	for _, token := range tokens {
		token := token
		g.Go(func() error {
			if err := p.Send(gctx, token, payload); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failure.Add(1)
				return nil
			}
			success.Add(1)
			return nil
		})
	}
	err := g.Wait()

	return MulticastResult{SuccessCount: int(success.Load()), FailureCount: int(failure.Load())}, err
}

type oauthToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// token returns a cached access token, exchanging a fresh signed assertion when it is
// missing or within a minute of expiry.
func (p *FCMProvider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.accessToken != "" && now.Add(time.Minute).Before(p.expiresAt) {
		return p.accessToken, nil
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   p.sa.ClientEmail,
		"scope": fcmScope,
		"aud":   p.sa.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}).SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}

	var out oauthToken
	resp, err := p.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": jwtBearerGrant,
			"assertion":  assertion,
		}).
		SetResult(&out).
		Post(p.sa.TokenURI)
	if err != nil {
		return "", fmt.Errorf("oauth token: %w", err)
	}
	if resp.StatusCode() != 200 || out.AccessToken == "" {
		return "", fmt.Errorf("oauth token: status %d: %s", resp.StatusCode(), resp.String())
	}

	p.accessToken = out.AccessToken
	p.expiresAt = now.Add(time.Duration(out.ExpiresIn) * time.Second)
	return p.accessToken, nil
}
