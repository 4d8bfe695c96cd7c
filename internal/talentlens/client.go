package talentlens

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIURL = "http://localhost:8000"
	userAgent     = "talentlens-cli"
)

// TokenSource yields the bearer token attached to every API request. The
// identity session implements it so the client always sees the current token.
type TokenSource interface {
	Token() (string, error)
}

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	tokens     TokenSource
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, tokens TokenSource) *Client {
	return &Client{
		ctx:    ctx,
		tokens: tokens,
		APIURL: defaultAPIURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}
