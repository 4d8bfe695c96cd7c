package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/identity"
	"github.com/chaudhari-piyush/talentlens/internal/logger"
	"github.com/chaudhari-piyush/talentlens/internal/secrets"
	"github.com/chaudhari-piyush/talentlens/internal/session"
	"github.com/chaudhari-piyush/talentlens/internal/store"
	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

// console wires the shared dependencies every command needs: logger, config,
// identity provider, API client and the profile session.
type console struct {
	logger   *zap.Logger
	config   *Config
	provider *identity.Provider
	api      *talentlens.Client
	session  *session.Session
	store    *store.Store
}

// newConsole builds the dependency graph. When a persisted token exists the
// identity is rehydrated, which also syncs the profile mirror through the
// session's subscription.
func newConsole(ctx context.Context) (*console, error) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	pretty, _ := json.MarshalIndent(config, "", "  ")
	zlog.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	apiKey := ""
	if config.Identity != nil && config.Identity.APIKeyFile != "" {
		apiKey, err = secrets.Load(secrets.Source{
			Name: "identity api key",
			File: config.Identity.APIKeyFile,
		})
		if err != nil {
			return nil, err
		}
	}

	provider := identity.New(ctx, zlog, apiKey)
	if config.Identity != nil && config.Identity.Endpoint != "" {
		provider.Endpoint = config.Identity.Endpoint
	}

	api := talentlens.New(ctx, zlog, provider)
	if config.APIURL != "" {
		api.APIURL = config.APIURL
	}
	if config.UserAgent != "" {
		api.UserAgent = config.UserAgent
	}

	c := &console{
		logger:   zlog,
		config:   config,
		provider: provider,
		api:      api,
		session:  session.New(api, provider, zlog),
		store:    store.New(api, zlog),
	}

	if token, err := loadToken(config); err == nil {
		provider.Rehydrate(token)
	}

	return c, nil
}

func tokenFile(config *Config) string {
	file := strings.TrimSpace(config.TokenFile)
	if file == "" {
		file = strings.TrimSpace(viper.GetString("token-file"))
	}
	return file
}

func loadToken(config *Config) (string, error) {
	file := tokenFile(config)
	if file == "" {
		return "", fmt.Errorf("token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "session token",
		File: file,
	})
}

// printJSON renders command output as indented JSON, the console's report
// format.
func printJSON(v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(pretty))
}
