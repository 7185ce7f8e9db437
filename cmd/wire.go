package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bnema/rank-admin-cli/internal/adapters/api"
	"github.com/bnema/rank-admin-cli/internal/adapters/cache"
	kpisadapter "github.com/bnema/rank-admin-cli/internal/adapters/render/kpis"
	loggeradapter "github.com/bnema/rank-admin-cli/internal/adapters/logger"
	tomlsession "github.com/bnema/rank-admin-cli/internal/adapters/session/toml"
	"github.com/bnema/rank-admin-cli/internal/application"
	"github.com/bnema/rank-admin-cli/internal/domain"
	"github.com/bnema/rank-admin-cli/internal/ports"
)

const (
	configDirName   = ".rank-admin"
	apiBaseURLKey   = "api.base_url"
	rankBaseURLKey  = "rank.base_url"
	logLevelKey     = "log.level"
	reviewLimitKey  = "review.page_limit"
	reviewOrderKey  = "review.order"
	defaultPageSize = 30
)

type app struct {
	cfg    *viper.Viper
	logger *loggeradapter.ZapAdapter

	auth       *api.Authenticator
	apiClient  *api.Client
	cache      *cache.Cache
	users      *api.UsersService
	rank       *api.RankService
	thumbnails *api.ThumbnailsService

	kpisRenderer func(domain.UsersKpis, kpisadapter.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := loggeradapter.NewZapAdapter(cfg.GetString(logLevelKey))

	apiBaseURL := cfg.GetString(apiBaseURLKey)
	if apiBaseURL == "" {
		return nil, fmt.Errorf("api base url is not configured (set RA_API_BASE_URL or %s in ~/%s/config.toml)", apiBaseURLKey, configDirName)
	}
	rankBaseURL := cfg.GetString(rankBaseURLKey)
	if rankBaseURL == "" {
		rankBaseURL = apiBaseURL
	}

	sessions, err := tomlsession.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	credentials := ports.NewInMemoryCredentialStore()

	auth, err := api.NewAuthenticator(apiBaseURL, http.DefaultClient, credentials, sessions,
		api.WithAuthLogger(log))
	if err != nil {
		return nil, fmt.Errorf("wire authenticator: %w", err)
	}

	apiClient, err := api.NewClient(apiBaseURL, http.DefaultClient, auth, api.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("wire api client: %w", err)
	}

	// The rank endpoints live on their own server but share the credential
	// and refresh cycle with the main API.
	rankClient, err := api.NewClient(rankBaseURL, http.DefaultClient, auth, api.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("wire rank client: %w", err)
	}

	responseCache := cache.New()

	return &app{
		cfg:          cfg,
		logger:       log,
		auth:         auth,
		apiClient:    apiClient,
		cache:        responseCache,
		users:        api.NewUsersService(apiClient, responseCache),
		rank:         api.NewRankService(rankClient, responseCache),
		thumbnails:   api.NewThumbnailsService(rankClient, responseCache),
		kpisRenderer: kpisadapter.Render,
	}, nil
}

func loadConfig() (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))

	cfg.SetEnvPrefix("RA")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(reviewLimitKey, defaultPageSize)
	cfg.SetDefault(reviewOrderKey, string(domain.OrderSubscribersDesc))

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

func (a *app) newReviewService() *application.ReviewService {
	return application.NewReviewService(
		a.rank,
		application.NewReviewQueue(),
		application.WithPageLimit(a.cfg.GetInt(reviewLimitKey)),
		application.WithOrder(domain.BatchOrder(a.cfg.GetString(reviewOrderKey))),
		application.WithReviewLogger(a.logger),
	)
}
