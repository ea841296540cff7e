package handler

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/training/practice/internal/config"
	"github.com/training/practice/internal/response"
)

// ConfigHandler exposes the effective runtime configuration. Credentials are
// never included.
type ConfigHandler struct {
	cfg            *config.Config
	loggingEnabled *atomic.Bool
	log            zerolog.Logger
}

func NewConfigHandler(cfg *config.Config, loggingEnabled *atomic.Bool, log zerolog.Logger) *ConfigHandler {
	return &ConfigHandler{
		cfg:            cfg,
		loggingEnabled: loggingEnabled,
		log:            log.With().Str("component", "config_handler").Logger(),
	}
}

type featureFlags struct {
	EnableLogging bool               `json:"enableLogging"`
	Pagination    paginationFeatures `json:"pagination"`
	Datasource    datasourceFeatures `json:"datasource"`
	Security      securityFeatures   `json:"security"`
	Database      databaseFeatures   `json:"database"`
}

type paginationFeatures struct {
	DefaultPageSize int `json:"defaultPageSize"`
	MaxPageSize     int `json:"maxPageSize"`
}

type datasourceFeatures struct {
	Host   string `json:"host"`
	Driver string `json:"driver"`
}

type securityFeatures struct {
	JWTExpiration  int64    `json:"jwtExpiration"`
	AllowedOrigins []string `json:"allowedOrigins"`
	AllowedMethods []string `json:"allowedMethods"`
}

type databaseFeatures struct {
	ConnectionTimeout int64 `json:"connectionTimeout"`
	MaximumPoolSize   int32 `json:"maximumPoolSize"`
	MinimumIdle       int32 `json:"minimumIdle"`
}

// GetFeatures godoc
// GET /api/config/features
func (h *ConfigHandler) GetFeatures(c *gin.Context) {
	h.log.Info().Msg("Fetching feature flags configuration")

	flags := featureFlags{
		EnableLogging: h.loggingEnabled.Load(),
		Pagination: paginationFeatures{
			DefaultPageSize: h.cfg.Pagination.DefaultPageSize,
			MaxPageSize:     h.cfg.Pagination.MaxPageSize,
		},
		Datasource: datasourceFeatures{
			Host:   h.cfg.DatabaseHost(),
			Driver: "pgx",
		},
		Security: securityFeatures{
			JWTExpiration:  h.cfg.JWTExpiry.Milliseconds(),
			AllowedOrigins: h.cfg.AllowedOrigins,
			AllowedMethods: h.cfg.AllowedMethods,
		},
		Database: databaseFeatures{
			ConnectionTimeout: h.cfg.DBConnectTimeout.Milliseconds(),
			MaximumPoolSize:   h.cfg.MaxDBConns,
			MinimumIdle:       h.cfg.MinDBConns,
		},
	}
	response.Success(c, http.StatusOK, "Configuration retrieved successfully", flags)
}

// ToggleLogging godoc
// POST /api/config/features/logging?enabled=
func (h *ConfigHandler) ToggleLogging(c *gin.Context) {
	raw, err := requireQuery(c, "enabled")
	if err != nil {
		response.Error(c, err)
		return
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		response.Error(c, invalidParam("enabled", raw))
		return
	}

	previous := h.loggingEnabled.Swap(enabled)
	h.log.Info().Bool("previous", previous).Bool("enabled", enabled).Msg("Request logging toggled")

	response.Success(c, http.StatusOK, "Request logging "+onOff(enabled), gin.H{"enableLogging": enabled})
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
