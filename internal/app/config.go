package app

import (
	"strings"
	"time"

	"github.com/lexibridge/lexibridge-backend/internal/pkg/logger"
	"github.com/lexibridge/lexibridge-backend/internal/utils"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CORSOrigins     []string
	SeedOnStart     bool
	FeedBuffer      int
}

func LoadConfig(log *logger.Logger) Config {
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	var origins []string
	if raw := utils.GetEnv("CORS_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		Port:            utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		CORSOrigins:     origins,
		SeedOnStart:     utils.GetEnvAsBool("SEED_ON_START", false, log),
		FeedBuffer:      utils.GetEnvAsInt("AUDIO_FEED_BUFFER", 64, log),
	}
}
