package config

// Redis backs three optional features: the /v1 rate limiter, the report
// download cache and the daily income sync lock.  When it is disabled or
// unreachable NewRedisClient returns nil and all three switch off.

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects using:
//
//	REDIS_ENABLED       "false" skips Redis entirely (default true)
//	REDIS_ADDR          host:port (default localhost:6379)
//	REDIS_HOST/PORT     override REDIS_ADDR when both are set
//	REDIS_PASSWORD      optional
//	REDIS_DB            database number (default 0)
//	REDIS_TLS           enable TLS
//	REDIS_TLS_INSECURE  skip certificate verification (dev only)
//
// It returns nil when the server does not answer a ping within 2s.
func NewRedisClient(log logrus.FieldLogger) *redis.Client {
	if !envBool("REDIS_ENABLED", true) {
		log.Info("redis disabled by REDIS_ENABLED")
		return nil
	}
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	dbNum, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	var tlsConf *tls.Config
	if envBool("REDIS_TLS", false) {
		tlsConf = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: envBool("REDIS_TLS_INSECURE", false),
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", addr).Warn("redis ping failed")
		_ = client.Close()
		return nil
	}
	return client
}
