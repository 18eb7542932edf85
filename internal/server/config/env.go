package config

import (
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "ECLINIC"

// parseEnv overlays config with ECLINIC_* environment variables, e.g.
// ECLINIC_SECRET_KEY or ECLINIC_ACCESS_TOKEN_TTL=30m. Unset variables leave
// the current value untouched.
func parseEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	strs := map[string]*string{
		"grpc_addr":        &config.EndpointAddrGRPC,
		"http_addr":        &config.EndpointAddrHTTP,
		"storage_mode":     &config.StorageMode,
		"database_dsn":     &config.DatabaseDSN,
		"secret_key":       &config.SecretKey,
		"reset_link_base":  &config.ResetLinkBase,
		"redis_addr":       &config.RedisAddr,
		"redis_password":   &config.RedisPassword,
		"s3_root_user":     &config.S3RootUser,
		"s3_root_password": &config.S3RootPassword,
		"s3_bucket":        &config.S3Bucket,
		"s3_region":        &config.S3Region,
		"s3_base_endpoint": &config.S3BaseEndpoint,
		"mail_provider":    &config.MailProvider,
		"resend_api_key":   &config.ResendAPIKey,
		"mail_from":        &config.MailFrom,
		"log_level":        &config.LogLevel,
	}
	durations := map[string]*time.Duration{
		"access_token_ttl": &config.AccessTokenValidityDuration,
		"reset_token_ttl":  &config.ResetTokenValidityDuration,
	}
	ints := map[string]*int{
		"redis_db": &config.RedisDB,
	}

	for key, dst := range strs {
		if bound(v, key) {
			*dst = v.GetString(key)
		}
	}
	for key, dst := range durations {
		if bound(v, key) {
			*dst = v.GetDuration(key)
		}
	}
	for key, dst := range ints {
		if bound(v, key) {
			*dst = v.GetInt(key)
		}
	}
}

func bound(v *viper.Viper, key string) bool {
	if err := v.BindEnv(key); err != nil {
		return false
	}
	return v.IsSet(key)
}
