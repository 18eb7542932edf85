package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("ECLINIC_STORAGE_MODE", "external")
	t.Setenv("ECLINIC_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("ECLINIC_REDIS_DB", "3")
	t.Setenv("ECLINIC_MAIL_PROVIDER", "resend")
	t.Setenv("ECLINIC_RESEND_API_KEY", "re_123")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, StorageExternal, c.StorageMode)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, MailResend, c.MailProvider)
	assert.Equal(t, "re_123", c.ResendAPIKey)
	assert.Equal(t, 1*time.Hour, c.ResetTokenValidityDuration, "unset variables keep the value")
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
}

func TestParseEnv_NothingSet(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	want := *c

	parseEnv(c)

	assert.Equal(t, want, *c)
}
