package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/SaifAHussain/EPG-IRIB/consts"
)

var (
	ErrMissingCredentials = errors.New("no Sepehr credentials configured: set SEPEHR_AUTH_HEADER or the four SEPEHR_* OAuth secrets")
	ErrPartialCredentials = errors.New("incomplete Sepehr OAuth credentials")
	ErrAmbiguousScheme    = errors.New("both SEPEHR_AUTH_HEADER and OAuth secrets are set: configure exactly one scheme")
)

// OAuthCreds are the four secrets for per-request HMAC-SHA1 signing.
type OAuthCreds struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	TokenSecret    string
}

// Config is the process configuration, loaded once at startup and passed
// down to the components that need it.
type Config struct {
	OAuth      *OAuthCreds // signing scheme; nil when AuthHeader is used
	AuthHeader string      // pre-built Authorization value
	Days       int         // guide window in days
	Output     string      // output file path
	Debug      bool
}

var oauthVars = [4]string{
	"SEPEHR_CONSUMER_KEY",
	"SEPEHR_CONSUMER_SECRET",
	"SEPEHR_ACCESS_TOKEN",
	"SEPEHR_TOKEN_SECRET",
}

// Load builds the configuration from environment variables. When no
// credential variable is set it first tries .env.local and .env from the
// working directory and the executable's directory. Exactly one of the
// two credential schemes must be configured.
func Load() (*Config, error) {
	if os.Getenv("SEPEHR_AUTH_HEADER") == "" && os.Getenv(oauthVars[0]) == "" {
		loadEnvFiles()
	}

	cfg := &Config{
		AuthHeader: os.Getenv("SEPEHR_AUTH_HEADER"),
		Days:       7,
		Output:     consts.OUTPUT_FILE,
		Debug:      os.Getenv("EPG_DEBUG") != "",
	}
	if s := os.Getenv("EPG_OUTPUT"); s != "" {
		cfg.Output = s
	}
	if s := os.Getenv("EPG_DAYS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid EPG_DAYS %q", s)
		}
		cfg.Days = n
	}

	creds := OAuthCreds{
		ConsumerKey:    os.Getenv(oauthVars[0]),
		ConsumerSecret: os.Getenv(oauthVars[1]),
		AccessToken:    os.Getenv(oauthVars[2]),
		TokenSecret:    os.Getenv(oauthVars[3]),
	}
	set := 0
	for _, v := range oauthVars {
		if os.Getenv(v) != "" {
			set++
		}
	}

	switch {
	case cfg.AuthHeader != "" && set > 0:
		return nil, ErrAmbiguousScheme
	case cfg.AuthHeader != "":
		return cfg, nil
	case set == 4:
		cfg.OAuth = &creds
		return cfg, nil
	case set > 0:
		return nil, fmt.Errorf("%w: %d of 4 SEPEHR_* secrets set", ErrPartialCredentials, set)
	default:
		return nil, ErrMissingCredentials
	}
}
