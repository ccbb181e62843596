// Package envvar reads configuration from environment variables, optionally loaded from a file, resolving
// secured values through a Provider.
package envvar

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Provider indicates a provider capable of loading values from a secured store.
type Provider interface {
	Get(key string) (string, error)
}

// Configuration ...
type Configuration struct {
	provider Provider
}

// Load reads the env filename and loads it into ENV for this process. An empty filename is a no-op.
func Load(filename string) error {
	if filename == "" {
		return nil
	}

	if err := godotenv.Load(filename); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "loading env var file")
	}

	return nil
}

// New ...
func New(provider Provider) *Configuration {
	return &Configuration{
		provider: provider,
	}
}

// Get returns the value from environment variable `<key>`. When an environment variable `<key>_SECURE` exists
// the provider is used for getting the value.
func (c *Configuration) Get(key string) (string, error) {
	res := os.Getenv(key)
	valSecret := os.Getenv(fmt.Sprintf("%s_SECURE", key))

	if valSecret != "" {
		if c.provider == nil {
			return "", internal.NewErrorf(internal.ErrorCodeInvalidArgument, "%s_SECURE set without provider", key)
		}

		valSecretRes, err := c.provider.Get(valSecret)
		if err != nil {
			return "", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "provider.Get")
		}

		res = valSecretRes
	}

	return res, nil
}

// GetDefault behaves like Get, returning def when the value is empty.
func (c *Configuration) GetDefault(key, def string) (string, error) {
	res, err := c.Get(key)
	if err != nil {
		return "", err
	}

	if res == "" {
		return def, nil
	}

	return res, nil
}

// GetInt ...
func (c *Configuration) GetInt(key string, def int) (int, error) {
	res, err := c.Get(key)
	if err != nil {
		return 0, err
	}

	if res == "" {
		return def, nil
	}

	i, err := strconv.Atoi(res)
	if err != nil {
		return 0, internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "strconv.Atoi %s", key)
	}

	return i, nil
}

// GetDuration ...
func (c *Configuration) GetDuration(key string, def time.Duration) (time.Duration, error) {
	res, err := c.Get(key)
	if err != nil {
		return 0, err
	}

	if res == "" {
		return def, nil
	}

	d, err := time.ParseDuration(res)
	if err != nil {
		return 0, internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "time.ParseDuration %s", key)
	}

	return d, nil
}
