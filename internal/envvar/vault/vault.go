// Package vault implements envvar.Provider on top of HashiCorp Vault's KV v2 engine.
package vault

import (
	"path"
	"strings"
	"sync"

	"github.com/hashicorp/vault/api"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Provider ...
type Provider struct {
	path    string
	logical *api.Logical

	mu    sync.Mutex
	cache map[string]map[string]interface{}
}

// New instantiates the Vault client using token, address and path.
func New(token, addr, path string) (*Provider, error) {
	config := api.DefaultConfig()
	config.Address = addr

	client, err := api.NewClient(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "api.NewClient")
	}

	client.SetToken(token)

	return &Provider{
		path:    path,
		logical: client.Logical(),
		cache:   make(map[string]map[string]interface{}),
	}, nil
}

// Get retrieves the value indicated by v, formatted as `<secret path>:<key>`, for example `database:password`.
// Secrets are read once and cached for the lifetime of the Provider.
func (p *Provider) Get(v string) (string, error) {
	secretPath, key, ok := strings.Cut(v, ":")
	if !ok || secretPath == "" || key == "" {
		return "", internal.NewErrorf(internal.ErrorCodeInvalidArgument, "invalid secret reference %q", v)
	}

	data, err := p.read(secretPath)
	if err != nil {
		return "", err
	}

	value, ok := data[key].(string)
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "secret key %q not found", key)
	}

	return value, nil
}

func (p *Provider) read(secretPath string) (map[string]interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if data, ok := p.cache[secretPath]; ok {
		return data, nil
	}

	secret, err := p.logical.Read(path.Join("secret", "data", p.path, secretPath))
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "logical.Read")
	}

	if secret == nil {
		return nil, internal.NewErrorf(internal.ErrorCodeNotFound, "secret %q not found", secretPath)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, internal.NewErrorf(internal.ErrorCodeUnknown, "invalid secret data for %q", secretPath)
	}

	p.cache[secretPath] = data

	return data, nil
}
