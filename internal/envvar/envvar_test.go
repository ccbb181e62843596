package envvar_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/easy-tasks/internal/envvar"
)

type fakeProvider map[string]string

func (f fakeProvider) Get(key string) (string, error) {
	v, ok := f[key]
	if !ok {
		return "", errors.New("not found")
	}

	return v, nil
}

func TestConfiguration_Get(t *testing.T) {
	t.Setenv("EASYTASKS_PLAIN", "plain")
	t.Setenv("EASYTASKS_SECRET", "ignored")
	t.Setenv("EASYTASKS_SECRET_SECURE", "database:password")
	t.Setenv("EASYTASKS_MISSING_SECURE", "database:nope")

	conf := envvar.New(fakeProvider{"database:password": "s3cret"})

	v, err := conf.Get("EASYTASKS_PLAIN")
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	v, err = conf.Get("EASYTASKS_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, err = conf.Get("EASYTASKS_MISSING")
	assert.Error(t, err)

	_, err = envvar.New(nil).Get("EASYTASKS_SECRET")
	assert.Error(t, err)
}

func TestConfiguration_Typed(t *testing.T) {
	t.Setenv("EASYTASKS_INT", "7")
	t.Setenv("EASYTASKS_BAD_INT", "seven")
	t.Setenv("EASYTASKS_DURATION", "90s")

	conf := envvar.New(nil)

	i, err := conf.GetInt("EASYTASKS_INT", 1)
	require.NoError(t, err)
	assert.Equal(t, 7, i)

	i, err = conf.GetInt("EASYTASKS_UNSET_INT", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	_, err = conf.GetInt("EASYTASKS_BAD_INT", 1)
	assert.Error(t, err)

	d, err := conf.GetDuration("EASYTASKS_DURATION", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	s, err := conf.GetDefault("EASYTASKS_UNSET", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s)
}

func TestLoad(t *testing.T) {
	require.NoError(t, envvar.Load(""))

	filename := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(filename, []byte("EASYTASKS_FROM_FILE=yes\n"), 0o600))

	t.Cleanup(func() { os.Unsetenv("EASYTASKS_FROM_FILE") })

	require.NoError(t, envvar.Load(filename))
	assert.Equal(t, "yes", os.Getenv("EASYTASKS_FROM_FILE"))

	assert.Error(t, envvar.Load(filepath.Join(t.TempDir(), "missing.env")))
}
