// Package diskv stores tasks, buckets and assignments as JSON files on the local disk, one file per record.
//
// Keys have the form "<collection>/<organization>/<id>", both organization and id hex encoded, and map to
// the path <base>/<collection>/<organization>/<id>.
package diskv

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"sync"

	pdiskv "github.com/peterbourgon/diskv/v3"

	"github.com/sanLimbu/easy-tasks/internal"
)

const (
	collectionTasks       = "tasks"
	collectionBuckets     = "buckets"
	collectionAssignments = "assignments"
)

// DB is the on-disk database shared by the Task and Bucket repositories.
type DB struct {
	d  *pdiskv.Diskv
	mu sync.Mutex
}

// Open returns the database rooted at basePath. The directory is created on first write.
func Open(basePath string) *DB {
	return &DB{
		d: pdiskv.New(pdiskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024,
		}),
	}
}

func keyToPathTransform(s string) *pdiskv.PathKey {
	parts := strings.Split(s, "/")

	return &pdiskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *pdiskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}

func toKey(collection, organizationID, id string) string {
	return collection + "/" + hex.EncodeToString([]byte(organizationID)) + "/" + hex.EncodeToString([]byte(id))
}

func toPrefix(collection, organizationID string) string {
	return collection + "/" + hex.EncodeToString([]byte(organizationID)) + "/"
}

// fromKey returns the organization and id encoded in a key.
func fromKey(key string) (string, string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 {
		return "", "", false
	}

	org, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", "", false
	}

	id, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", "", false
	}

	return string(org), string(id), true
}

func (db *DB) read(key string, v interface{}) error {
	if keyToPathTransform(key).FileName == "" {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "record not found")
	}

	val, err := db.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return internal.WrapErrorf(err, internal.ErrorCodeNotFound, "record not found")
		}

		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "diskv.Read")
	}

	if err := json.Unmarshal(val, v); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Unmarshal")
	}

	return nil
}

func (db *DB) write(key string, v interface{}) error {
	val, err := json.Marshal(v)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Marshal")
	}

	if err := db.d.Write(key, val); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "diskv.Write")
	}

	return nil
}

func (db *DB) erase(key string) error {
	if keyToPathTransform(key).FileName == "" || !db.d.Has(key) {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "record not found")
	}

	if err := db.d.Erase(key); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "diskv.Erase")
	}

	return nil
}

// keys lists the keys of one collection of the organization.
func (db *DB) keys(ctx context.Context, collection, organizationID string) []string {
	var res []string

	for key := range db.d.KeysPrefix(toPrefix(collection, organizationID), ctx.Done()) {
		res = append(res, key)
	}

	return res
}
