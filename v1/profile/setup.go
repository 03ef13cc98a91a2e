package profile

import (
	"fmt"

	"go.etcd.io/bbolt"
)

//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=profile

// Logger captures the logging methods the profile store emits on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

var (
	bucketProfiles  = []byte("profiles")
	bucketOverrides = []byte("overrides")
)

// Store persists connection profiles and per-collection embedding
// overrides in one local bbolt file. Values are JSON; overrides are keyed
// "profileID/collection" so a profile's overrides share a key prefix and
// can be dropped with it.
type Store struct {
	log Logger
	db  *bbolt.DB
}

// NewStore opens (creating if needed) the database file and ensures both
// buckets exist.
func NewStore(log Logger, cfg Config) (*Store, error) {
	db, err := bbolt.Open(cfg.Path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("profile: opening store at %s: %w", cfg.Path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{bucketProfiles, bucketOverrides} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("profile: creating bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("profile store opened", nil, map[string]interface{}{"path": cfg.Path})
	return &Store{log: log, db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
