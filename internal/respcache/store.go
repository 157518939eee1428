package respcache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/inovacc/forkr/internal/application"
	log "github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

const bucketResponses = "responses"

// fileName is the cache database filename inside the cache directory.
const fileName = "http_cache.db"

// PathIn returns the cache database path under the given directory,
// used when the config overrides the cache location.
func PathIn(dir string) string {
	return filepath.Join(dir, fileName)
}

// Store persists HTTP responses in a single bbolt bucket keyed by
// request URL. It implements httpcache.Cache, so cache misses and
// storage failures are soft: the caller falls through to the network.
type Store struct {
	db *bbolt.DB
}

// DefaultPath returns the cache database location under the user cache directory
func DefaultPath() (string, error) {
	dir, err := application.GetCacheDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, fileName), nil
}

// Open opens (creating if needed) the response cache at the given path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketResponses))

		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.db.Path()
}

// Get retrieves a cached response by key
func (s *Store) Get(key string) ([]byte, bool) {
	var data []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(bucketResponses)).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}

		return nil
	})
	if err != nil {
		log.WithError(err).WithField("key", key).Debug("cache read failed")

		return nil, false
	}

	return data, data != nil
}

// Set stores a response under the given key
func (s *Store) Set(key string, responseBytes []byte) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketResponses)).Put([]byte(key), responseBytes)
	})
	if err != nil {
		log.WithError(err).WithField("key", key).Debug("cache write failed")
	}
}

// Delete removes a cached response
func (s *Store) Delete(key string) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketResponses)).Delete([]byte(key))
	})
	if err != nil {
		log.WithError(err).WithField("key", key).Debug("cache delete failed")
	}
}

// Len returns the number of cached responses
func (s *Store) Len() (int, error) {
	var n int

	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(bucketResponses)).Stats().KeyN

		return nil
	})

	return n, err
}

// Purge drops every cached response and reports how many were removed
func (s *Store) Purge() (int, error) {
	n, err := s.Len()
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketResponses)); err != nil {
			return err
		}

		_, err := tx.CreateBucket([]byte(bucketResponses))

		return err
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}
