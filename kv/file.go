package kv

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// fileEntry is the on-disk form of one key. Expires is zero when the
// entry never expires.
type fileEntry struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// fileConn stores each key as a small JSON file under a base
// directory, giving the collection durability across runs.
type fileConn struct {
	basePath string
}

// NewFileConn creates a file-backed key-value connection rooted at
// basePath.
func NewFileConn(basePath string) Conn {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		log.Fatalf("failed to create base directory: %v", err)
	}
	return &fileConn{basePath: basePath}
}

func (c *fileConn) path(key string) (string, error) {
	// Keys must be simple names, not paths.
	if key == "" || filepath.Base(key) != key {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(c.basePath, key+".json"), nil
}

func (c *fileConn) Get(key string) (string, bool) {
	filePath, err := c.path(key)
	if err != nil {
		logrus.WithField("key", key).Warn("Invalid key on get")
		return "", false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).WithField("key", key).Warn("Failed to read key file")
		}
		return "", false
	}

	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to decode key file")
		return "", false
	}

	if !e.Expires.IsZero() && time.Now().After(e.Expires) {
		c.Delete(key)
		return "", false
	}
	return e.Value, true
}

func (c *fileConn) Set(key, value string, ttl time.Duration) error {
	filePath, err := c.path(key)
	if err != nil {
		return err
	}

	e := fileEntry{Value: value}
	if ttl > 0 {
		e.Expires = time.Now().Add(ttl)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to write key file")
		return err
	}
	return nil
}

func (c *fileConn) Delete(key string) {
	filePath, err := c.path(key)
	if err != nil {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete key file")
	}
}
