package joyconcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger"
	"github.com/neuroplastio/joyconcore/report"
)

// Metadata is what the CLI caches per controller MAC so repeated
// invocations (pair once, then run `led`/`rumble` many times) skip a flash
// re-read. It is strictly a CLI-glue convenience keyed off information the
// core already produced once; session/protocol/controller never read or
// write it.
type Metadata struct {
	Info  report.ControllerInfo  `json:"info"`
	Color report.ControllerColor `json:"color"`
}

// Cache is an on-disk badger store of Metadata keyed by controller MAC.
type Cache struct {
	db *badger.DB
}

// OpenCache opens (creating if absent) a badger database at dir.
func OpenCache(dir string) (*Cache, error) {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		return nil, fmt.Errorf("joyconcli: open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func metadataKey(mac [6]byte) []byte {
	return []byte(fmt.Sprintf("joyconctl/controllers/%02x:%02x:%02x:%02x:%02x:%02x",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5]))
}

// Get reads the cached Metadata for mac, returning (Metadata{}, false, nil)
// on a clean cache miss.
func (c *Cache) Get(mac [6]byte) (Metadata, bool, error) {
	var md Metadata
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metadataKey(mac))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		case err != nil:
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &md)
		})
	})
	if err != nil {
		return Metadata{}, false, fmt.Errorf("joyconcli: cache get: %w", err)
	}
	return md, found, nil
}

// Put writes md for mac, overwriting whatever was cached before.
func (c *Cache) Put(mac [6]byte, md Metadata) error {
	b, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("joyconcli: marshal metadata: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metadataKey(mac), b)
	})
	if err != nil {
		return fmt.Errorf("joyconcli: cache put: %w", err)
	}
	return nil
}
