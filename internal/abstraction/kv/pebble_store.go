package kv

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

// PebbleStore persistiert Schlüssel/Wert-Paare in einem lokalen Pebble-Verzeichnis.
// Schreibzugriffe werden synchron ins WAL übernommen; der Datensatz überlebt
// damit Neustarts derselben Installation (mehr Garantie braucht die Konsole nicht).
type PebbleStore struct {
	inner *pebble.DB
}

func OpenPebbleStore(dataDir string) (*PebbleStore, error) {
	if dataDir == "" {
		return nil, errors.New("kv: dataDir is required")
	}

	inner, err := pebble.Open(dataDir, &pebble.Options{})
	if err != nil {
		return nil, err
	}

	return &PebbleStore{inner: inner}, nil
}

func (s *PebbleStore) Get(key string) ([]byte, error) {
	val, closer, err := s.inner.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (s *PebbleStore) Set(key string, value []byte) error {
	return s.inner.Set([]byte(key), value, pebble.Sync)
}

func (s *PebbleStore) Delete(key string) error {
	return s.inner.Delete([]byte(key), pebble.Sync)
}

func (s *PebbleStore) Close() error {
	return s.inner.Close()
}
