package kv

import "errors"

// ErrNotFound wird zurückgegeben, wenn ein Schlüssel nicht existiert.
var ErrNotFound = errors.New("kv: key not found")

// Store ist die minimale Schnittstelle für die lokale Persistenz der Konsole.
// Werte sind opake Bytes (JSON); Ablauf-Logik liegt beim Aufrufer, nicht im Store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
