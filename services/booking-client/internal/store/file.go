package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

var ErrCorrupt = errors.New("store: corrupt session file")

const nonceSize = 24

// File keeps all entries in one JSON document, replaced atomically via rename. When a key
// is configured the document is sealed with NaCl secretbox.
type File struct {
	path string
	key  *[32]byte
	mu   sync.Mutex
}

func NewFile(path string, key *[32]byte) (*File, error) {
	if path == "" {
		return nil, errors.New("session file path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &File{path: path, key: key}, nil
}

// ParseKey decodes a 64 character hex string into a secretbox key.
func ParseKey(hexKey string) (*[32]byte, error) {
	if hexKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != 32 {
		return nil, errors.New("session key must be 32 bytes hex encoded")
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := doc[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Set(_ context.Context, entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if errors.Is(err, ErrCorrupt) {
		doc = map[string]string{}
	} else if err != nil {
		return err
	}
	for k, v := range entries {
		doc[k] = v
	}
	return f.save(doc)
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if errors.Is(err, ErrCorrupt) {
		return f.remove()
	}
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(doc, k)
	}
	if len(doc) == 0 {
		return f.remove()
	}
	return f.save(doc)
}

func (f *File) Close() error { return nil }

func (f *File) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if f.key != nil {
		if len(raw) < nonceSize {
			return nil, ErrCorrupt
		}
		var nonce [nonceSize]byte
		copy(nonce[:], raw[:nonceSize])
		opened, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, f.key)
		if !ok {
			return nil, ErrCorrupt
		}
		raw = opened
	}
	doc := map[string]string{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ErrCorrupt
	}
	return doc, nil
}

func (f *File) save(doc map[string]string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if f.key != nil {
		var nonce [nonceSize]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return err
		}
		data = secretbox.Seal(nonce[:], data, &nonce, f.key)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *File) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
