package session

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

const (
	recordVersion = 1
	sealedPrefix  = "sealed:v1:"
	nonceSize     = 24
)

var _ Store = (*FileStore)(nil)

type record struct {
	Version int `json:"v"`
	models.Session
}

// FileStore keeps the session in a single JSON file, replaced atomically on
// every save. With a key the file is sealed with secretbox.
type FileStore struct {
	path string
	key  *[32]byte
	mu   sync.Mutex
}

// NewFileStore returns a store at path. key must be empty or 32 bytes.
func NewFileStore(path string, key []byte) (*FileStore, error) {
	fs := &FileStore{path: path}
	switch len(key) {
	case 0:
	case 32:
		fs.key = new([32]byte)
		copy(fs.key[:], key)
	default:
		return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(key))
	}
	return fs, nil
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Save(_ context.Context, s models.Session) error {
	if err := validate(s); err != nil {
		return err
	}
	data, err := json.Marshal(record{Version: recordVersion, Session: s})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if f.key != nil {
		data, err = f.seal(data)
		if err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return writeAtomic(f.path, data)
}

func (f *FileStore) Load(_ context.Context) (models.Session, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("read session file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Session{}, ErrNoSession
	}

	sealed := bytes.HasPrefix(data, []byte(sealedPrefix))
	switch {
	case sealed && f.key == nil:
		return models.Session{}, fmt.Errorf("session is sealed but no key is configured: %w", models.ErrSessionCorrupt)
	case sealed:
		data, err = f.open(data)
		if err != nil {
			return models.Session{}, err
		}
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %v: %w", err, models.ErrSessionCorrupt)
	}
	if !rec.Session.Valid() {
		return models.Session{}, fmt.Errorf("session record is incomplete: %w", models.ErrSessionCorrupt)
	}
	return rec.Session, nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (f *FileStore) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], plain, &nonce, f.key)
	out := make([]byte, len(sealedPrefix)+base64.StdEncoding.EncodedLen(len(box)))
	copy(out, sealedPrefix)
	base64.StdEncoding.Encode(out[len(sealedPrefix):], box)
	return out, nil
}

func (f *FileStore) open(data []byte) ([]byte, error) {
	raw := bytes.TrimSpace(data[len(sealedPrefix):])
	box := make([]byte, base64.StdEncoding.DecodedLen(len(raw)))
	n, err := base64.StdEncoding.Decode(box, raw)
	if err != nil || n < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("sealed session is malformed: %w", models.ErrSessionCorrupt)
	}
	box = box[:n]
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, f.key)
	if !ok {
		return nil, fmt.Errorf("sealed session failed authentication: %w", models.ErrSessionCorrupt)
	}
	return plain, nil
}

// writeAtomic writes data to a temp file in the same directory and renames it
// over path, so readers see either the old or the new record.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod session: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
