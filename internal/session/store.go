package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/muhammadolammi/pragatiworker/internal/database"
)

var ErrNotFound = errors.New("snapshot not found")

// Store persists raw JSON snapshots per session and key.
type Store interface {
	Save(ctx context.Context, id uuid.UUID, key string, data []byte) error
	Load(ctx context.Context, id uuid.UUID, key string) ([]byte, error)
	Delete(ctx context.Context, id uuid.UUID, key string) error
}

// FileStore keeps each snapshot in <dir>/<session>/<key>.json.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) path(id uuid.UUID, key string) string {
	return filepath.Join(f.Dir, id.String(), key+".json")
}

func (f *FileStore) Save(ctx context.Context, id uuid.UUID, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := f.path(id, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (f *FileStore) Load(ctx context.Context, id uuid.UUID, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(id, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (f *FileStore) Delete(ctx context.Context, id uuid.UUID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(f.path(id, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// PostgresStore keeps snapshots in the session_snapshots table.
type PostgresStore struct {
	DB *database.Queries
}

func (p *PostgresStore) Save(ctx context.Context, id uuid.UUID, key string, data []byte) error {
	if _, err := p.DB.CreateSession(ctx, database.CreateSessionParams{ID: id, Status: "active"}); err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return p.DB.UpsertSessionSnapshot(ctx, database.UpsertSessionSnapshotParams{
		SessionID: id,
		Key:       key,
		Data:      data,
	})
}

func (p *PostgresStore) Load(ctx context.Context, id uuid.UUID, key string) ([]byte, error) {
	snap, err := p.DB.GetSessionSnapshot(ctx, database.GetSessionSnapshotParams{SessionID: id, Key: key})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap.Data, nil
}

func (p *PostgresStore) Delete(ctx context.Context, id uuid.UUID, key string) error {
	return p.DB.DeleteSessionSnapshot(ctx, database.DeleteSessionSnapshotParams{SessionID: id, Key: key})
}

// MemoryStore is a Store for tests and single-process runs.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Save(_ context.Context, id uuid.UUID, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id.String()+"/"+key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id uuid.UUID, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[id.String()+"/"+key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id.String()+"/"+key)
	return nil
}

// SaveProgress writes the progress snapshot of s.
func SaveProgress(ctx context.Context, store Store, s *State) error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := store.Save(ctx, s.ID, KeyProgress, data); err != nil {
		return err
	}
	if u := s.User(); u != nil {
		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		return store.Save(ctx, s.ID, KeyUser, data)
	}
	return nil
}

// SaveBestEffort persists s and only logs a failure.
func SaveBestEffort(ctx context.Context, store Store, s *State) {
	if store == nil {
		return
	}
	if err := SaveProgress(ctx, store, s); err != nil {
		log.Printf("[Session] ⚠️ could not save session %s: %v", s.ID, err)
	}
}

// LoadState rebuilds a session from its stored snapshots.
func LoadState(ctx context.Context, store Store, id uuid.UUID) (*State, error) {
	data, err := store.Load(ctx, id, KeyProgress)
	if err != nil {
		return nil, err
	}
	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	s := New(id)
	s.Restore(p)

	if data, err := store.Load(ctx, id, KeyUser); err == nil {
		var u User
		if err := json.Unmarshal(data, &u); err == nil {
			s.SetUser(u)
		}
	} else if !errors.Is(err, ErrNotFound) {
		log.Printf("[Session] ⚠️ could not load user of session %s: %v", id, err)
	}
	return s, nil
}

// Clear removes every stored snapshot of a session.
func Clear(ctx context.Context, store Store, id uuid.UUID) error {
	return errors.Join(
		store.Delete(ctx, id, KeyProgress),
		store.Delete(ctx, id, KeyUser),
	)
}
