package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/vrctcg/giftgate/service/ledger"
)

// Service keeps the gifted ledger as a single JSON document behind a
// viant/afs URL (file://, mem://, s3:// ...). It stands in for the hosted
// realtime database the production deployment writes to.
type Service struct {
	fs  afs.Service
	URL string
	mu  sync.Mutex
}

// New creates a filesystem-backed ledger stored at URL.
func New(fs afs.Service, URL string) *Service {
	return &Service{fs: fs, URL: URL}
}

// Set writes value at path as an absolute set and persists the document.
func (s *Service) Set(ctx context.Context, path string, value interface{}) error {
	segments := ledger.SplitPath(path)
	if len(segments) == 0 || segments[0] == "" {
		return ledger.ErrInvalidPath
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.load(ctx)
	if err != nil {
		return err
	}
	node := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value

	data, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if err = s.fs.Upload(ctx, s.URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save ledger to %s: %w", s.URL, err)
	}
	return nil
}

// ReadAll returns the persisted snapshot; a missing document reads as empty.
func (s *Service) ReadAll(ctx context.Context) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) (map[string]interface{}, error) {
	exists, err := s.fs.Exists(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger at %s: %w", s.URL, err)
	}
	if !exists {
		return make(map[string]interface{}), nil
	}
	data, err := s.fs.DownloadWithURL(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger at %s: %w", s.URL, err)
	}
	root := make(map[string]interface{})
	if len(data) > 0 {
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger: %w", err)
		}
	}
	return root, nil
}

var _ ledger.Service = (*Service)(nil)
