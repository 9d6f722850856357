package memory

import (
	"context"
	"sync"

	"github.com/vrctcg/giftgate/service/ledger"
)

// Service is an in-memory ledger used in tests and single-process setups.
type Service struct {
	mu   sync.RWMutex
	root map[string]interface{}
	// writes counts Set calls; tests use it to assert exactly-once execution
	writes int
}

func New() *Service {
	return &Service{root: make(map[string]interface{})}
}

// Set writes value at path, creating intermediate maps as needed.
func (s *Service) Set(_ context.Context, path string, value interface{}) error {
	segments := ledger.SplitPath(path)
	if len(segments) == 0 || segments[0] == "" {
		return ledger.ErrInvalidPath
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
	s.writes++
	return nil
}

// ReadAll returns a deep copy of the store snapshot.
func (s *Service) ReadAll(_ context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deepCopy(s.root), nil
}

// Writes returns the number of Set calls performed so far.
func (s *Service) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func deepCopy(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if child, ok := v.(map[string]interface{}); ok {
			out[k] = deepCopy(child)
			continue
		}
		out[k] = v
	}
	return out
}

var _ ledger.Service = (*Service)(nil)
