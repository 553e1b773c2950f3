package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/google/uuid"
)

var errFake = errors.New("fake failure")

type memSortedSet struct {
	mu      sync.Mutex
	sets    map[string]map[string]float64
	failAdd bool
}

func newMemSortedSet() *memSortedSet {
	return &memSortedSet{sets: map[string]map[string]float64{}}
}

func (m *memSortedSet) Add(_ context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAdd {
		return errFake
	}
	if m.sets[key] == nil {
		m.sets[key] = map[string]float64{}
	}
	m.sets[key][member] = score
	return nil
}

func (m *memSortedSet) ordered(key string) []string {
	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	sort.Slice(members, func(a, b int) bool {
		sa, sb := m.sets[key][members[a]], m.sets[key][members[b]]
		if sa != sb {
			return sa < sb
		}
		return members[a] < members[b]
	})
	return members
}

func (m *memSortedSet) Top(_ context.Context, key string, amount int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.ordered(key)
	if int64(len(members)) > amount {
		members = members[:amount]
	}
	return members, nil
}

func (m *memSortedSet) Trim(_ context.Context, key string, keep int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.ordered(key)
	for idx, member := range members {
		if int64(idx) >= keep {
			delete(m.sets[key], member)
		}
	}
	return nil
}

func (m *memSortedSet) Count(_ context.Context, key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sets[key]))
}

type memRunRepo struct {
	mu       sync.Mutex
	runs     map[uuid.UUID]*dmn.Run
	failSave bool
}

func newMemRunRepo() *memRunRepo {
	return &memRunRepo{runs: map[uuid.UUID]*dmn.Run{}}
}

func (r *memRunRepo) Save(_ context.Context, run *dmn.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errFake
	}
	r.runs[run.ID] = run
	return nil
}

func (r *memRunRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, errFake
	}
	return run, nil
}

func (r *memRunRepo) Recent(_ context.Context, limit int64) ([]*dmn.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	runs := make([]*dmn.Run, 0, len(r.runs))
	for _, run := range r.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(a, b int) bool { return runs[a].CreatedAt.After(runs[b].CreatedAt) })
	if int64(len(runs)) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

type memLeaderboard struct {
	mu       sync.Mutex
	recorded []*dmn.Run
}

func (l *memLeaderboard) Record(_ context.Context, run *dmn.Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recorded = append(l.recorded, run)
	return nil
}

func (l *memLeaderboard) Top(_ context.Context, rows, cols int, limit int64) ([]uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ids []uuid.UUID
	for _, run := range l.recorded {
		if run.Rows == rows && run.Cols == cols && int64(len(ids)) < limit {
			ids = append(ids, run.ID)
		}
	}
	return ids, nil
}
