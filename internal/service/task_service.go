package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"taskbox/internal/cache"
	"taskbox/internal/domain"
	"taskbox/internal/pagination"
	"taskbox/internal/repo"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// TaskService orchestrates the id sequence and the task repo. Every
// mutation is a get-then-put on the same composite key, so a single mutex
// serializes them; an operation never observes or overwrites another
// operation's in-flight change.
type TaskService struct {
	mu    sync.Mutex
	repo  repo.TaskRepo
	seq   repo.Sequence
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, seq repo.Sequence, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, seq: seq, cache: c}
}

// Create allocates the next id and stores a new task under it. A nil
// priority selects the default. Any description is accepted, including an
// empty one; only updates validate the text.
func (s *TaskService) Create(ctx context.Context, owner, description string, priority *domain.Priority) (domain.Task, error) {
	p := domain.DefaultPriority
	if priority != nil {
		p = *priority
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.seq.Next(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	t := domain.NewTask(id, description, p)
	if err := s.repo.Put(ctx, owner, t); err != nil {
		return domain.Task{}, err
	}
	s.invalidateCache(ctx, owner)
	return t, nil
}

// Get returns the task under (owner, id) or ErrNotFound.
func (s *TaskService) Get(ctx context.Context, owner string, id uint32) (domain.Task, error) {
	t, ok, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return domain.Task{}, err
	}
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	return t, nil
}

// List returns the owner's tasks in ascending id order, windowed by p.
// Pages past the data yield an empty result, not an error.
func (s *TaskService) List(ctx context.Context, owner string, p pagination.Paginator) ([]domain.Task, error) {
	skip, limit := p.Skip(), p.EffectiveLimit()

	if s.cache != nil {
		key := fmt.Sprintf("list:%s:%d:%d", owner, skip, limit)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, owner, skip, limit); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, owner, skip, limit)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, owner, skip, limit, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.Task), nil
	}
	return s.repo.List(ctx, owner, skip, limit)
}

// UpdateDescription replaces the task's text. Empty text is rejected
// before the record is touched.
func (s *TaskService) UpdateDescription(ctx context.Context, owner string, id uint32, text string) (domain.Task, error) {
	if text == "" {
		return domain.Task{}, fmt.Errorf("%w: description cannot be empty", ErrInvalidInput)
	}
	return s.mutate(ctx, owner, id, func(t *domain.Task) {
		t.Description = text
	})
}

// Delete removes the task. Deleting an absent task is a no-op, not an error.
func (s *TaskService) Delete(ctx context.Context, owner string, id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Remove(ctx, owner, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, owner)
	return nil
}

// ToggleComplete flips the completion flag.
func (s *TaskService) ToggleComplete(ctx context.Context, owner string, id uint32) (domain.Task, error) {
	return s.mutate(ctx, owner, id, func(t *domain.Task) {
		t.IsCompleted = !t.IsCompleted
	})
}

// SetPriority replaces the task's priority.
func (s *TaskService) SetPriority(ctx context.Context, owner string, id uint32, p domain.Priority) (domain.Task, error) {
	return s.mutate(ctx, owner, id, func(t *domain.Task) {
		t.Priority = p
	})
}

// AddTag appends tag to the task. Duplicates are kept.
func (s *TaskService) AddTag(ctx context.Context, owner string, id uint32, tag string) (domain.Task, error) {
	return s.mutate(ctx, owner, id, func(t *domain.Task) {
		t.AddTag(tag)
	})
}

// RemoveTag removes every occurrence of tag. An absent tag is not an error.
func (s *TaskService) RemoveTag(ctx context.Context, owner string, id uint32, tag string) (domain.Task, error) {
	return s.mutate(ctx, owner, id, func(t *domain.Task) {
		t.RemoveTag(tag)
	})
}

// mutate runs the read-modify-write cycle shared by every by-id mutation
// under the service mutex.
func (s *TaskService) mutate(ctx context.Context, owner string, id uint32, fn func(*domain.Task)) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return domain.Task{}, err
	}
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	fn(&t)
	if err := s.repo.Put(ctx, owner, t); err != nil {
		return domain.Task{}, err
	}
	s.invalidateCache(ctx, owner)
	return t, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, owner string) {
	if s.cache != nil {
		_ = s.cache.InvalidateOwner(ctx, owner)
	}
}
