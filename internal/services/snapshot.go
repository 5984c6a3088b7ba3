package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/dto"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/events"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
)

type ProviderState string

const (
	StateLoading    ProviderState = "loading"
	StateReady      ProviderState = "ready"
	StateRefreshing ProviderState = "refreshing"
)

// TaskProvider keeps an in-memory snapshot of the raw task collection,
// reloaded by a periodic ticker, by manual refresh and by TasksUpdated
// events from the sync service or sibling mutators. Reads apply the
// visibility filter per actor against the snapshot; the filter is never
// cached across actor or roster changes.
type TaskProvider struct {
	svc      *TaskService
	bus      *events.Bus
	interval time.Duration

	mu          sync.RWMutex
	tasks       []models.Task
	state       ProviderState
	refreshedAt time.Time

	done      chan struct{}
	stopOnce  sync.Once
	cancelSub func()
}

func NewTaskProvider(svc *TaskService, bus *events.Bus, interval time.Duration) *TaskProvider {
	return &TaskProvider{
		svc:      svc,
		bus:      bus,
		interval: interval,
		state:    StateLoading,
		done:     make(chan struct{}),
	}
}

// Start performs the initial load and launches the refresh loop.
func (p *TaskProvider) Start() {
	if err := p.Refresh(); err != nil {
		// Degrade to an empty snapshot; the next tick retries.
		slog.Error("initial task snapshot load failed", "error", err)
	}

	updated, cancel := p.bus.SubscribeUpdated()
	p.cancelSub = cancel

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := p.Refresh(); err != nil {
					slog.Error("scheduled task snapshot refresh failed", "error", err)
				}
			case e, ok := <-updated:
				if !ok {
					return
				}
				if err := p.Refresh(); err != nil {
					slog.Error("event-driven task snapshot refresh failed",
						"source", e.Source, "error", err)
				}
			case <-p.done:
				return
			}
		}
	}()
}

func (p *TaskProvider) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		if p.cancelSub != nil {
			p.cancelSub()
		}
	})
}

// Refresh reloads the raw collection and replaces the snapshot wholesale.
// Replace-whole-slice semantics: no partial writes, last writer wins.
func (p *TaskProvider) Refresh() error {
	p.mu.Lock()
	if p.state == StateReady {
		p.state = StateRefreshing
	}
	p.mu.Unlock()

	tasks, err := p.svc.rawTasks()
	if err != nil {
		p.mu.Lock()
		p.state = StateReady
		p.mu.Unlock()
		return err
	}

	now := time.Now()
	p.mu.Lock()
	p.tasks = tasks
	p.state = StateReady
	p.refreshedAt = now
	p.mu.Unlock()

	p.bus.PublishRefreshed(events.TasksRefreshed{At: now})
	return nil
}

// Tasks returns the visibility-filtered, sorted view of the snapshot for
// the acting user.
func (p *TaskProvider) Tasks(actor *models.User) ([]models.Task, error) {
	p.mu.RLock()
	snapshot := make([]models.Task, len(p.tasks))
	copy(snapshot, p.tasks)
	p.mu.RUnlock()

	if actor == nil {
		return []models.Task{}, nil
	}
	dir, err := p.svc.loadDirectory()
	if err != nil {
		return nil, err
	}
	return SortTasks(VisibleTasks(snapshot, actor, dir, p.svc.adminIDs)), nil
}

// FilterTasks applies business criteria on top of the actor's view.
func (p *TaskProvider) FilterTasks(actor *models.User, criteria dto.TaskFilterRequest) ([]models.Task, error) {
	visible, err := p.Tasks(actor)
	if err != nil {
		return nil, err
	}
	return ApplyCriteria(visible, criteria), nil
}

func (p *TaskProvider) State() ProviderState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *TaskProvider) RefreshedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.refreshedAt
}
