package usecase

import (
	"sync"

	"homevoice/internal/domain"
)

// projectionState holds the local mirrors of the remote collections plus
// the transient search overlay. Exactly one of default view and search view
// is visible at a time; a nil search view means the default view.
type projectionState struct {
	mu        sync.Mutex
	inventory []domain.Item
	habits    []domain.Habit
	search    *domain.SearchView
}

func newProjectionState() *projectionState {
	return &projectionState{}
}

func (p *projectionState) setInventory(items []domain.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inventory = items
}

func (p *projectionState) setHabits(habits []domain.Habit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.habits = habits
}

func (p *projectionState) setSearchView(view *domain.SearchView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = view
}

func (p *projectionState) clearSearchView() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = nil
}

func (p *projectionState) inventorySnapshot() []domain.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Item, len(p.inventory))
	copy(out, p.inventory)
	return out
}

func (p *projectionState) habitsSnapshot() []domain.Habit {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Habit, len(p.habits))
	copy(out, p.habits)
	return out
}

func (p *projectionState) searchViewSnapshot() *domain.SearchView {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.search == nil {
		return nil
	}
	view := *p.search
	return &view
}
