package service

import (
	"sync"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/models"
)

// ChangeNotifier turns directory write transactions into item changes and
// hands them to the registered observers. Permanent folders and entries
// that stay deleted are left out.
type ChangeNotifier struct {
	mu        sync.RWMutex
	observers []ChangeObserver
}

func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{}
}

func (n *ChangeNotifier) AddObserver(o ChangeObserver) {
	n.mu.Lock()
	n.observers = append(n.observers, o)
	n.mu.Unlock()
}

// OnTransactionWrite implements directory.TransactionObserver.
func (n *ChangeNotifier) OnTransactionWrite(_ directory.WriterTag, mutations []directory.EntryKernelMutation, _ models.ModelTypeSet) {
	byType := make(map[models.ModelType][]models.ItemChange)
	var order []models.ModelType

	for _, m := range mutations {
		change, t, ok := itemChange(m)
		if !ok {
			continue
		}
		if _, seen := byType[t]; !seen {
			order = append(order, t)
		}
		byType[t] = append(byType[t], change)
	}
	if len(order) == 0 {
		return
	}

	n.mu.RLock()
	observers := append([]ChangeObserver(nil), n.observers...)
	n.mu.RUnlock()

	for _, t := range order {
		for _, o := range observers {
			o.OnItemsChanged(t, byType[t])
		}
	}
}

func itemChange(m directory.EntryKernelMutation) (models.ItemChange, models.ModelType, bool) {
	before, after := m.Original, m.Mutated
	if after.UniqueServerTag != "" || before.UniqueServerTag != "" {
		return models.ItemChange{}, 0, false
	}

	var change models.ItemChange
	if isVisible(before) {
		item := kernelToItem(before)
		change.Before = &item
	}
	if isVisible(after) {
		item := kernelToItem(after)
		change.After = &item
	}
	if change.Before == nil && change.After == nil {
		return models.ItemChange{}, 0, false
	}

	t := after.ModelType()
	if t == models.Unspecified {
		t = before.ModelType()
	}
	if !t.IsReal() || models.ControlTypes().Has(t) {
		return models.ItemChange{}, 0, false
	}
	return change, t, true
}

func isVisible(k directory.EntryKernel) bool {
	return !k.ID.IsNull() && !k.IsDel && k.ModelType() != models.Unspecified
}
