package kv

import (
	"context"
	"sort"
	"sync"
)

// Op names a Store operation for fault injection.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// Memory is a map backed Store. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	data   map[string]string
	faults map[Op]map[string]error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:   make(map[string]string),
		faults: make(map[Op]map[string]error),
	}
}

// FailOn makes op on key return err until Heal is called. An empty key
// matches every key.
func (m *Memory) FailOn(op Op, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.faults[op] == nil {
		m.faults[op] = make(map[string]error)
	}
	m.faults[op][key] = err
}

// Heal removes all injected faults.
func (m *Memory) Heal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults = make(map[Op]map[string]error)
}

// Keys lists the stored keys in order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Memory) fault(op Op, key string) error {
	byKey := m.faults[op]
	if byKey == nil {
		return nil
	}
	if err, ok := byKey[key]; ok {
		return err
	}
	return byKey[""]
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpGet, key); err != nil {
		return "", err
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpSet, key); err != nil {
		return err
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpRemove, key); err != nil {
		return err
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(OpClear, ""); err != nil {
		return err
	}
	m.data = make(map[string]string)
	return nil
}
