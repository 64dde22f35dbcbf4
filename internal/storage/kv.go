package storage

import (
	"fmt"
	"slices"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-blocka/internal/puzzle"
)

const (
	recordsObject = "records"
	indexProperty = "_index"
)

// KVStore keeps records as small files in the platform's per-user data
// directory through gdata. It has no solve history.
type KVStore struct {
	mu sync.Mutex
	m  *gdata.Manager
}

// OpenKV opens the data directory of appName.
func OpenKV(appName string) (*KVStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open data directory: %w", err)
	}
	return &KVStore{m: m}, nil
}

// Record returns the stored value for key.
func (s *KVStore) Record(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.ObjectPropExists(recordsObject, key) {
		return "", false, nil
	}
	data, err := s.m.LoadObjectProp(recordsObject, key)
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot load record: %w", err)
	}
	if len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

// SetRecord stores value under key.
func (s *KVStore) SetRecord(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.m.SaveObjectProp(recordsObject, key, []byte(value)); err != nil {
		return fmt.Errorf("storage: cannot save record: %w", err)
	}

	keys, err := s.keys()
	if err != nil {
		return err
	}
	if slices.Contains(keys, key) {
		return nil
	}
	keys = append(keys, key)
	slices.Sort(keys)
	return s.saveKeys(keys)
}

// Records returns every stored record ordered by key.
func (s *KVStore) Records() ([]RecordEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.keys()
	if err != nil {
		return nil, err
	}
	var entries []RecordEntry
	for _, k := range keys {
		if !s.m.ObjectPropExists(recordsObject, k) {
			continue
		}
		data, err := s.m.LoadObjectProp(recordsObject, k)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot load record %s: %w", k, err)
		}
		if len(data) == 0 {
			continue
		}
		entries = append(entries, RecordEntry{Key: k, Value: string(data)})
	}
	return entries, nil
}

// ClearRecords forgets every record. An empty value reads as absent.
func (s *KVStore) ClearRecords() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.m.SaveObjectProp(recordsObject, k, nil); err != nil {
			return fmt.Errorf("storage: cannot clear record %s: %w", k, err)
		}
	}
	return s.saveKeys(nil)
}

func (s *KVStore) keys() ([]string, error) {
	if !s.m.ObjectPropExists(recordsObject, indexProperty) {
		return nil, nil
	}
	data, err := s.m.LoadObjectProp(recordsObject, indexProperty)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load record index: %w", err)
	}
	var keys []string
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("storage: cannot parse record index: %w", err)
	}
	return keys, nil
}

func (s *KVStore) saveKeys(keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	data, err := yaml.Marshal(keys)
	if err != nil {
		return fmt.Errorf("storage: cannot encode record index: %w", err)
	}
	if err := s.m.SaveObjectProp(recordsObject, indexProperty, data); err != nil {
		return fmt.Errorf("storage: cannot save record index: %w", err)
	}
	return nil
}

var _ puzzle.RecordStore = (*KVStore)(nil)
