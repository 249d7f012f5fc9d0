package store

import (
	"sync"

	"ycreport/internal/model"
)

// MemoryStore 当前专案的内存工作集：原始记录与总表
type MemoryStore struct {
	title   string
	records []model.RawRecord
	rows    []model.ConsolidatedRow
	mu      sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Title 报表标题
func (s *MemoryStore) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// SetTitle 设置报表标题
func (s *MemoryStore) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// Records 原始记录副本
func (s *MemoryStore) Records() []model.RawRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RawRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Rows 总表副本
func (s *MemoryStore) Rows() []model.ConsolidatedRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ConsolidatedRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// Set 同时替换原始记录与总表
func (s *MemoryStore) Set(records []model.RawRecord, rows []model.ConsolidatedRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.rows = rows
}

// Files 已载入的来源报表（按首次出现顺序）
func (s *MemoryStore) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, r := range s.records {
		name := r.SourceFile()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Count 原始记录笔数
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// HasData 是否有任何原始记录或总表
func (s *MemoryStore) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records) > 0 || len(s.rows) > 0
}

// Clear 清空数据（保留标题）
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.rows = nil
}
