package store

import (
	"database/sql"
	"fmt"
)

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("config key not found: %s", key)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// configActiveProject 上次使用的专案
const configActiveProject = "active_project"

// GetActiveProject 读取上次使用的专案 ID，没有时为空字符串
func (s *Store) GetActiveProject() string {
	id, err := s.GetConfig(configActiveProject)
	if err != nil {
		return ""
	}
	return id
}

// SetActiveProject 记录当前专案
func (s *Store) SetActiveProject(projectID string) error {
	return s.SetConfig(configActiveProject, projectID)
}
