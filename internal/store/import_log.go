package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ImportLog 匯入日志
type ImportLog struct {
	ID           int64      `json:"id"`
	ProjectID    string     `json:"projectId"`
	FileName     string     `json:"fileName"`
	Kind         string     `json:"kind"`
	TotalRows    int        `json:"totalRows"`
	ImportedRows int        `json:"importedRows"`
	LegacyRows   int        `json:"legacyRows"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// 匯入种类
const (
	ImportKindRecords  = "records"
	ImportKindXlsx     = "xlsx"
	ImportKindDocument = "document"
	ImportKindTargets  = "targets"
)

// CreateImportLog 创建匯入日志，返回 import_log_id
func (s *Store) CreateImportLog(projectID, filename, kind string, totalRows int) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (project_id, filename, kind, total_rows, status)
		VALUES (?, ?, ?, ?, 'processing')
	`, projectID, filename, kind, totalRows)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog 完成匯入日志更新
func (s *Store) UpdateImportLog(id int64, importedRows, legacyRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			imported_rows = ?,
			legacy_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, importedRows, legacyRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 专案的匯入日志（新到旧）
func (s *Store) ListImportLogs(projectID string, limit int) ([]ImportLog, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, filename, kind, total_rows, imported_rows, legacy_rows,
		       status, error_message, created_at, completed_at
		FROM import_logs
		WHERE project_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("query import logs failed: %w", err)
	}
	defer rows.Close()

	var out []ImportLog
	for rows.Next() {
		var it ImportLog
		var completed sql.NullTime
		if err := rows.Scan(&it.ID, &it.ProjectID, &it.FileName, &it.Kind, &it.TotalRows,
			&it.ImportedRows, &it.LegacyRows, &it.Status, &it.ErrorMessage, &it.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan import log failed: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import logs failed: %w", err)
	}
	return out, nil
}
