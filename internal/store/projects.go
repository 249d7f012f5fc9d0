package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ycreport/internal/model"
)

// ErrProjectNotFound 专案不存在
var ErrProjectNotFound = errors.New("project not found")

// Project 专案概要
type Project struct {
	ID          string    `json:"projectId"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	RecordCount int       `json:"recordCount"`
	RowCount    int       `json:"rowCount"`
}

// HasData 是否已有原始记录或总表
func (p Project) HasData() bool {
	return p.RecordCount > 0 || p.RowCount > 0
}

// NewProjectID 产生专案 ID
func NewProjectID() string {
	return fmt.Sprintf("p_%s", uuid.New().String()[:8])
}

// CreateProject 建立空专案
func (s *Store) CreateProject(name, title string) (Project, error) {
	now := time.Now().UTC().Truncate(time.Second)
	p := Project{
		ID:        NewProjectID(),
		Name:      name,
		Title:     title,
		Version:   model.DocumentVersion,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.Exec(`
		INSERT INTO projects (id, name, title, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Title, p.Version, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

const projectColumns = `
	p.id, p.name, p.title, p.version, p.created_at, p.updated_at,
	(SELECT COUNT(1) FROM raw_records r WHERE r.project_id = p.id),
	(SELECT COUNT(1) FROM report_rows w WHERE w.project_id = p.id)
`

func scanProject(scan func(dest ...any) error) (Project, error) {
	var p Project
	err := scan(&p.ID, &p.Name, &p.Title, &p.Version, &p.CreatedAt, &p.UpdatedAt, &p.RecordCount, &p.RowCount)
	return p, err
}

// GetProject 查询单一专案
func (s *Store) GetProject(id string) (Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)
	p, err := scanProject(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return Project{}, fmt.Errorf("query project failed: %w", err)
	}
	return p, nil
}

// ListProjects 全部专案（最近更新在前）
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects p ORDER BY p.updated_at DESC, p.id`)
	if err != nil {
		return nil, fmt.Errorf("query projects failed: %w", err)
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan project failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects failed: %w", err)
	}
	return out, nil
}

// DeleteProject 删除专案及其全部数据
func (s *Store) DeleteProject(id string) error {
	res, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return nil
}

// SaveDocument 以专案档整体覆盖专案数据（单一事务）
func (s *Store) SaveDocument(projectID string, doc model.ProjectDocument) error {
	tx, err := s.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	updatedAt := doc.Timestamp.UTC().Truncate(time.Second)
	if doc.Timestamp.IsZero() {
		updatedAt = time.Now().UTC().Truncate(time.Second)
	}
	version := doc.Version
	if version == "" {
		version = model.DocumentVersion
	}

	res, err := tx.Exec(`UPDATE projects SET title = ?, version = ?, updated_at = ? WHERE id = ?`,
		doc.Title, version, updatedAt, projectID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	if _, err := tx.Exec(`DELETE FROM raw_records WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to clear raw records: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM report_rows WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to clear report rows: %w", err)
	}

	recStmt, err := tx.Prepare(`
		INSERT INTO raw_records (project_id, seq, source_file, sheet_name, payload)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare raw record insert: %w", err)
	}
	defer recStmt.Close()

	for i, r := range doc.RawData {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode raw record %d: %w", i, err)
		}
		if _, err := recStmt.Exec(projectID, i, r.SourceFile(), r.SheetName(), string(payload)); err != nil {
			return fmt.Errorf("failed to insert raw record %d: %w", i, err)
		}
	}

	rowStmt, err := tx.Prepare(`
		INSERT INTO report_rows (project_id, seq, name, region, payload)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare report row insert: %w", err)
	}
	defer rowStmt.Close()

	for i, r := range doc.MasterData {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode report row %s: %w", r.Name, err)
		}
		if _, err := rowStmt.Exec(projectID, i, r.Name, r.Region, string(payload)); err != nil {
			return fmt.Errorf("failed to insert report row %s: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// LoadDocument 读取专案档
func (s *Store) LoadDocument(projectID string) (model.ProjectDocument, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return model.ProjectDocument{}, err
	}

	doc := model.ProjectDocument{
		Title:      p.Title,
		Timestamp:  p.UpdatedAt,
		Version:    p.Version,
		RawData:    []model.RawRecord{},
		MasterData: []model.ConsolidatedRow{},
	}

	recs, err := s.db.Query(`SELECT payload FROM raw_records WHERE project_id = ? ORDER BY seq`, projectID)
	if err != nil {
		return model.ProjectDocument{}, fmt.Errorf("query raw records failed: %w", err)
	}
	defer recs.Close()
	for recs.Next() {
		var payload string
		if err := recs.Scan(&payload); err != nil {
			return model.ProjectDocument{}, fmt.Errorf("scan raw record failed: %w", err)
		}
		var r model.RawRecord
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return model.ProjectDocument{}, fmt.Errorf("decode raw record failed: %w", err)
		}
		doc.RawData = append(doc.RawData, r)
	}
	if err := recs.Err(); err != nil {
		return model.ProjectDocument{}, fmt.Errorf("iterate raw records failed: %w", err)
	}

	rows, err := s.db.Query(`SELECT payload FROM report_rows WHERE project_id = ? ORDER BY seq`, projectID)
	if err != nil {
		return model.ProjectDocument{}, fmt.Errorf("query report rows failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return model.ProjectDocument{}, fmt.Errorf("scan report row failed: %w", err)
		}
		var r model.ConsolidatedRow
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return model.ProjectDocument{}, fmt.Errorf("decode report row failed: %w", err)
		}
		doc.MasterData = append(doc.MasterData, r)
	}
	if err := rows.Err(); err != nil {
		return model.ProjectDocument{}, fmt.Errorf("iterate report rows failed: %w", err)
	}

	return doc, nil
}
