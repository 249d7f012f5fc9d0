package project

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"ycreport/internal/model"
	"ycreport/internal/parser"
	"ycreport/internal/service/calculator"
	memstore "ycreport/internal/service/store"
	"ycreport/internal/store"
)

const (
	saveDebounceDelay  = time.Second
	defaultProjectName = "預設專案"
)

var (
	ErrNoActiveProject = errors.New("no active project")
	ErrFileNotFound    = errors.New("source file not found")
	ErrNoUndoSnapshot  = errors.New("no undo snapshot")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Manager 专案管理器：负责切换专案、匯入、编辑与持久化（自动保存）
type Manager struct {
	dataDir      string
	defaultTitle string

	db     *store.Store
	mem    *memstore.MemoryStore
	engine *calculator.Engine

	mu        sync.Mutex
	activeID  string
	saveTimer *time.Timer
}

func NewManager(dataDir string, db *store.Store, mem *memstore.MemoryStore, engine *calculator.Engine, defaultTitle string) (*Manager, error) {
	if err := requireNonEmptyString(dataDir, "dataDir is required"); err != nil {
		return nil, err
	}

	m := &Manager{
		dataDir:      dataDir,
		defaultTitle: defaultTitle,
		db:           db,
		mem:          mem,
		engine:       engine,
	}

	if err := m.restoreActive(); err != nil {
		return nil, err
	}
	return m, nil
}

// restoreActive 载入上次使用的专案；没有任何专案时建立预设专案
func (m *Manager) restoreActive() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id := m.db.GetActiveProject(); id != "" {
		if err := m.loadProjectLocked(id); err == nil {
			return nil
		}
		log.Printf("上次使用的专案无法载入: %s", id)
	}

	projects, err := m.db.ListProjects()
	if err != nil {
		return err
	}
	if len(projects) > 0 {
		return m.loadProjectLocked(projects[0].ID)
	}

	p, err := m.db.CreateProject(defaultProjectName, m.defaultTitle)
	if err != nil {
		return err
	}
	return m.loadProjectLocked(p.ID)
}

func (m *Manager) undoPath(projectID string) string {
	return filepath.Join(m.dataDir, "projects", projectID, "undo.json")
}

func (m *Manager) backupPath(projectID string) string {
	return filepath.Join(m.dataDir, "backups", projectID+".json")
}

// Engine 计算引擎
func (m *Manager) Engine() *calculator.Engine {
	return m.engine
}

func (m *Manager) ListProjects() ([]ProjectSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	projects, err := m.db.ListProjects()
	if err != nil {
		return nil, err
	}
	return lo.Map(projects, func(p store.Project, _ int) ProjectSummary {
		return summaryOf(p, m.activeID)
	}), nil
}

func (m *Manager) Current() (*CurrentProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeID == "" {
		return nil, ErrNoActiveProject
	}
	p, err := m.db.GetProject(m.activeID)
	if err != nil {
		return nil, err
	}
	files := m.mem.Files()
	if files == nil {
		files = []string{}
	}
	return &CurrentProject{
		Project: summaryOf(p, m.activeID),
		Title:   m.mem.Title(),
		Files:   files,
		Records: m.mem.Count(),
		HasData: m.mem.HasData(),
	}, nil
}

func (m *Manager) CreateProject(name string) (ProjectSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := requireNonEmptyString(strings.TrimSpace(name), "name is required"); err != nil {
		return ProjectSummary{}, err
	}
	if err := m.saveNowLocked(); err != nil {
		return ProjectSummary{}, err
	}

	p, err := m.db.CreateProject(strings.TrimSpace(name), m.defaultTitle)
	if err != nil {
		return ProjectSummary{}, err
	}
	if err := m.loadProjectLocked(p.ID); err != nil {
		return ProjectSummary{}, err
	}
	return summaryOf(p, m.activeID), nil
}

func (m *Manager) SelectProject(projectID string) (ProjectSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := requireNonEmptyString(projectID, "projectId is required"); err != nil {
		return ProjectSummary{}, err
	}
	p, err := m.db.GetProject(projectID)
	if err != nil {
		return ProjectSummary{}, err
	}

	if m.activeID != "" && m.activeID != projectID {
		if err := m.saveNowLocked(); err != nil {
			return ProjectSummary{}, err
		}
	}
	if err := m.loadProjectLocked(projectID); err != nil {
		return ProjectSummary{}, err
	}
	return summaryOf(p, m.activeID), nil
}

func (m *Manager) DeleteProject(projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := requireNonEmptyString(projectID, "projectId is required"); err != nil {
		return err
	}
	if err := m.db.DeleteProject(projectID); err != nil {
		return err
	}
	_ = os.RemoveAll(filepath.Dir(m.undoPath(projectID)))

	if m.activeID != projectID {
		return nil
	}

	// 删除的是当前专案：切换到其他专案，没有则建立预设专案
	m.stopTimerLocked()
	m.activeID = ""
	m.mem.Clear()

	projects, err := m.db.ListProjects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		p, err := m.db.CreateProject(defaultProjectName, m.defaultTitle)
		if err != nil {
			return err
		}
		return m.loadProjectLocked(p.ID)
	}
	return m.loadProjectLocked(projects[0].ID)
}

// Report 当前总表；尚未计算时为零值骨架
func (m *Manager) Report() []model.ConsolidatedRow {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rows := m.mem.Rows(); len(rows) > 0 {
		return rows
	}
	return m.engine.Consolidate(m.mem.Records(), nil)
}

// Monthly 当前月报表；只有旧版总表时由总表反推
func (m *Manager) Monthly() []model.MonthlyMetricRow {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.mem.Records()
	if len(records) == 0 {
		if rows := m.mem.Rows(); len(rows) > 0 {
			return m.engine.MonthlyFromConsolidated(rows)
		}
	}
	return m.engine.Monthly(records)
}

// Records 当前原始记录
func (m *Manager) Records() []model.RawRecord {
	return m.mem.Records()
}

// Validate 总表资料规则检查
func (m *Manager) Validate() map[string][]string {
	return calculator.ValidateRows(m.Report())
}

// ImportRecords 匯入已解析的记录（原始记录与旧版总表列可混合）
func (m *Manager) ImportRecords(fileName string, records []model.Record) (ImportResult, error) {
	raw, legacy := parser.SplitRecords(records)
	raw = parser.TagSource(raw, fileName)
	return m.importParsed(fileName, store.ImportKindRecords, raw, legacy, nil)
}

// ImportXlsx 匯入平面工作簿
func (m *Manager) ImportXlsx(fileName string, r io.Reader) (ImportResult, error) {
	raw, report, err := parser.ReadWorkbook(r, fileName)
	if err != nil {
		return ImportResult{}, err
	}
	return m.importParsed(fileName, store.ImportKindXlsx, raw, nil, report)
}

func (m *Manager) importParsed(fileName, kind string, raw []model.RawRecord, legacy []model.ConsolidatedRow, report *parser.ImportReport) (ImportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeID == "" {
		return ImportResult{}, ErrNoActiveProject
	}

	logID, logErr := m.db.CreateImportLog(m.activeID, fileName, kind, len(raw)+len(legacy))
	if logErr != nil {
		log.Printf("写入匯入日志失败: %v", logErr)
	}

	err := m.mutateLocked(func(records []model.RawRecord, rows []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error) {
		base := rows
		if len(legacy) > 0 {
			if len(base) == 0 {
				base = m.engine.Skeleton()
			}
			base = m.engine.Reconcile(base, legacy)
		}
		next := append(records, raw...)
		return next, m.engine.Consolidate(next, base), nil
	})

	if logErr == nil {
		status, msg := "completed", ""
		if err != nil {
			status, msg = "failed", err.Error()
		}
		if uerr := m.db.UpdateImportLog(logID, len(raw), len(legacy), status, msg); uerr != nil {
			log.Printf("更新匯入日志失败: %v", uerr)
		}
	}
	if err != nil {
		return ImportResult{}, err
	}

	log.Printf("匯入完成: %s 原始记录 %d 笔，旧版总表 %d 列", fileName, len(raw), len(legacy))
	if report != nil {
		report.LegacyRows = len(legacy)
	}
	unknown := m.engine.UnknownUnits(legacy)
	if len(unknown) > 0 {
		log.Printf("旧版总表含未知召会，已略过: %v", unknown)
	}
	return ImportResult{FileName: fileName, Records: len(raw), LegacyRows: len(legacy), UnknownUnits: unknown, Report: report}, nil
}

// RemoveFile 移除某来源报表的全部记录，以现有总表为旧版资料重算（保留目标）
func (m *Manager) RemoveFile(fileName string) error {
	target := strings.TrimSpace(fileName)
	return m.mutate(func(records []model.RawRecord, rows []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error) {
		next := lo.Reject(records, func(r model.RawRecord, _ int) bool {
			return strings.TrimSpace(r.SourceFile()) == target
		})
		if len(next) == len(records) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileName)
		}
		return next, m.engine.Consolidate(next, rows), nil
	})
}

// EditCell 修改总表栏位
func (m *Manager) EditCell(unit, field string, value float64) error {
	return m.mutate(func(records []model.RawRecord, rows []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error) {
		if len(rows) == 0 {
			rows = m.engine.Consolidate(records, nil)
		}
		next, err := m.engine.EditCell(rows, unit, field, value)
		return records, next, err
	})
}

// EditMonthly 修改月报表数值（写回原始记录后重算）
func (m *Manager) EditMonthly(unit, field string, value float64) error {
	return m.mutate(func(records []model.RawRecord, rows []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error) {
		next, err := m.engine.ApplyMonthlyEdit(records, unit, field, value)
		if err != nil {
			return nil, nil, err
		}
		return next, m.engine.Consolidate(next, rows), nil
	})
}

// ApplyTargets 匯入目标与基数，返回被忽略的项目
func (m *Manager) ApplyTargets(values map[string]map[string]float64) ([]string, error) {
	var ignored []string
	err := m.mutate(func(records []model.RawRecord, rows []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error) {
		if len(rows) == 0 {
			rows = m.engine.Consolidate(records, nil)
		}
		var next []model.ConsolidatedRow
		next, ignored = m.engine.ApplyTargets(rows, values)
		return records, next, nil
	})
	return ignored, err
}

// ClearTargets 清除目标与基数
func (m *Manager) ClearTargets() error {
	return m.mutate(func(records []model.RawRecord, rows []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error) {
		if len(rows) == 0 {
			return records, rows, nil
		}
		return records, m.engine.ClearTargets(rows), nil
	})
}

// Clear 清空当前专案的全部数据
func (m *Manager) Clear() error {
	return m.mutate(func(_ []model.RawRecord, _ []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error) {
		return nil, nil, nil
	})
}

// SetTitle 修改报表标题
func (m *Manager) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mem.SetTitle(title)
	m.scheduleSaveLocked()
}

// Document 当前专案档
func (m *Manager) Document() model.ProjectDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := m.documentLocked()
	if len(doc.MasterData) == 0 {
		doc.MasterData = m.engine.Consolidate(doc.RawData, nil)
	}
	return doc
}

func (m *Manager) documentLocked() model.ProjectDocument {
	return model.ProjectDocument{
		Title:      m.mem.Title(),
		MasterData: m.mem.Rows(),
		RawData:    m.mem.Records(),
		Timestamp:  time.Now().UTC(),
		Version:    model.DocumentVersion,
	}
}

// ImportDocument 匯入专案档
// 目前已有数据时合并（总表按栏位策略合并，原始记录相加）；否则直接採用专案档（含标题）
func (m *Manager) ImportDocument(doc model.ProjectDocument) (ImportMode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeID == "" {
		return "", ErrNoActiveProject
	}

	mode := ImportOverwrite
	if m.mem.HasData() {
		mode = ImportMerge
	}

	logID, logErr := m.db.CreateImportLog(m.activeID, doc.Title, store.ImportKindDocument, len(doc.RawData)+len(doc.MasterData))
	if logErr != nil {
		log.Printf("写入匯入日志失败: %v", logErr)
	}

	err := m.mutateLocked(func(records []model.RawRecord, rows []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error) {
		if mode == ImportOverwrite {
			return doc.RawData, m.engine.Consolidate(doc.RawData, doc.MasterData), nil
		}
		if len(rows) == 0 {
			rows = m.engine.Consolidate(records, nil)
		}
		merged := m.engine.MergeRowSets(rows, doc.MasterData)
		all := append(records, doc.RawData...)
		return all, m.engine.Consolidate(all, merged), nil
	})
	if err == nil && mode == ImportOverwrite && doc.Title != "" {
		m.mem.SetTitle(doc.Title)
	}

	if logErr == nil {
		status, msg := "completed", ""
		if err != nil {
			status, msg = "failed", err.Error()
		}
		if uerr := m.db.UpdateImportLog(logID, len(doc.RawData), len(doc.MasterData), status, msg); uerr != nil {
			log.Printf("更新匯入日志失败: %v", uerr)
		}
	}
	if err != nil {
		return "", err
	}
	log.Printf("专案档匯入完成 (%s): 原始记录 %d 笔，总表 %d 列", mode, len(doc.RawData), len(doc.MasterData))
	return mode, nil
}

// ImportLogs 当前专案的匯入日志
func (m *Manager) ImportLogs(limit int) ([]store.ImportLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeID == "" {
		return nil, ErrNoActiveProject
	}
	return m.db.ListImportLogs(m.activeID, limit)
}

// UndoLast 撤销上一次修改（单步）
func (m *Manager) UndoLast() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeID == "" {
		return ErrNoActiveProject
	}
	path := m.undoPath(m.activeID)
	if !fileExists(path) {
		return ErrNoUndoSnapshot
	}

	var doc model.ProjectDocument
	if err := readJSON(path, &doc); err != nil {
		return err
	}
	m.mem.Set(doc.RawData, doc.MasterData)
	_ = os.Remove(path)
	m.scheduleSaveLocked()
	return nil
}

func (m *Manager) mutate(fn func([]model.RawRecord, []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeID == "" {
		return ErrNoActiveProject
	}
	return m.mutateLocked(fn)
}

// mutateLocked 计算新状态；成功时先保存撤销快照再写入内存，并排程保存
func (m *Manager) mutateLocked(fn func([]model.RawRecord, []model.ConsolidatedRow) ([]model.RawRecord, []model.ConsolidatedRow, error)) error {
	records, rows := m.mem.Records(), m.mem.Rows()
	nextRecords, nextRows, err := fn(records, rows)
	if err != nil {
		return err
	}

	if err := writeJSONAtomic(m.undoPath(m.activeID), model.ProjectDocument{
		Title:      m.mem.Title(),
		MasterData: rows,
		RawData:    records,
		Timestamp:  time.Now().UTC(),
		Version:    model.DocumentVersion,
	}); err != nil {
		log.Printf("写入撤销快照失败: %v", err)
	}

	m.mem.Set(nextRecords, nextRows)
	m.scheduleSaveLocked()
	return nil
}

func (m *Manager) SaveNow() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveNowLocked()
}

// Close 停止自动保存并立即保存
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	return m.saveNowLocked()
}

func (m *Manager) scheduleSaveLocked() {
	if m.activeID == "" {
		return
	}
	m.stopTimerLocked()
	m.saveTimer = time.AfterFunc(saveDebounceDelay, func() {
		if err := m.SaveNow(); err != nil {
			log.Printf("自动保存失败: %v", err)
		}
	})
}

func (m *Manager) stopTimerLocked() {
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
}

func (m *Manager) saveNowLocked() error {
	if m.activeID == "" {
		return nil
	}
	doc := m.documentLocked()
	if err := m.db.SaveDocument(m.activeID, doc); err != nil {
		return err
	}
	return nil
}

// Backup 将当前专案档写到 backups 目录，返回路径
func (m *Manager) Backup() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeID == "" {
		return "", ErrNoActiveProject
	}
	path := m.backupPath(m.activeID)
	if err := WriteDocumentFile(path, m.documentLocked()); err != nil {
		return "", err
	}
	return path, nil
}

func (m *Manager) loadProjectLocked(projectID string) error {
	doc, err := m.db.LoadDocument(projectID)
	if err != nil {
		return err
	}

	m.stopTimerLocked()
	title := doc.Title
	if title == "" {
		title = m.defaultTitle
	}
	m.mem.SetTitle(title)
	m.mem.Set(doc.RawData, doc.MasterData)
	m.activeID = projectID

	if err := m.db.SetActiveProject(projectID); err != nil {
		log.Printf("记录当前专案失败: %v", err)
	}
	return nil
}
