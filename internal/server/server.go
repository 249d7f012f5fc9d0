package server

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"ycreport/internal/api/report"
	"ycreport/internal/config"
	"ycreport/internal/service/calculator"
	"ycreport/internal/service/project"
	memstore "ycreport/internal/service/store"
	"ycreport/internal/store"
)

// Server HTTP服务器
type Server struct {
	router     *gin.Engine
	store      *store.Store
	projects   *project.Manager
	report     *report.Handler
	autoBackup bool
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "ycreport.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}

	title := cfg.Report.Title
	if title == "" {
		title = config.DefaultTitle
	}
	engine := calculator.NewEngine(cfg.Report.ToReportSettings())
	projects, err := project.NewManager(dataDir, sqliteStore, memstore.NewMemoryStore(), engine, title)
	if err != nil {
		_ = sqliteStore.Close()
		return nil, fmt.Errorf("初始化专案失败: %w", err)
	}

	s := &Server{
		router:     gin.Default(),
		store:      sqliteStore,
		projects:   projects,
		report:     report.NewHandler(projects, cfg.Report.TemplatePath),
		autoBackup: cfg.Data.AutoBackup,
	}

	s.setupRoutes(devMode)

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.report.RegisterRoutes(api)
	}

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
		return
	}
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler 用于测试或嵌入其他 http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// SaveNow 立即持久化当前专案
func (s *Server) SaveNow() error {
	return s.projects.SaveNow()
}

// Close 保存、按配置备份并关闭数据库
func (s *Server) Close() error {
	if s.autoBackup {
		if path, err := s.projects.Backup(); err != nil {
			log.Printf("自动备份失败: %v", err)
		} else {
			log.Printf("已备份专案档: %s", path)
		}
	}
	if err := s.projects.Close(); err != nil {
		_ = s.store.Close()
		return err
	}
	return s.store.Close()
}
