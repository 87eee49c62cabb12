// Package server exposes the pipeline over HTTP. Every request carries its
// own PipelineConfig; nothing is shared between requests except the
// read-only preset table.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/piwi3910/parasys/internal/export"
	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/pipeline"
)

// Server serves the HTTP API.
type Server struct {
	presets model.PresetTable
	router  *gin.Engine
}

// New builds the router. Custom presets in table are visible to every request.
func New(table model.PresetTable) *Server {
	if len(table.Presets) == 0 {
		table = model.DefaultPresetTable()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{presets: table, router: gin.New()}
	s.router.Use(gin.Recovery(), requestLogger())

	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/presets", s.handlePresets)
	s.router.POST("/panels", s.handlePanels)
	s.router.POST("/nest", s.handleNest)
	s.router.POST("/export/:format", s.handleExport)
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePresets(c *gin.Context) {
	presets := lo.Map(s.presets.Keys(), func(k string, _ int) model.SheetPreset { return s.presets.Presets[k] })
	c.JSON(http.StatusOK, gin.H{
		"presets":   presets,
		"materials": s.presets.Materials,
	})
}

func (s *Server) handlePanels(c *gin.Context) {
	cfg, ok := s.bindConfig(c)
	if !ok {
		return
	}
	params, specs, profiles := pipeline.Generate(cfg)
	var diags model.Diagnostics
	for _, p := range profiles {
		diags = append(diags, p.Diagnostics...)
	}
	c.JSON(http.StatusOK, gin.H{
		"parameters":  params,
		"panels":      specs,
		"profiles":    profiles,
		"diagnostics": nonNil(diags),
	})
}

func (s *Server) handleNest(c *gin.Context) {
	res, ok := s.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":      res.RunID,
		"preset":      res.Preset,
		"sheet":       res.Sheet,
		"nesting":     res.Nesting,
		"estimate":    res.Estimate,
		"offcuts":     nonNil(res.Offcuts),
		"diagnostics": nonNil(res.Diagnostics),
	})
}

func (s *Server) handleExport(c *gin.Context) {
	format, err := pipeline.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	res, ok := s.run(c)
	if !ok {
		return
	}

	art, err := res.Render(format)
	var exportErr *export.ExportError
	switch {
	case errors.As(err, &exportErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": exportErr.Error(), "rejected_panels": exportErr.Rejected})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pipeline.SafeName(res.Name())+format.FileSuffix()))
	c.Header("X-Parasys-Run", res.RunID)
	c.Header("X-Parasys-Diagnostics", strconv.Itoa(len(res.Diagnostics)+len(art.Diagnostics)))
	c.Data(http.StatusOK, format.ContentType(), art.Data)
}

// bindConfig decodes the request body over the default config. An empty
// body runs the defaults.
func (s *Server) bindConfig(c *gin.Context) (model.PipelineConfig, bool) {
	cfg := model.DefaultPipelineConfig()
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid pipeline config: %v", err)})
			return cfg, false
		}
	}
	cfg.Presets = s.presets
	return cfg, true
}

func (s *Server) run(c *gin.Context) (*pipeline.Result, bool) {
	cfg, ok := s.bindConfig(c)
	if !ok {
		return nil, false
	}
	res, err := pipeline.Run(c.Request.Context(), cfg)
	switch {
	case errors.Is(err, model.ErrInvalidSheetOptions):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return res, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
