package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"strings"

	"ncclens/domain/table"
	"ncclens/internal/artifact"
	"ncclens/internal/dashboard"
	"ncclens/internal/errors"
	"ncclens/internal/insights"
	"ncclens/internal/report"

	"github.com/gin-gonic/gin"
)

// filterFromQuery reads repeated or comma-separated region/state/client/status parameters
func filterFromQuery(c *gin.Context) dashboard.Filter {
	return dashboard.Filter{
		Regions:     queryList(c, "region"),
		States:      queryList(c, "state"),
		ClientTypes: queryList(c, "client"),
		Statuses:    queryList(c, "status"),
	}
}

func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// dataStatus maps a load failure to the status and message shown to the user
func dataStatus(err error) (int, string) {
	switch errors.GetCode(err) {
	case errors.CodeDataFileNotFound:
		return http.StatusServiceUnavailable, "Data file not found. Run the merge step to produce it."
	case errors.CodeMalformedData:
		return http.StatusServiceUnavailable, "Data file is malformed: " + err.Error()
	}
	return http.StatusInternalServerError, "Unexpected error: " + err.Error()
}

// internalError logs err and answers with a coded 500
func (s *Server) internalError(c *gin.Context, msg string, err error) {
	appErr := errors.InternalError(msg, err)
	s.log.Error("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg, "code": appErr.Code})
}

// loadOrFail loads the dataset, answering the request itself on failure
func (s *Server) loadOrFail(c *gin.Context, html bool) (*dashboard.Dataset, bool) {
	ds, err := s.source.Load()
	if err == nil {
		return ds, true
	}

	status, msg := dataStatus(err)
	s.log.Warn("[Dashboard] cannot serve %s: %v", c.Request.URL.Path, err)
	if html {
		s.renderTemplate(c, status, "error.html", gin.H{"Title": "Data unavailable", "Message": msg})
	} else {
		c.JSON(status, gin.H{"error": msg, "code": errors.GetCode(err)})
	}
	return nil, false
}

func (s *Server) handleIndex(c *gin.Context) {
	ds, ok := s.loadOrFail(c, true)
	if !ok {
		return
	}
	cols := s.source.Columns()
	f := filterFromQuery(c)

	metrics, err := dashboard.Compute(ds, cols, f)
	if err != nil {
		status, msg := dataStatus(err)
		s.renderTemplate(c, status, "error.html", gin.H{"Title": "Data unavailable", "Message": msg})
		return
	}

	var maxRegion, maxState int
	for _, r := range metrics.CustomersByRegion {
		maxRegion = max(maxRegion, r.Count)
	}
	for _, st := range metrics.TopStates {
		maxState = max(maxState, st.Count)
	}

	s.renderTemplate(c, http.StatusOK, "index.html", gin.H{
		"Metrics":   metrics,
		"Options":   dashboard.BuildOptions(ds.Table, cols, f.Regions),
		"Filter":    f,
		"Audit":     ds.Audit,
		"LoadedAt":  ds.LoadedAt.Format("2006-01-02 15:04:05"),
		"Query":     template.URL(c.Request.URL.RawQuery),
		"MaxRegion": float64(maxRegion),
		"MaxState":  float64(maxState),
		"Rows":      float64(metrics.RowCount),
	})
}

func (s *Server) handleMetrics(c *gin.Context) {
	ds, ok := s.loadOrFail(c, false)
	if !ok {
		return
	}
	metrics, err := dashboard.Compute(ds, s.source.Columns(), filterFromQuery(c))
	if err != nil {
		status, msg := dataStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (s *Server) handleOptions(c *gin.Context) {
	ds, ok := s.loadOrFail(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dashboard.BuildOptions(ds.Table, s.source.Columns(), queryList(c, "region")))
}

func (s *Server) handleAudit(c *gin.Context) {
	ds, ok := s.loadOrFail(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":      ds.Path,
		"rows":      ds.Table.Len(),
		"loaded_at": ds.LoadedAt,
		"rewritten": ds.Audit.Rewritten,
		"unmapped":  ds.Audit.Unmapped,
	})
}

// handleReport renders the insights report for the current filter as HTML
func (s *Server) handleReport(c *gin.Context) {
	ds, ok := s.loadOrFail(c, true)
	if !ok {
		return
	}
	cols := s.source.Columns()
	filtered := filterFromQuery(c).Apply(ds.Table, cols)
	if filtered.Len() == 0 {
		s.renderTemplate(c, http.StatusOK, "error.html", gin.H{"Title": "No data", "Message": dashboard.EmptyWarning})
		return
	}

	ins, err := insights.Compute(filtered, cols)
	if err != nil {
		status, msg := dataStatus(err)
		s.renderTemplate(c, status, "error.html", gin.H{"Title": "Data unavailable", "Message": msg})
		return
	}
	doc := report.Build(ins)
	s.renderTemplate(c, http.StatusOK, "report.html", gin.H{
		"Title": doc.Title,
		"Body":  template.HTML(doc.HTML()),
	})
}

func (s *Server) handleExportFiltered(c *gin.Context) {
	ds, ok := s.loadOrFail(c, false)
	if !ok {
		return
	}
	s.writeCSV(c, "ncc_filtered_data.csv", filterFromQuery(c).Apply(ds.Table, s.source.Columns()))
}

func (s *Server) handleExportFull(c *gin.Context) {
	ds, ok := s.loadOrFail(c, false)
	if !ok {
		return
	}
	s.writeCSV(c, "ncc_full_dataset.csv", ds.Table)
}

func (s *Server) writeCSV(c *gin.Context, filename string, t *table.Table) {
	var buf bytes.Buffer
	if err := artifact.Encode(&buf, t); err != nil {
		s.internalError(c, "export of "+filename+" failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// handleExportReport serves the pre-rendered report file, or renders one from the full dataset
func (s *Server) handleExportReport(c *gin.Context) {
	const filename = "ncc_insights_report.pdf"

	if s.reportFile != "" {
		if info, err := os.Stat(s.reportFile); err == nil && !info.IsDir() {
			c.FileAttachment(s.reportFile, filename)
			return
		}
	}

	ds, ok := s.loadOrFail(c, false)
	if !ok {
		return
	}
	ins, err := insights.Compute(ds.Table, s.source.Columns())
	if err != nil {
		status, msg := dataStatus(err)
		c.JSON(status, gin.H{"error": msg, "code": errors.GetCode(err)})
		return
	}
	var buf bytes.Buffer
	if err := report.Build(ins).WritePDF(&buf); err != nil {
		s.internalError(c, "PDF report rendering failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "ok", "data_file": s.source.Path(), "data_available": true}
	if _, err := s.source.Load(); err != nil {
		resp["data_available"] = false
		resp["data_error"] = errors.GetCode(err)
	}
	c.JSON(http.StatusOK, resp)
}
