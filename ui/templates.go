package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"mbps": func(v float64) string {
			return humanize.Comma(int64(math.Round(v))) + " Mbps"
		},
		"thousands": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"pct": func(part int, whole float64) string {
			if whole <= 0 {
				return "0"
			}
			return strconv.FormatFloat(float64(part)/whole*100, 'f', 1, 64)
		},
		"selected": func(values []string, v string) bool {
			for _, s := range values {
				if s == v {
					return true
				}
			}
			return false
		},
	}
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// renderTemplate renders into a buffer first so a template error never leaves a half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.internalError(c, "rendering "+name+" failed", err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
