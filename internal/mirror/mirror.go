// Package mirror serves canned Hub payloads from a YAML fixture file so
// sync runs can be exercised without the real Hub.
package mirror

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"colortrainer/internal/auth"
)

// Route is one canned response. Status defaults to 200.
type Route struct {
	Status int `yaml:"status"`
	Body   any `yaml:"body"`
}

// Fixtures maps request paths to responses. When Token or APIKey is set the
// mirror rejects requests that do not present it, like the real Hub.
type Fixtures struct {
	Token  string           `yaml:"token"`
	APIKey string           `yaml:"api_key"`
	Routes map[string]Route `yaml:"routes"`
}

// Load reads and validates a fixture file.
func Load(path string) (*Fixtures, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(f.Routes) == 0 {
		return nil, fmt.Errorf("parse fixtures: no routes")
	}
	normalized := make(map[string]Route, len(f.Routes))
	for p, r := range f.Routes {
		if r.Status == 0 {
			r.Status = http.StatusOK
		}
		if r.Status < 100 || r.Status > 599 {
			return nil, fmt.Errorf("parse fixtures: route %s: invalid status %d", p, r.Status)
		}
		normalized["/"+strings.Trim(p, "/")] = r
	}
	f.Routes = normalized
	return &f, nil
}

// Handler answers GET requests from the fixture table.
func (f *Fixtures) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
			return
		}
		if !f.authorized(c.Request) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		route, ok := f.Routes["/"+strings.Trim(c.Request.URL.Path, "/")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no fixture for " + c.Request.URL.Path})
			return
		}
		if route.Body == nil {
			c.Status(route.Status)
			return
		}
		c.JSON(route.Status, route.Body)
	}
}

func (f *Fixtures) authorized(r *http.Request) bool {
	if f.Token != "" {
		raw, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok || subtle.ConstantTimeCompare([]byte(raw), []byte(f.Token)) != 1 {
			return false
		}
	}
	if f.APIKey != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get("apikey")), []byte(f.APIKey)) != 1 {
		return false
	}
	return true
}

// NewRouter wires the fixture handler behind the shared middleware stack.
func NewRouter(f *Fixtures, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware...)
	r.NoRoute(f.Handler())
	return r
}
