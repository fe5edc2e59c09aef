package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-chat/internal/model"
)

// apiPrefixes 未匹配时返回 JSON 404 的路径前缀
var apiPrefixes = []string{"/api", "/chat", "/transcribe", "/tts", "/swagger"}

// frontend 前端构建产物
type frontend struct {
	dir   string
	index string
}

func newFrontend(dir string) *frontend {
	f := &frontend{dir: dir}
	if dir == "" {
		return f
	}
	index := filepath.Join(dir, "index.html")
	if info, err := os.Stat(index); err == nil && !info.IsDir() {
		f.index = index
	}
	return f
}

func (f *frontend) available() bool {
	return f.index != ""
}

// register 注册静态资源与 NoRoute 回退
func (f *frontend) register(engine *gin.Engine) {
	if f.available() {
		engine.Static("/assets", filepath.Join(f.dir, "assets"))
		engine.GET("/", f.serveIndex)
		engine.HEAD("/", f.serveIndex)
	}
	engine.NoRoute(f.fallback)
}

func (f *frontend) serveIndex(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.File(f.index)
}

// fallback 未匹配路由
// API 路径返回 JSON 404；其他 GET/HEAD 请求返回构建目录中的文件或 index.html，交给前端路由处理
func (f *frontend) fallback(c *gin.Context) {
	p := c.Request.URL.Path
	if isAPIPath(p) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "API endpoint not found"})
		return
	}

	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Not found"})
		return
	}

	if !f.available() {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Frontend not built"})
		return
	}

	// path.Clean 以 / 开头，结果不会越出构建目录
	file := filepath.Join(f.dir, filepath.FromSlash(path.Clean("/"+p)))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		c.File(file)
		return
	}

	f.serveIndex(c)
}

// isAPIPath 按前缀匹配，/chatroom 同样视为 API 路径
func isAPIPath(p string) bool {
	for _, prefix := range apiPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
