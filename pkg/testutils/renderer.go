package testutils

import (
	"io"
	"sync"

	"github.com/labstack/echo/v4"
)

// Render is one captured template render.
type Render struct {
	Name string
	Data interface{}
}

// Renderer is an echo.Renderer that records what would have been rendered
// instead of executing templates.
type Renderer struct {
	mu      sync.Mutex
	renders []Render
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, Render{Name: name, Data: data})
	_, err := io.WriteString(w, name)
	return err
}

// Last returns the most recent render. It reports false when nothing was
// rendered.
func (r *Renderer) Last() (Render, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.renders) == 0 {
		return Render{}, false
	}
	return r.renders[len(r.renders)-1], true
}
