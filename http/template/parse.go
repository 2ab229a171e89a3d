package template

import (
	"bytes"
	"fmt"
	html "html/template"
	"io"
	"io/fs"
	"path"
	"reflect"
	"sync"
)

// Parser is the interface for parsing HTML templates with the functions provided.
type Parser interface {
	AddFn(name string, fn any)
	Parse(filesys fs.FS, fps ...string) (*html.Template, error)
}

// Parse implements Parser, parsing templates out of any fs.FS,
// typically one layering the views/ directories of an app with [Layered].
type Parse struct {
	mu  sync.RWMutex
	fns html.FuncMap
}

// NewParser constructs a Parse with the provided functional options.
func NewParser(opts ...ParserOptFn) *Parse {
	p := &Parse{fns: make(html.FuncMap)}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// AddFn includes the named function in the Parse function map.
// Values that are not functions are ignored.
func (p *Parse) AddFn(name string, fn any) {
	if name == "" || fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fns == nil {
		p.fns = make(html.FuncMap)
	}
	p.fns[name] = fn
}

// AddFuncs includes every function in fns in the Parse function map.
func (p *Parse) AddFuncs(fns map[string]any) {
	for name, fn := range fns {
		p.AddFn(name, fn)
	}
}

// Clone copies p, so functions added to the copy stay out of p.
func (p *Parse) Clone() *Parse {
	p.mu.RLock()
	defer p.mu.RUnlock()

	c := &Parse{fns: make(html.FuncMap, len(p.fns))}
	for k, v := range p.fns {
		c.fns[k] = v
	}

	return c
}

// Parse parses files found in filesys with those functions provided previously.
// The first file names the template returned.
func (p *Parse) Parse(filesys fs.FS, fps ...string) (*html.Template, error) {
	files := make([]string, 0, len(fps))
	for _, fp := range fps {
		if fp != "" {
			files = append(files, fp)
		}
	}

	if len(files) == 0 || filesys == nil {
		return nil, fmt.Errorf("%w", ErrNoFiles)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	return html.New(path.Base(files[0])).Funcs(p.fns).ParseFS(filesys, files...)
}

// Render parses the files and executes the first into w with data.
//
// Nothing is written to w when executing fails.
func (p *Parse) Render(w io.Writer, filesys fs.FS, data any, fps ...string) error {
	tmpl, err := p.Parse(filesys, fps...)
	if err != nil {
		return err
	}

	b := new(bytes.Buffer)
	if err := tmpl.Execute(b, data); err != nil {
		return fmt.Errorf("%w: %s", ErrExecute, err)
	}

	_, err = b.WriteTo(w)
	return err
}
