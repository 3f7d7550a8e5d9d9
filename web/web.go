package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
)

//go:embed templates navigation.yaml static
var files embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsGlob = "templates/partials/*.html"
	pagesGlob    = "templates/pages/*.html"
)

// Pages parses each page together with the layout and partials. The map is
// keyed by page file name, e.g. "login.html"; every set executes "layout".
func Pages(funcs template.FuncMap) (map[string]*template.Template, error) {
	names, err := fs.Glob(files, pagesGlob)
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New(path.Base(name)).Funcs(funcs).ParseFS(files, layoutFile, partialsGlob, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[path.Base(name)] = t
	}
	return pages, nil
}

// Navigation returns the menu definition YAML.
func Navigation() ([]byte, error) {
	return files.ReadFile("navigation.yaml")
}

// Static is the file tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
