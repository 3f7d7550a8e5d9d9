package page

import (
	"fmt"
	"html/template"
	types "lostfound/internal/common/type"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/middleware"
	"lostfound/internal/service/form"
	"lostfound/internal/service/navigation"
	"lostfound/web"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// Renderer executes the page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	menus []navigation.Menu
}

func NewRenderer(pages map[string]*template.Template, menus []navigation.Menu) *Renderer {
	return &Renderer{pages: pages, menus: menus}
}

// Load builds a renderer from the embedded templates and navigation menus.
func Load() (*Renderer, error) {
	pages, err := web.Pages(Funcs())
	if err != nil {
		return nil, err
	}
	data, err := web.Navigation()
	if err != nil {
		return nil, fmt.Errorf("read navigation: %w", err)
	}
	menus, err := navigation.LoadMenus(data)
	if err != nil {
		return nil, err
	}
	return NewRenderer(pages, menus), nil
}

type User struct {
	ID       uint
	Name     string
	CampusID string
}

// Base is the layout data every page view embeds.
type Base struct {
	Title   string
	User    *User
	Flashes []types.Flash
	Menus   []navigation.MenuView
}

// AddFlash shows a message on the page being rendered.
func (b *Base) AddFlash(category, message string) {
	b.Flashes = append(b.Flashes, types.Flash{Category: category, Message: message})
}

// Base collects the session user, pending flashes and the navigation bar.
// A ?menu=<id> query is applied as a click on that dropdown.
func (r *Renderer) Base(c *gin.Context, title string) Base {
	bar := navigation.NewBar(r.menus)
	if id := c.Query("menu"); id != "" {
		bar.Click(id)
	}
	return Base{
		Title:   title,
		User:    CurrentUser(c),
		Flashes: PopFlashes(c),
		Menus:   bar.Views(),
	}
}

func (r *Renderer) HTML(c *gin.Context, status int, name string, data any) {
	t, ok := r.pages[name]
	if !ok {
		logger.Error.Printf("page template %s not found", name)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	c.Render(status, render.HTML{Template: t, Name: "layout", Data: data})
}

type ErrorView struct {
	Base
	Status  int
	Message string
}

func (r *Renderer) Error(c *gin.Context, status int, message string) {
	r.HTML(c, status, "error.html", ErrorView{
		Base:    r.Base(c, http.StatusText(status)),
		Status:  status,
		Message: message,
	})
}

func (r *Renderer) NotFound(c *gin.Context, message string) {
	r.Error(c, http.StatusNotFound, message)
}

// CurrentUser reads the signed-in user from the auth claims, nil when
// anonymous.
func CurrentUser(c *gin.Context) *User {
	claims := middleware.Claims(c)
	id, ok := jwt.UserID(claims)
	if !ok {
		return nil
	}
	name, _ := claims[jwt.ClaimName].(string)
	campusID, _ := claims[jwt.ClaimCampusID].(string)
	return &User{ID: id, Name: name, CampusID: campusID}
}

// SafeNext keeps only local absolute paths as post-login targets.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

// Values reads the posted values of the given fields.
func Values(c *gin.Context, fields []form.Field) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = c.PostForm(f.Name)
	}
	return values
}

// Prefill marks query values as the initial input of a form.
func Prefill(f *form.Form, values map[string]string) {
	for name, value := range values {
		if value != "" {
			f.Input(name, value)
		}
	}
}
