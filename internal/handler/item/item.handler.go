package item

import (
	"errors"
	"fmt"
	"html/template"
	"lostfound/internal/common/enum"
	"lostfound/internal/handler/page"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/middleware"
	"lostfound/internal/pkg/validation"
	"lostfound/internal/service/form"
	"lostfound/internal/service/item"
	"lostfound/internal/service/item/model"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const recentLimit = 10

type Handler struct {
	items item.IService
	view  *page.Renderer
}

type IHandler interface {
	NewRoutes(web *gin.RouterGroup, api *gin.RouterGroup, auth jwt.IJWTAuth)

	IndexPage(c *gin.Context)
	AboutPage(c *gin.Context)
	DashboardPage(c *gin.Context)
	SearchPage(c *gin.Context)
	ItemsPage(c *gin.Context)
	ItemPage(c *gin.Context)
	ResolveSubmit(c *gin.Context)
	ReportPage(itemType enum.ItemTypeEnum) gin.HandlerFunc
	ReportSubmit(itemType enum.ItemTypeEnum) gin.HandlerFunc

	APIList(c *gin.Context)
	APIFeed(c *gin.Context)
	APIGet(c *gin.Context)
	APIReport(c *gin.Context)
	APIResolve(c *gin.Context)
}

func NewHandler(items item.IService, view *page.Renderer) IHandler {
	return &Handler{items: items, view: view}
}

type listView struct {
	page.Base
	Query    model.SearchQuery
	Searched bool
	Items    []model.Item
	Actions  []enum.DashboardActionEnum
}

type itemsView struct {
	page.Base
	Query      model.SearchQuery
	Items      []model.Item
	Pagination *database.PaginationResult
	PageQuery  template.URL
}

type itemView struct {
	page.Base
	Item       *model.Item
	CanResolve bool
}

type reportView struct {
	page.Base
	ItemType  enum.ItemTypeEnum
	Form      map[string]form.FieldState
	MaxPhotos int
}

func searchQuery(c *gin.Context) model.SearchQuery {
	var query model.SearchQuery
	_ = c.ShouldBindQuery(&query)
	return query
}

func (h *Handler) IndexPage(c *gin.Context) {
	items, err := h.items.Recent(recentLimit)
	if err != nil {
		logger.Error.Printf("recent items: %v", err)
	}
	h.view.HTML(c, http.StatusOK, "index.html", listView{
		Base:  h.view.Base(c, "Home"),
		Items: items,
	})
}

func (h *Handler) AboutPage(c *gin.Context) {
	h.view.HTML(c, http.StatusOK, "about.html", struct{ page.Base }{h.view.Base(c, "About")})
}

func (h *Handler) DashboardPage(c *gin.Context) {
	items, err := h.items.Recent(recentLimit)
	if err != nil {
		logger.Error.Printf("recent items: %v", err)
	}
	h.view.HTML(c, http.StatusOK, "dashboard.html", listView{
		Base:    h.view.Base(c, "Dashboard"),
		Items:   items,
		Actions: enum.DashboardActions(),
	})
}

// SearchPage renders results on the dashboard for signed-in users and on
// the landing page otherwise.
func (h *Handler) SearchPage(c *gin.Context) {
	query := searchQuery(c)
	items, err := h.items.Search(&query)
	if err != nil {
		logger.Error.Printf("search items: %v", err)
		h.view.Error(c, http.StatusInternalServerError, "Search failed. Please try again.")
		return
	}

	view := listView{Query: query, Searched: true, Items: items}
	if page.CurrentUser(c) != nil {
		view.Base = h.view.Base(c, "Dashboard")
		view.Actions = enum.DashboardActions()
		h.view.HTML(c, http.StatusOK, "dashboard.html", view)
		return
	}
	view.Base = h.view.Base(c, "Search")
	h.view.HTML(c, http.StatusOK, "index.html", view)
}

func (h *Handler) ItemsPage(c *gin.Context) {
	query := searchQuery(c)
	pagination := database.NewPaginationRequest(c)
	result, err := h.items.Page(pagination, &query)
	if err != nil {
		logger.Error.Printf("list items: %v", err)
		h.view.Error(c, http.StatusInternalServerError, "Could not load items.")
		return
	}

	var items []model.Item
	if data, ok := result.Data.(*[]model.Item); ok {
		items = *data
	}
	h.view.HTML(c, http.StatusOK, "items.html", itemsView{
		Base:       h.view.Base(c, "Items"),
		Query:      query,
		Items:      items,
		Pagination: result,
		PageQuery:  pageQuery(query, pagination.Limit),
	})
}

// pageQuery keeps the filters on pager links; the page number is appended
// by the template.
func pageQuery(query model.SearchQuery, limit int) template.URL {
	values := url.Values{}
	if query.Search != "" {
		values.Set("search", query.Search)
	}
	if query.Type != "" {
		values.Set("type", query.Type)
	}
	if query.Status != "" {
		values.Set("status", query.Status)
	}
	values.Set("limit", strconv.Itoa(limit))
	return template.URL(values.Encode() + "&")
}

func itemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) ItemPage(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		h.view.NotFound(c, item.ErrItemNotFound.Error())
		return
	}
	found, err := h.items.Get(id)
	if errors.Is(err, item.ErrItemNotFound) {
		h.view.NotFound(c, err.Error())
		return
	}
	if err != nil {
		logger.Error.Printf("get item %d: %v", id, err)
		h.view.Error(c, http.StatusInternalServerError, "Could not load the item.")
		return
	}

	user := page.CurrentUser(c)
	h.view.HTML(c, http.StatusOK, "item_details.html", itemView{
		Base:       h.view.Base(c, found.Title),
		Item:       found,
		CanResolve: user != nil && user.ID == found.UserID && found.Status == enum.ACTIVE,
	})
}

func (h *Handler) ResolveSubmit(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		h.view.NotFound(c, item.ErrItemNotFound.Error())
		return
	}
	target := fmt.Sprintf("/item/%d", id)
	user := page.CurrentUser(c)

	_, err := h.items.Resolve(c.Request.Context(), id, user.ID)
	switch {
	case errors.Is(err, item.ErrItemNotFound):
		h.view.NotFound(c, err.Error())
	case errors.Is(err, item.ErrNotOwner), errors.Is(err, item.ErrAlreadyResolved):
		page.Redirect(c, target, "error", err.Error())
	case err != nil:
		logger.Error.Printf("resolve item %d: %v", id, err)
		page.Redirect(c, target, "error", "Could not update the item. Please try again.")
	default:
		page.Redirect(c, target, "success", "Item marked as resolved.")
	}
}

func (h *Handler) renderReport(c *gin.Context, status int, itemType enum.ItemTypeEnum, f *form.Form, flash string) {
	base := h.view.Base(c, "Report "+itemType.Title()+" Item")
	if flash != "" {
		base.AddFlash("error", flash)
	}
	h.view.HTML(c, status, "report.html", reportView{
		Base:      base,
		ItemType:  itemType,
		Form:      f.States(),
		MaxPhotos: item.MaxPhotos,
	})
}

func (h *Handler) ReportPage(itemType enum.ItemTypeEnum) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.renderReport(c, http.StatusOK, itemType, form.New(form.ReportFields()...), "")
	}
}

// ReportSubmit validates the fields, buffers the photos and stores the
// report. Any failure re-renders the form with what was entered.
func (h *Handler) ReportSubmit(itemType enum.ItemTypeEnum) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := form.ReportFields()
		f := form.New(fields...)

		files, failure := middleware.ReadMultipartFiles(c, []middleware.FieldOpts{middleware.PhotoFieldOpts(0)})
		values := page.Values(c, fields)
		if err := f.Submit(values); err != nil {
			h.renderReport(c, http.StatusBadRequest, itemType, f, "")
			return
		}
		defer f.Done()
		if failure != nil {
			h.renderReport(c, failure.Code, itemType, f, failure.Message)
			return
		}

		user := page.CurrentUser(c)
		_, err := h.items.Report(c.Request.Context(), user.ID, &model.ReportInput{
			Title:        values["title"],
			Description:  values["description"],
			ContactPhone: values["contact_phone"],
			ItemType:     itemType,
		}, files[enum.PhotoField])
		if err != nil {
			status, message := reportFailure(err)
			if status == http.StatusInternalServerError {
				logger.Error.Printf("report %s item: %v", itemType, err)
			}
			h.renderReport(c, status, itemType, f, message)
			return
		}

		page.Redirect(c, "/dashboard", "success", itemType.Title()+" item reported successfully!")
	}
}

// reportFailure picks the status and user-facing message for a failed
// report.
func reportFailure(err error) (int, string) {
	switch {
	case errors.Is(err, validation.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, item.ErrInvalidPhoto), errors.Is(err, item.ErrTooManyPhotos):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, item.ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, item.ErrPhotoUpload):
		return http.StatusInternalServerError, item.ErrPhotoUpload.Error()
	}
	return http.StatusInternalServerError, "Error saving item report. Please try again."
}
