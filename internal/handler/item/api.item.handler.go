package item

import (
	"errors"
	"lostfound/internal/common/enum"
	_type "lostfound/internal/common/type"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/middleware"
	"lostfound/internal/pkg/validation"
	"lostfound/internal/service/item"
	"lostfound/internal/service/item/model"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, validation.ErrValidation),
		errors.Is(err, item.ErrInvalidPhoto),
		errors.Is(err, item.ErrTooManyPhotos),
		errors.Is(err, item.ErrAlreadyResolved):
		return http.StatusBadRequest
	case errors.Is(err, item.ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, item.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, item.ErrItemNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func fail(send func(r *_type.Response), err error) {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = ""
	}
	send(helper.ParseResponse(&_type.Response{Code: code, Message: message, Error: err}))
}

// APIList returns one offset page of items, newest first.
func (h *Handler) APIList(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	query := searchQuery(c)
	result, err := h.items.Page(database.NewPaginationRequest(c), &query)
	if err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{Data: result}))
}

// APIFeed pages with an opaque cursor: ?cursor=<nextCursor>&limit=n.
func (h *Handler) APIFeed(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	limit, _ := strconv.Atoi(c.Query("limit"))
	query := searchQuery(c)
	result, err := h.items.Feed(c.Query("cursor"), limit, &query)
	if err != nil {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusBadRequest, Message: err.Error(), Error: err}))
		return
	}
	send(helper.ParseResponse(&_type.Response{Data: result}))
}

func (h *Handler) APIGet(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	id, ok := itemID(c)
	if !ok {
		fail(send, item.ErrItemNotFound)
		return
	}
	found, err := h.items.Get(id)
	if err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{Data: found}))
}

// APIReport takes the report fields as form values (multipart with photos)
// or as JSON without photos. The item type comes from the path.
func (h *Handler) APIReport(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	itemType := enum.ItemTypeEnum(c.Param("type"))
	if !itemType.IsValid() {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusNotFound, Message: "Unknown item type"}))
		return
	}

	var input model.ReportInput
	if err := c.ShouldBind(&input); err != nil {
		fail(send, errors.Join(validation.ErrValidation, err))
		return
	}
	input.ItemType = itemType

	id, _ := jwt.UserID(middleware.Claims(c))
	created, err := h.items.Report(c.Request.Context(), id, &input, middleware.GetBufferedFiles(c, enum.PhotoField))
	if err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{
		Code:    http.StatusCreated,
		Message: itemType.Title() + " item reported successfully",
		Data:    created,
	}))
}

func (h *Handler) APIResolve(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))

	id, ok := itemID(c)
	if !ok {
		fail(send, item.ErrItemNotFound)
		return
	}
	userID, _ := jwt.UserID(middleware.Claims(c))
	resolved, err := h.items.Resolve(c.Request.Context(), id, userID)
	if err != nil {
		fail(send, err)
		return
	}
	send(helper.ParseResponse(&_type.Response{Message: "Item marked as resolved", Data: resolved}))
}
