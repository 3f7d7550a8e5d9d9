package upload

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/common/enum"
	_type "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/middleware"
	"lostfound/internal/pkg/validation"
	"lostfound/internal/service/item"
	"lostfound/internal/service/item/model"
	"lostfound/internal/service/upload"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// MaxSelected bounds one selection; the report limit applies at submit.
const MaxSelected = 20

const msgNothingApproved = "Please approve at least one photo"

type Handler struct {
	registry *upload.Registry
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth jwt.IJWTAuth)
	Select(c *gin.Context)
	State(c *gin.Context)
	Approve(c *gin.Context)
	Reject(c *gin.Context)
	Submit(c *gin.Context)
	Reset(c *gin.Context)
}

func NewHandler(registry *upload.Registry) IHandler {
	return &Handler{registry: registry}
}

// ReportSender submits a workflow payload as an item report of the owner.
// The payload fields carry title, description, contact_phone and
// item_type.
func ReportSender(items item.IService, owner string) upload.Sender {
	return upload.SenderFunc(func(ctx context.Context, payload upload.Payload) (string, error) {
		userID, err := strconv.ParseUint(owner, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid owner %q: %w", owner, err)
		}
		itemType := enum.ItemTypeEnum(payload.Fields["item_type"])
		_, err = items.Report(ctx, uint(userID), &model.ReportInput{
			Title:        payload.Fields["title"],
			Description:  payload.Fields["description"],
			ContactPhone: payload.Fields["contact_phone"],
			ItemType:     itemType,
		}, payload.Files)
		if err != nil {
			return "", err
		}
		return itemType.Title() + " item reported successfully!", nil
	})
}

// NewReportRegistry keeps one workflow per signed-in user, each submitting
// through ReportSender.
func NewReportRegistry(items item.IService, idle time.Duration, opts ...upload.Option) *upload.Registry {
	return upload.NewRegistry(idle, func(owner string) *upload.Workflow {
		workflowOpts := make([]upload.Option, 0, len(opts)+1)
		workflowOpts = append(workflowOpts, opts...)
		workflowOpts = append(workflowOpts, upload.WithSender(ReportSender(items, owner)))
		return upload.NewWorkflow(workflowOpts...)
	})
}

type stateResponse struct {
	Files    []upload.PendingFile `json:"files"`
	Approved []string             `json:"approved"`
	Previews []upload.Preview     `json:"previews"`
	Skipped  []string             `json:"skipped,omitempty"`
}

func owner(c *gin.Context) (string, bool) {
	id, ok := jwt.UserID(middleware.Claims(c))
	if !ok {
		return "", false
	}
	return strconv.FormatUint(uint64(id), 10), true
}

func (h *Handler) workflow(c *gin.Context, send func(r *_type.Response)) (*upload.Workflow, bool) {
	key, ok := owner(c)
	if !ok {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusUnauthorized, Message: "invalid token"}))
		return nil, false
	}
	return h.registry.Get(key), true
}

func state(w *upload.Workflow) stateResponse {
	resp := stateResponse{Files: w.Pending(), Previews: w.Previews()}
	for _, f := range w.Approved() {
		resp.Approved = append(resp.Approved, f.ID)
	}
	return resp
}

// Select replaces the batch with the uploaded photos. Non-images are
// reported as skipped.
func (h *Handler) Select(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	w, ok := h.workflow(c, send)
	if !ok {
		return
	}

	files, failure := middleware.ReadMultipartFiles(c, []middleware.FieldOpts{{
		Name:    enum.PhotoField,
		Min:     1,
		Max:     MaxSelected,
		MaxSize: item.MaxPhotoSize,
	}})
	if failure != nil {
		send(helper.ParseResponse(failure))
		return
	}

	_, skipped, err := w.SelectFiles(files[enum.PhotoField])
	if err != nil {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusInternalServerError, Error: err}))
		return
	}
	if _type.StringToBool(c.Query("wait")).ToBool() {
		w.Wait()
	}

	resp := state(w)
	for _, f := range skipped {
		resp.Skipped = append(resp.Skipped, f.OriginalName)
	}
	send(helper.ParseResponse(&_type.Response{Code: http.StatusCreated, Data: resp}))
}

// State returns the batch; ?wait=true blocks until every preview is
// decoded.
func (h *Handler) State(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	w, ok := h.workflow(c, send)
	if !ok {
		return
	}
	if _type.StringToBool(c.Query("wait")).ToBool() {
		w.Wait()
	}
	send(helper.ParseResponse(&_type.Response{Data: state(w)}))
}

func (h *Handler) Approve(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	w, ok := h.workflow(c, send)
	if !ok {
		return
	}
	if err := w.Approve(c.Param("id")); err != nil {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusNotFound, Message: err.Error(), Error: err}))
		return
	}
	send(helper.ParseResponse(&_type.Response{Data: state(w)}))
}

func (h *Handler) Reject(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	w, ok := h.workflow(c, send)
	if !ok {
		return
	}
	if err := w.Reject(c.Param("id")); err != nil {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusNotFound, Message: err.Error(), Error: err}))
		return
	}
	send(helper.ParseResponse(&_type.Response{Data: state(w)}))
}

type submitRequest struct {
	Title        string `json:"title" form:"title"`
	Description  string `json:"description" form:"description"`
	ContactPhone string `json:"contact_phone" form:"contact_phone"`
	ItemType     string `json:"item_type" form:"item_type"`
}

// Submit sends the approved photos with the report fields.
func (h *Handler) Submit(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	w, ok := h.workflow(c, send)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBind(&req); err != nil {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusBadRequest, Message: err.Error(), Error: err}))
		return
	}

	ack, err := w.Submit(c.Request.Context(), map[string]string{
		"title":         req.Title,
		"description":   req.Description,
		"contact_phone": req.ContactPhone,
		"item_type":     req.ItemType,
	})
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, upload.ErrNothingApproved),
			errors.Is(err, validation.ErrValidation),
			errors.Is(err, item.ErrInvalidPhoto),
			errors.Is(err, item.ErrTooManyPhotos):
			code = http.StatusBadRequest
		case errors.Is(err, item.ErrPhotoTooLarge):
			code = http.StatusRequestEntityTooLarge
		}
		message := err.Error()
		switch {
		case code == http.StatusInternalServerError:
			message = ""
		case errors.Is(err, upload.ErrNothingApproved):
			message = msgNothingApproved
		}
		send(helper.ParseResponse(&_type.Response{Code: code, Message: message, Error: err}))
		return
	}
	send(helper.ParseResponse(&_type.Response{Code: http.StatusCreated, Message: ack}))
}

// Reset drops the batch.
func (h *Handler) Reset(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	key, ok := owner(c)
	if !ok {
		send(helper.ParseResponse(&_type.Response{Code: http.StatusUnauthorized, Message: "invalid token"}))
		return
	}
	h.registry.Drop(key)
	send(helper.ParseResponse(&_type.Response{Message: "Upload reset"}))
}
