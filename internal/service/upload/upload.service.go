package upload

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/common/enum"
	types "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/logger"
	"sync"
)

var (
	ErrNothingApproved = errors.New("no approved files to submit")
	ErrUnknownFile     = errors.New("file is not in the current batch")
	ErrNoSender        = errors.New("no sender configured")
)

// PendingFile is one selected file of the current batch.
type PendingFile struct {
	ID       string             `json:"id"`
	File     types.BufferedFile `json:"file"`
	Preview  *Preview           `json:"preview,omitempty"`
	Approved bool               `json:"approved"`
}

// Payload is what Submit hands to the sender: the form fields plus the
// approved files in approval order.
type Payload struct {
	Fields map[string]string
	Files  []types.BufferedFile
}

type Workflow struct {
	mu         sync.Mutex
	decoder    Decoder
	sender     Sender
	onPreview  func(Preview)
	generation uint64
	files      []*PendingFile
	byID       map[string]*PendingFile
	approved   []string
	decoding   *sync.WaitGroup
}

type Option func(*Workflow)

func WithDecoder(d Decoder) Option {
	return func(w *Workflow) { w.decoder = d }
}

func WithSender(s Sender) Option {
	return func(w *Workflow) { w.sender = s }
}

// OnPreview registers a callback fired for each preview that lands in the
// current batch. Calls may arrive in any order and from any goroutine.
func OnPreview(fn func(Preview)) Option {
	return func(w *Workflow) { w.onPreview = fn }
}

func NewWorkflow(opts ...Option) *Workflow {
	w := &Workflow{
		decoder: NewThumbnailDecoder(DefaultThumbnailSize),
		byID:    make(map[string]*PendingFile),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SelectFiles replaces the batch. Approvals and previews of the previous
// batch are dropped, and decodes still running for it become no-ops. Files
// that are not images are left out and returned.
func (w *Workflow) SelectFiles(files []types.BufferedFile) ([]PendingFile, []types.BufferedFile, error) {
	w.mu.Lock()
	w.generation++
	gen := w.generation
	w.files = nil
	w.byID = make(map[string]*PendingFile, len(files))
	w.approved = nil

	var skipped []types.BufferedFile
	var started []*PendingFile
	for _, f := range files {
		if !enum.IMAGE.IsValidImage(&f) {
			logger.Warning.Printf("skipping %s: %q is not an image", f.OriginalName, f.MimeType)
			skipped = append(skipped, f)
			continue
		}
		id, err := helper.GenerateID()
		if err != nil {
			w.mu.Unlock()
			return nil, nil, fmt.Errorf("generate file id: %w", err)
		}
		pf := &PendingFile{ID: id, File: f}
		w.files = append(w.files, pf)
		w.byID[id] = pf
		started = append(started, pf)
	}
	accepted := w.snapshot(w.files)
	batch := new(sync.WaitGroup)
	batch.Add(len(started))
	w.decoding = batch
	w.mu.Unlock()

	for _, pf := range started {
		go w.decode(batch, gen, pf.ID, pf.File)
	}
	return accepted, skipped, nil
}

func (w *Workflow) decode(batch *sync.WaitGroup, gen uint64, id string, file types.BufferedFile) {
	defer batch.Done()

	preview, err := w.decoder.Decode(&file)
	preview.FileID = id
	if err != nil {
		logger.Warning.Printf("preview %s: %v", file.OriginalName, err)
		preview.Failed = true
	}

	w.mu.Lock()
	pf, ok := w.byID[id]
	if gen != w.generation || !ok {
		w.mu.Unlock()
		return
	}
	preview.Approved = pf.Approved
	pf.Preview = &preview
	callback := w.onPreview
	w.mu.Unlock()

	if callback != nil {
		callback(preview)
	}
}

// Approve adds id to the approved set. Approving twice keeps one entry.
func (w *Workflow) Approve(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	pf, ok := w.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, id)
	}
	if pf.Approved {
		return nil
	}
	pf.Approved = true
	if pf.Preview != nil {
		pf.Preview.Approved = true
	}
	w.approved = append(w.approved, id)
	return nil
}

// Reject removes the file and its preview from the batch and from the
// approved set.
func (w *Workflow) Reject(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, id)
	}
	delete(w.byID, id)
	w.files = removeFile(w.files, id)
	w.approved = removeID(w.approved, id)
	return nil
}

// Submit sends the fields and the approved files through the sender once.
// The batch is left as it is whatever the outcome.
func (w *Workflow) Submit(ctx context.Context, fields map[string]string) (string, error) {
	w.mu.Lock()
	if len(w.approved) == 0 {
		w.mu.Unlock()
		return "", ErrNothingApproved
	}
	sender := w.sender
	payload := Payload{Fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		payload.Fields[k] = v
	}
	for _, id := range w.approved {
		payload.Files = append(payload.Files, w.byID[id].File)
	}
	w.mu.Unlock()

	if sender == nil {
		return "", ErrNoSender
	}
	ack, err := sender.Send(ctx, payload)
	if err != nil {
		logger.Error.Printf("submit %d approved files: %v", len(payload.Files), err)
		return "", err
	}
	return ack, nil
}

// Reset empties the batch.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.files = nil
	w.byID = make(map[string]*PendingFile)
	w.approved = nil
	w.decoding = nil
}

// Wait blocks until every decode of the current batch has finished.
// Decodes of replaced batches are not waited for; their results are dropped.
func (w *Workflow) Wait() {
	w.mu.Lock()
	batch := w.decoding
	w.mu.Unlock()
	if batch != nil {
		batch.Wait()
	}
}

func (w *Workflow) Pending() []PendingFile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot(w.files)
}

// Approved returns the approved files in approval order.
func (w *Workflow) Approved() []PendingFile {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]*PendingFile, 0, len(w.approved))
	for _, id := range w.approved {
		files = append(files, w.byID[id])
	}
	return w.snapshot(files)
}

// Previews returns the previews decoded so far, in batch order.
func (w *Workflow) Previews() []Preview {
	w.mu.Lock()
	defer w.mu.Unlock()
	var previews []Preview
	for _, pf := range w.files {
		if pf.Preview != nil {
			previews = append(previews, *pf.Preview)
		}
	}
	return previews
}

func (w *Workflow) snapshot(files []*PendingFile) []PendingFile {
	out := make([]PendingFile, 0, len(files))
	for _, pf := range files {
		cp := *pf
		if pf.Preview != nil {
			preview := *pf.Preview
			cp.Preview = &preview
		}
		out = append(out, cp)
	}
	return out
}

func removeFile(files []*PendingFile, id string) []*PendingFile {
	out := files[:0]
	for _, pf := range files {
		if pf.ID != id {
			out = append(out, pf)
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
