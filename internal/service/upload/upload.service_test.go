package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	types "lostfound/internal/common/type"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFile(t *testing.T, name string, w, h int) types.BufferedFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return types.BufferedFile{OriginalName: name, MimeType: "image/png", Size: buf.Len(), Buffer: buf.Bytes()}
}

func textFile(name string) types.BufferedFile {
	body := []byte("not a picture")
	return types.BufferedFile{OriginalName: name, MimeType: "text/plain", Size: len(body), Buffer: body}
}

type recordingSender struct {
	mu       sync.Mutex
	calls    int
	payloads []Payload
	err      error
}

func (s *recordingSender) Send(_ context.Context, p Payload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.payloads = append(s.payloads, p)
	if s.err != nil {
		return "", s.err
	}
	return "ok", nil
}

func TestSelectFiles_SkipsNonImages(t *testing.T) {
	var decoded atomic.Int32
	wf := NewWorkflow(WithDecoder(DecoderFunc(func(f *types.BufferedFile) (Preview, error) {
		decoded.Add(1)
		return Preview{Name: f.OriginalName}, nil
	})))

	accepted, skipped, err := wf.SelectFiles([]types.BufferedFile{
		pngFile(t, "wallet.png", 4, 4),
		textFile("notes.txt"),
	})
	require.NoError(t, err)
	wf.Wait()

	require.Len(t, accepted, 1)
	assert.Equal(t, "wallet.png", accepted[0].File.OriginalName)
	require.Len(t, skipped, 1)
	assert.Equal(t, "notes.txt", skipped[0].OriginalName)
	assert.EqualValues(t, 1, decoded.Load())
	assert.Len(t, wf.Previews(), 1)
}

func TestApprove_Idempotent(t *testing.T) {
	wf := NewWorkflow()
	accepted, _, err := wf.SelectFiles([]types.BufferedFile{pngFile(t, "a.png", 8, 8)})
	require.NoError(t, err)
	wf.Wait()

	id := accepted[0].ID
	require.NoError(t, wf.Approve(id))
	require.NoError(t, wf.Approve(id))

	approved := wf.Approved()
	require.Len(t, approved, 1)
	assert.Equal(t, id, approved[0].ID)

	previews := wf.Previews()
	require.Len(t, previews, 1)
	assert.True(t, previews[0].Approved)
}

func TestApprove_UnknownFile(t *testing.T) {
	wf := NewWorkflow()
	assert.ErrorIs(t, wf.Approve("missing"), ErrUnknownFile)
	assert.ErrorIs(t, wf.Reject("missing"), ErrUnknownFile)
}

func TestReject_RemovesPreviewAndApproval(t *testing.T) {
	wf := NewWorkflow()
	accepted, _, err := wf.SelectFiles([]types.BufferedFile{
		pngFile(t, "a.png", 8, 8),
		pngFile(t, "b.png", 8, 8),
	})
	require.NoError(t, err)
	wf.Wait()

	a, b := accepted[0].ID, accepted[1].ID
	require.NoError(t, wf.Approve(a))
	require.NoError(t, wf.Approve(b))
	require.NoError(t, wf.Reject(a))

	for _, p := range wf.Previews() {
		assert.NotEqual(t, a, p.FileID)
	}
	approved := wf.Approved()
	require.Len(t, approved, 1)
	assert.Equal(t, b, approved[0].ID)
	assert.Len(t, wf.Pending(), 1)
}

func TestSubmit_NothingApprovedNeverSends(t *testing.T) {
	sender := &recordingSender{}
	wf := NewWorkflow(WithSender(sender))
	_, _, err := wf.SelectFiles([]types.BufferedFile{pngFile(t, "a.png", 8, 8)})
	require.NoError(t, err)
	wf.Wait()

	_, err = wf.Submit(context.Background(), map[string]string{"title": "Wallet"})
	assert.ErrorIs(t, err, ErrNothingApproved)
	assert.Zero(t, sender.calls)
}

func TestSubmit_SendsOnlyApprovedInOrder(t *testing.T) {
	sender := &recordingSender{}
	wf := NewWorkflow(WithSender(sender))
	accepted, _, err := wf.SelectFiles([]types.BufferedFile{
		pngFile(t, "a.png", 8, 8),
		pngFile(t, "b.png", 8, 8),
		pngFile(t, "c.png", 8, 8),
	})
	require.NoError(t, err)
	wf.Wait()

	require.NoError(t, wf.Approve(accepted[2].ID))
	require.NoError(t, wf.Approve(accepted[0].ID))

	ack, err := wf.Submit(context.Background(), map[string]string{"title": "Keys"})
	require.NoError(t, err)
	assert.Equal(t, "ok", ack)

	require.Equal(t, 1, sender.calls)
	payload := sender.payloads[0]
	assert.Equal(t, "Keys", payload.Fields["title"])
	require.Len(t, payload.Files, 2)
	assert.Equal(t, "c.png", payload.Files[0].OriginalName)
	assert.Equal(t, "a.png", payload.Files[1].OriginalName)
}

func TestSubmit_FailureKeepsState(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	wf := NewWorkflow(WithSender(sender))
	accepted, _, err := wf.SelectFiles([]types.BufferedFile{pngFile(t, "a.png", 8, 8)})
	require.NoError(t, err)
	wf.Wait()
	require.NoError(t, wf.Approve(accepted[0].ID))

	_, err = wf.Submit(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 1, sender.calls)
	assert.Len(t, wf.Approved(), 1)
}

func TestSelectFiles_ClearsApprovals(t *testing.T) {
	wf := NewWorkflow()
	first, _, err := wf.SelectFiles([]types.BufferedFile{pngFile(t, "a.png", 8, 8)})
	require.NoError(t, err)
	require.NoError(t, wf.Approve(first[0].ID))

	_, _, err = wf.SelectFiles([]types.BufferedFile{pngFile(t, "b.png", 8, 8)})
	require.NoError(t, err)
	wf.Wait()

	assert.Empty(t, wf.Approved())
	assert.ErrorIs(t, wf.Approve(first[0].ID), ErrUnknownFile)
}

func TestStaleDecodeIsDropped(t *testing.T) {
	release := make(chan struct{})
	var previews []string
	var mu sync.Mutex

	wf := NewWorkflow(
		WithDecoder(DecoderFunc(func(f *types.BufferedFile) (Preview, error) {
			if f.OriginalName == "slow.png" {
				<-release
			}
			return Preview{Name: f.OriginalName}, nil
		})),
		OnPreview(func(p Preview) {
			mu.Lock()
			previews = append(previews, p.Name)
			mu.Unlock()
		}),
	)

	_, _, err := wf.SelectFiles([]types.BufferedFile{pngFile(t, "slow.png", 4, 4)})
	require.NoError(t, err)
	_, _, err = wf.SelectFiles([]types.BufferedFile{pngFile(t, "fresh.png", 4, 4)})
	require.NoError(t, err)

	close(release)
	wf.Wait()

	current := wf.Previews()
	require.Len(t, current, 1)
	assert.Equal(t, "fresh.png", current[0].Name)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"fresh.png"}, previews)
}

func TestDecodeFailureStaysApprovable(t *testing.T) {
	wf := NewWorkflow()
	broken := types.BufferedFile{OriginalName: "broken.jpg", MimeType: "image/jpeg", Buffer: []byte("garbage")}
	accepted, _, err := wf.SelectFiles([]types.BufferedFile{broken})
	require.NoError(t, err)
	wf.Wait()

	previews := wf.Previews()
	require.Len(t, previews, 1)
	assert.True(t, previews[0].Failed)
	assert.Empty(t, previews[0].DataURL)
	assert.NoError(t, wf.Approve(accepted[0].ID))
}

func TestSelectWhileWaiting(t *testing.T) {
	wf := NewWorkflow(WithDecoder(DecoderFunc(func(f *types.BufferedFile) (Preview, error) {
		return Preview{Name: f.OriginalName}, nil
	})))
	file := pngFile(t, "a.png", 2, 2)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, err := wf.SelectFiles([]types.BufferedFile{file})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			wf.Wait()
		}()
	}
	wg.Wait()

	wf.Wait()
	assert.Len(t, wf.Previews(), 1)
}

func TestWaitAfterReset(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	wf := NewWorkflow(WithDecoder(DecoderFunc(func(f *types.BufferedFile) (Preview, error) {
		<-release
		return Preview{Name: f.OriginalName}, nil
	})))

	_, _, err := wf.SelectFiles([]types.BufferedFile{pngFile(t, "slow.png", 2, 2)})
	require.NoError(t, err)
	wf.Reset()

	done := make(chan struct{})
	go func() {
		wf.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked on a batch that was reset")
	}
	assert.Empty(t, wf.Previews())
}

func TestThumbnailDecoder_Scales(t *testing.T) {
	d := NewThumbnailDecoder(240)
	file := pngFile(t, "wide.png", 480, 240)

	preview, err := d.Decode(&file)
	require.NoError(t, err)
	assert.Equal(t, 240, preview.Width)
	assert.Equal(t, 120, preview.Height)
	assert.True(t, strings.HasPrefix(preview.DataURL, "data:image/png;base64,"))

	small := pngFile(t, "small.png", 10, 20)
	preview, err = d.Decode(&small)
	require.NoError(t, err)
	assert.Equal(t, 10, preview.Width)
	assert.Equal(t, 20, preview.Height)
}

func TestHTTPSender_PostsMultipart(t *testing.T) {
	var gotTitle string
	var gotFiles []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotTitle = r.FormValue("title")
		for _, fh := range r.MultipartForm.File["photos"] {
			f, err := fh.Open()
			require.NoError(t, err)
			_, _ = io.ReadAll(f)
			_ = f.Close()
			gotFiles = append(gotFiles, fh.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Lost item reported successfully!"}`))
	}))
	defer server.Close()

	sender := &HTTPSender{URL: server.URL}
	ack, err := sender.Send(context.Background(), Payload{
		Fields: map[string]string{"title": "Umbrella"},
		Files:  []types.BufferedFile{pngFile(t, "one.png", 2, 2), pngFile(t, "two.png", 2, 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lost item reported successfully!", ack)
	assert.Equal(t, "Umbrella", gotTitle)
	assert.Equal(t, []string{"one.png", "two.png"}, gotFiles)
}

func TestHTTPSender_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad photo"))
	}))
	defer server.Close()

	sender := &HTTPSender{URL: server.URL}
	_, err := sender.Send(context.Background(), Payload{Files: []types.BufferedFile{pngFile(t, "x.png", 2, 2)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad photo")
}

func TestHTTPSender_BinaryBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("stored"))
	}))
	defer server.Close()

	sender := &HTTPSender{URL: server.URL}
	ack, err := sender.Send(context.Background(), Payload{Files: []types.BufferedFile{pngFile(t, "x.png", 2, 2)}})
	require.NoError(t, err)
	assert.Equal(t, "stored", ack)
}

func TestRegistry_SweepIdle(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	reg := NewRegistry(10*time.Minute, nil)
	reg.now = func() time.Time { return now }

	first := reg.Get("1")
	assert.Same(t, first, reg.Get("1"))
	reg.Get("2")

	now = now.Add(5 * time.Minute)
	reg.Get("2")

	now = now.Add(6 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
	assert.NotSame(t, first, reg.Get("1"))
}
