package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/raheem101000-netizen/gamehub/storage"
)

type fakeUploader struct {
	uploaded []string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.ReadAll(reader); err != nil {
		return nil, err
	}
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (f *fakeUploader) Delete(context.Context, string) error { return nil }

func (f *fakeUploader) PublicURL(key string) string { return "https://cdn.example.com/" + key }

func multipartImage(t *testing.T, field, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

func TestChatImageHandler(t *testing.T) {
	uploader := &fakeUploader{}
	h := NewUploadHandler(uploader)

	body, contentType := multipartImage(t, "image", "screenshot.png", "image/png")
	req := httptest.NewRequest(http.MethodPost, "/uploads/chat-image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ChatImageHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		URL string `json:"url"`
		Key string `json:"key"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.Key, "chat-images/") || !strings.HasSuffix(resp.Key, ".png") {
		t.Errorf("key = %q, want chat-images/<id>.png", resp.Key)
	}
	if resp.URL == "" {
		t.Error("response has no url")
	}
	if len(uploader.uploaded) != 1 {
		t.Errorf("uploaded %d objects, want 1", len(uploader.uploaded))
	}
}

func TestChatImageHandler_Rejections(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{})

	t.Run("unsupported type", func(t *testing.T) {
		body, contentType := multipartImage(t, "image", "notes.txt", "text/plain")
		req := httptest.NewRequest(http.MethodPost, "/uploads/chat-image", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ChatImageHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("wrong field name", func(t *testing.T) {
		body, contentType := multipartImage(t, "file", "screenshot.png", "image/png")
		req := httptest.NewRequest(http.MethodPost, "/uploads/chat-image", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ChatImageHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("uploads not configured", func(t *testing.T) {
		unconfigured := NewUploadHandler(nil)
		body, contentType := multipartImage(t, "image", "screenshot.png", "image/png")
		req := httptest.NewRequest(http.MethodPost, "/uploads/chat-image", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		unconfigured.ChatImageHandler(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}
