package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatServer(t *testing.T, status int, content string, inspect func(map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("authorization = %q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if inspect != nil {
			inspect(body)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error":{"message":"quota exceeded"}}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
}

func TestChat_Success(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "  Hello  \n", func(body map[string]any) {
		if body["model"] != "gpt-4o-mini" {
			t.Errorf("model = %v", body["model"])
		}
		if body["temperature"] != 0.2 {
			t.Errorf("temperature = %v", body["temperature"])
		}
		if _, ok := body["response_format"]; ok {
			t.Error("unexpected response_format")
		}
		msgs := body["messages"].([]any)
		if len(msgs) != 2 || msgs[0].(map[string]any)["role"] != "system" {
			t.Errorf("messages = %v", msgs)
		}
	})
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL + "/"}, WithHTTPClient(srv.Client()))
	got, err := c.Chat(context.Background(), ChatRequest{System: "s", User: "u", Temperature: 0.2})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "Hello" {
		t.Errorf("got %q, want Hello", got)
	}
}

func TestChat_JSONMode(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"a":1}`, func(body map[string]any) {
		rf, ok := body["response_format"].(map[string]any)
		if !ok || rf["type"] != "json_object" {
			t.Errorf("response_format = %v", body["response_format"])
		}
	})
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	if _, err := c.Chat(context.Background(), ChatRequest{JSON: true}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
}

func TestChat_EmptyOutput(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "   ", nil)
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	_, err := c.Chat(context.Background(), ChatRequest{})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestChat_APIError(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, "", nil)
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	_, err := c.Chat(context.Background(), ChatRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Message != "quota exceeded" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestChat_NotConfigured(t *testing.T) {
	c := New(Config{})
	if _, err := c.Chat(context.Background(), ChatRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}

type recordingTracker struct{ ops []string }

func (r *recordingTracker) TrackLLMCall(op string) func(error) {
	return func(error) { r.ops = append(r.ops, op) }
}

func TestGenerateImage(t *testing.T) {
	png := []byte("\x89PNG fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != "gpt-image-1" || body["size"] != "1024x1024" || body["output_format"] != "png" {
			t.Errorf("body = %v", body)
		}
		if _, ok := body["background"]; ok {
			t.Error("empty background should be omitted")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]any{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	}))
	defer srv.Close()

	tr := &recordingTracker{}
	c := New(Config{APIKey: "key", BaseURL: srv.URL}, WithTracker(tr))
	img, err := c.GenerateImage(context.Background(), ImageRequest{Prompt: "pizza", Size: "1024x1024"})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img) != string(png) {
		t.Errorf("image = %q", img)
	}
	if len(tr.ops) != 1 || tr.ops[0] != "image_generation" {
		t.Errorf("tracked = %v", tr.ops)
	}
}

func TestImageVariation_SendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("content type = %s", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.FormValue("model") != "gpt-image-1" || r.FormValue("user") != "u1" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("image part: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "reference.jpg" {
			t.Errorf("filename = %s", hdr.Filename)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{map[string]any{"b64_json": "aGk="}}})
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	img, err := c.ImageVariation(context.Background(),
		ReferenceImage{Data: []byte("jpeg"), ContentType: "image/jpeg", Filename: "reference.jpg"},
		ImageRequest{User: "u1"})
	if err != nil {
		t.Fatalf("ImageVariation: %v", err)
	}
	if string(img) != "hi" {
		t.Errorf("image = %q", img)
	}
}
