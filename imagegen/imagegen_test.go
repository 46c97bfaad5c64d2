package imagegen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"digital-menu-api/llm"
	"digital-menu-api/storage"
)

type stubImages struct {
	genReq     llm.ImageRequest
	gens       int
	variations int
	ref        llm.ReferenceImage
	varErr     error
	genErr     error
}

func (s *stubImages) GenerateImage(_ context.Context, r llm.ImageRequest) ([]byte, error) {
	s.gens++
	s.genReq = r
	if s.genErr != nil {
		return nil, s.genErr
	}
	return []byte("png-from-text"), nil
}

func (s *stubImages) ImageVariation(_ context.Context, ref llm.ReferenceImage, _ llm.ImageRequest) ([]byte, error) {
	s.variations++
	s.ref = ref
	if s.varErr != nil {
		return nil, s.varErr
	}
	return []byte("png-from-reference"), nil
}

func newTestGenerator(t *testing.T, model ImageModel) (*Generator, *storage.Local) {
	t.Helper()
	store := storage.NewLocal(t.TempDir(), "http://cdn.test/media", nil, nil)
	g := NewGenerator(model, store, nil)
	g.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return g, store
}

func TestFullPrompt(t *testing.T) {
	if got := FullPrompt("  Carbonara ", "rustic"); got != "Carbonara. Style: rustic style, natural wood background, warm tones, homestyle presentation. High quality food photography for restaurant menu." {
		t.Errorf("got %q", got)
	}
	if got := FullPrompt("Carbonara", ""); got != "Carbonara. High quality food photography for restaurant menu." {
		t.Errorf("got %q", got)
	}
}

func TestGenerate_TextDefaults(t *testing.T) {
	model := &stubImages{}
	g, _ := newTestGenerator(t, model)

	res, err := g.Generate(context.Background(), Request{Prompt: "Carbonara", UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Style != "default" || res.ImageURL != "http://cdn.test/media/item-images/generated/u1/temp/1700000000123-ai.png" {
		t.Errorf("res = %+v", res)
	}
	if model.genReq.Size != "1024x1024" || model.genReq.Quality != "low" || model.genReq.Background != "auto" || model.genReq.User != "u1" {
		t.Errorf("image request = %+v", model.genReq)
	}
	if model.variations != 0 {
		t.Error("variation called without reference")
	}
}

func TestGenerate_ReferenceFallsBack(t *testing.T) {
	ref := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer ref.Close()

	model := &stubImages{varErr: errors.New("variations not supported")}
	g, _ := newTestGenerator(t, model)
	res, err := g.Generate(context.Background(), Request{Prompt: "Tiramisù", UserID: "u1", ItemID: "i9", ReferenceImageURL: ref.URL, Style: "modern"})
	if err != nil {
		t.Fatal(err)
	}
	if model.variations != 1 || model.gens != 1 {
		t.Errorf("variations = %d, gens = %d", model.variations, model.gens)
	}
	if model.ref.Filename != "reference.jpg" || string(model.ref.Data) != "jpeg-bytes" {
		t.Errorf("ref = %+v", model.ref)
	}
	if res.Style != "modern" {
		t.Errorf("style = %s", res.Style)
	}
}

func TestGenerate_ReferenceUsed(t *testing.T) {
	ref := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png"))
	}))
	defer ref.Close()

	model := &stubImages{}
	g, store := newTestGenerator(t, model)
	res, err := g.Generate(context.Background(), Request{Prompt: "Pizza", UserID: "u1", ItemID: "i1", ReferenceImageURL: ref.URL})
	if err != nil {
		t.Fatal(err)
	}
	if model.gens != 0 {
		t.Error("text generation used despite successful variation")
	}
	p, ok := store.PathFromURL(storage.BucketItemImages, res.ImageURL)
	if !ok || p != "generated/u1/i1/1700000000123-ai.png" {
		t.Errorf("path = %q, %v", p, ok)
	}
}

func TestGenerate_Errors(t *testing.T) {
	g, _ := newTestGenerator(t, &stubImages{genErr: errors.New("billing")})
	bad := []Request{
		{Prompt: " ", UserID: "u"},
		{Prompt: "x"},
		{Prompt: "x", UserID: "u", Style: "cubist"},
		{Prompt: "x", UserID: "u", Size: "10x10"},
		{Prompt: "x", UserID: "u", Quality: "ultra"},
		{Prompt: "x", UserID: "u", Background: "blue"},
		{Prompt: "x", UserID: "u", ItemID: "../other"},
		{Prompt: "x", UserID: "u", ItemID: "a/b"},
		{Prompt: "x", UserID: "..", ItemID: "i"},
	}
	for _, r := range bad {
		if _, err := g.Generate(context.Background(), r); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%+v: err = %v", r, err)
		}
	}
	if _, err := g.Generate(context.Background(), Request{Prompt: "x", UserID: "u"}); err == nil || errors.Is(err, ErrInvalidRequest) {
		t.Errorf("provider failure err = %v", err)
	}
}

func TestGenerate_InvalidItemIDSkipsModel(t *testing.T) {
	model := &stubImages{}
	g, _ := newTestGenerator(t, model)
	_, err := g.Generate(context.Background(), Request{Prompt: "Carbonara", UserID: "u1", ItemID: "../../etc"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if model.gens != 0 || model.variations != 0 {
		t.Errorf("model called %d/%d times", model.gens, model.variations)
	}
}
