// Package imagegen produces menu item pictures with the image model and
// stores them in the item image bucket.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"digital-menu-api/llm"
	"digital-menu-api/storage"

	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid image request")

const promptSuffix = ". High quality food photography for restaurant menu."

// maxReferenceBytes caps the downloaded reference picture.
const maxReferenceBytes = 20 << 20

var styleModifiers = map[string]string{
	"professional": "professional food photography, high-end restaurant quality, perfect lighting, clean background",
	"artistic":     "artistic food photography, creative composition, dramatic lighting, artistic style",
	"top_view":     "top-down view, flat lay photography, overhead shot, perfectly centered",
	"close_up":     "close-up macro photography, detailed texture, shallow depth of field",
	"rustic":       "rustic style, natural wood background, warm tones, homestyle presentation",
	"modern":       "modern minimalist style, clean lines, contemporary plating, elegant presentation",
}

var (
	sizes       = []string{"1024x1024", "1536x1024", "1024x1536", "auto"}
	qualities   = []string{"high", "medium", "low", "auto"}
	backgrounds = []string{"transparent", "opaque", "auto"}
)

// Styles lists the accepted style names.
func Styles() []string {
	return []string{"professional", "artistic", "top_view", "close_up", "rustic", "modern"}
}

type Request struct {
	Prompt            string `json:"prompt"`
	ReferenceImageURL string `json:"referenceImageUrl"`
	Style             string `json:"style"`
	UserID            string `json:"userId"`
	ItemID            string `json:"itemId"`
	Size              string `json:"size"`
	Quality           string `json:"quality"`
	Background        string `json:"background"`
}

type Result struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
	Style    string `json:"style"`
}

type ImageModel interface {
	GenerateImage(ctx context.Context, r llm.ImageRequest) ([]byte, error)
	ImageVariation(ctx context.Context, ref llm.ReferenceImage, r llm.ImageRequest) ([]byte, error)
}

type Uploader interface {
	Upload(ctx context.Context, bucket, objectPath string, data []byte) (storage.Object, error)
}

type Generator struct {
	model    ImageModel
	uploader Uploader
	http     *http.Client
	now      func() time.Time
	log      *zap.Logger
}

func NewGenerator(model ImageModel, uploader Uploader, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		model:    model,
		uploader: uploader,
		http:     &http.Client{Timeout: 30 * time.Second},
		now:      time.Now,
		log:      log,
	}
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// normalize applies defaults and rejects unknown options.
func normalize(r *Request) error {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt is missing", ErrInvalidRequest)
	}
	if r.UserID == "" {
		return fmt.Errorf("%w: userId is missing", ErrInvalidRequest)
	}
	if !pathSegment(r.UserID) {
		return fmt.Errorf("%w: invalid userId %q", ErrInvalidRequest, r.UserID)
	}
	if r.ItemID != "" && !pathSegment(r.ItemID) {
		return fmt.Errorf("%w: invalid itemId %q", ErrInvalidRequest, r.ItemID)
	}
	if r.Style != "" {
		if _, ok := styleModifiers[r.Style]; !ok {
			return fmt.Errorf("%w: unknown style %q", ErrInvalidRequest, r.Style)
		}
	}
	if r.Size == "" {
		r.Size = "1024x1024"
	}
	if r.Quality == "" {
		r.Quality = "low"
	}
	if r.Background == "" {
		r.Background = "auto"
	}
	switch {
	case !oneOf(r.Size, sizes):
		return fmt.Errorf("%w: unknown size %q", ErrInvalidRequest, r.Size)
	case !oneOf(r.Quality, qualities):
		return fmt.Errorf("%w: unknown quality %q", ErrInvalidRequest, r.Quality)
	case !oneOf(r.Background, backgrounds):
		return fmt.Errorf("%w: unknown background %q", ErrInvalidRequest, r.Background)
	}
	return nil
}

// pathSegment reports whether s can be used as one directory of an object path.
func pathSegment(s string) bool {
	return s != "." && !strings.Contains(s, "..") && !strings.ContainsAny(s, `/\`)
}

// FullPrompt appends the style modifier and the photography suffix.
func FullPrompt(prompt, style string) string {
	full := strings.TrimSpace(prompt)
	if mod, ok := styleModifiers[style]; ok {
		full += ". Style: " + mod
	}
	return full + promptSuffix
}

// ObjectPath is where a generated picture is stored in the item bucket.
func ObjectPath(userID, itemID string, at time.Time) string {
	if itemID == "" {
		itemID = "temp"
	}
	return fmt.Sprintf("generated/%s/%s/%d-ai.png", userID, itemID, at.UnixMilli())
}

// Generate renders the picture and uploads it. With a reference image the
// variations API is tried first and text generation is the fallback.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := normalize(&req); err != nil {
		return nil, err
	}
	full := FullPrompt(req.Prompt, req.Style)
	imgReq := llm.ImageRequest{Prompt: full, Size: req.Size, Quality: req.Quality, Background: req.Background, User: req.UserID}

	var (
		img []byte
		err error
	)
	if req.ReferenceImageURL != "" {
		img, err = g.fromReference(ctx, req.ReferenceImageURL, imgReq)
		if err != nil {
			g.log.Warn("image variation failed, falling back to text generation",
				zap.String("reference", req.ReferenceImageURL), zap.Error(err))
		}
	}
	if img == nil {
		img, err = g.model.GenerateImage(ctx, imgReq)
		if err != nil {
			return nil, fmt.Errorf("generating image: %w", err)
		}
	}

	obj, err := g.uploader.Upload(ctx, storage.BucketItemImages, ObjectPath(req.UserID, req.ItemID, g.now()), img)
	if err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}
	style := req.Style
	if style == "" {
		style = "default"
	}
	return &Result{ImageURL: obj.PublicURL, Prompt: full, Style: style}, nil
}

func (g *Generator) fromReference(ctx context.Context, url string, r llm.ImageRequest) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("downloading reference image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading reference image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReferenceBytes))
	if err != nil {
		return nil, fmt.Errorf("downloading reference image: %w", err)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}
	ext := "png"
	if strings.Contains(mime, "jpeg") || strings.Contains(mime, "jpg") {
		ext = "jpg"
	}
	return g.model.ImageVariation(ctx, llm.ReferenceImage{Data: data, ContentType: mime, Filename: "reference." + ext}, r)
}
