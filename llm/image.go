package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// ImageRequest holds generation parameters. Empty fields use the provider defaults.
type ImageRequest struct {
	Prompt     string
	Size       string
	Quality    string
	Background string
	User       string
}

// ReferenceImage is the source picture of a variation call.
type ReferenceImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

func decodeImage(body []byte) ([]byte, error) {
	var resp struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyResponse
	}
	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// GenerateImage renders a PNG from a text prompt.
func (c *Client) GenerateImage(ctx context.Context, r ImageRequest) (img []byte, err error) {
	done := c.track("image_generation")
	defer func() { done(err) }()

	payload := map[string]interface{}{
		"model":         c.cfg.ImageModel,
		"prompt":        r.Prompt,
		"n":             1,
		"output_format": "png",
	}
	for k, v := range map[string]string{"size": r.Size, "quality": r.Quality, "background": r.Background, "user": r.User} {
		if v != "" {
			payload[k] = v
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	respBody, err := c.do(ctx, "/images/generations", "application/json", body)
	if err != nil {
		return nil, err
	}
	return decodeImage(respBody)
}

// ImageVariation asks for a picture similar to ref. The variations API takes
// no prompt.
func (c *Client) ImageVariation(ctx context.Context, ref ReferenceImage, r ImageRequest) (img []byte, err error) {
	done := c.track("image_variation")
	defer func() { done(err) }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{"model": c.cfg.ImageModel, "n": "1", "size": r.Size, "user": r.User}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("building form: %w", err)
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, ref.Filename))
	h.Set("Content-Type", ref.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if _, err := part.Write(ref.Data); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}

	respBody, err := c.do(ctx, "/images/variations", w.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return decodeImage(respBody)
}
