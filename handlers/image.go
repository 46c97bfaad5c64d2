package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"digital-menu-api/imagegen"
	"digital-menu-api/logger"
	"digital-menu-api/middleware"
	"digital-menu-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// GenerateImage renders an item picture with the image model. The caller may
// only generate into their own folder.
func (h *Handler) GenerateImage(c *gin.Context) {
	var req imagegen.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.UserID != "" && req.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "userId does not match the authenticated user"})
		return
	}
	res, err := h.Images.Generate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, imagegen.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		logger.FromGin(c).Error("image generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate image"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// readImage reads the multipart "file" field and returns its bytes and extension.
func readImage(c *gin.Context) ([]byte, string, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return nil, "", false
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return nil, "", false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return nil, "", false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || len(data) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return nil, "", false
	}
	ext, ok := imageExtensions[http.DetectContentType(data)]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a jpeg, png, webp or gif image"})
		return nil, "", false
	}
	return data, ext, true
}

func (h *Handler) storeImage(c *gin.Context, bucket, entityID string, data []byte, ext string) (storage.Object, bool) {
	objectPath := fmt.Sprintf("%s/%s/%d.%s", middleware.GetUserID(c), entityID, time.Now().UnixMilli(), ext)
	obj, err := h.Storage.Upload(c.Request.Context(), bucket, objectPath, data)
	if err != nil {
		_ = c.Error(err)
		logger.FromGin(c).Error("image upload failed", zap.String("bucket", bucket), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return storage.Object{}, false
	}
	return obj, true
}

// deleteObject removes a stored image referenced by url. Failures are only logged.
func (h *Handler) deleteObject(c *gin.Context, bucket, url string) {
	if url == "" || h.Storage == nil {
		return
	}
	objectPath, ok := h.Storage.PathFromURL(bucket, url)
	if !ok {
		return
	}
	if err := h.Storage.Delete(c.Request.Context(), bucket, objectPath); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.FromGin(c).Warn("deleting old image failed", zap.String("path", objectPath), zap.Error(err))
	}
}

func (h *Handler) UploadRestaurantImage(c *gin.Context) {
	rest, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	data, ext, ok := readImage(c)
	if !ok {
		return
	}
	obj, ok := h.storeImage(c, storage.BucketRestaurantImages, rest.ID, data, ext)
	if !ok {
		return
	}
	old := rest.ImageURL
	if err := h.Repos.Restaurants.Update(c.Request.Context(), rest, map[string]interface{}{"image_url": obj.PublicURL}); err != nil {
		repoError(c, err, "Restaurant")
		return
	}
	h.deleteObject(c, storage.BucketRestaurantImages, old)
	c.JSON(http.StatusOK, gin.H{"image_url": obj.PublicURL})
}

func (h *Handler) UploadItemImage(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}
	data, ext, ok := readImage(c)
	if !ok {
		return
	}
	obj, ok := h.storeImage(c, storage.BucketItemImages, item.ID, data, ext)
	if !ok {
		return
	}
	old := item.ImageURL
	if err := h.Repos.Items.Update(c.Request.Context(), item, map[string]interface{}{"image_url": obj.PublicURL}); err != nil {
		repoError(c, err, "Item")
		return
	}
	h.deleteObject(c, storage.BucketItemImages, old)
	c.JSON(http.StatusOK, gin.H{"image_url": obj.PublicURL})
}
