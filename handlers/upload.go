package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"server/auth"
	"server/config"
	"server/models"
	"server/storage"
	"server/utils"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

const thumbSize = 1280

type PhotoUploadRequest struct {
	AlbumID     uint64 `form:"album_id" binding:"required"`
	Title       string `form:"title"`
	Description string `form:"description"`
}

type PhotoBatchUploadResponse struct {
	Photos []PhotoInfo `json:"photos"`
	Failed []string    `json:"failed"`
}

// storeUploadedPhoto validates one multipart file, writes the original and a
// bounded JPEG thumbnail to the default storage, then creates the photo row
// (with its counter and cover side effects) in one transaction. The stored
// files are removed again if the row cannot be created. The user's in-memory
// usage is advanced on success so a batch is checked against the quota
// cumulatively.
func storeUploadedPhoto(user *models.User, r *PhotoUploadRequest, header *multipart.FileHeader) (models.Photo, error) {
	if header.Size > int64(config.MAX_UPLOAD_SIZE) {
		return models.Photo{}, fmt.Errorf("%w: file too large", models.ErrInvalidArgument)
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return models.Photo{}, fmt.Errorf("%w: not an image", models.ErrInvalidArgument)
	}
	if !user.WithinQuota(header.Size) {
		return models.Photo{}, fmt.Errorf("%w: storage quota exceeded", models.ErrInvalidState)
	}
	file, err := header.Open()
	if err != nil {
		return models.Photo{}, errors.New("cannot read file")
	}
	defer file.Close()
	backend := storage.GetDefaultStorage()
	if backend == nil {
		return models.Photo{}, errors.New("no storage configured")
	}
	// Paths depend only on the owner and the storage id, so they can be
	// computed before the row exists
	stub := models.Photo{UserID: user.ID, StorageID: uuid.NewString()}
	if _, err = backend.Save(stub.GetPath(), file); err != nil {
		return models.Photo{}, errors.New("cannot store file")
	}
	if _, err = file.Seek(0, 0); err != nil {
		_ = backend.Delete(stub.GetPath())
		return models.Photo{}, errors.New("cannot read file")
	}
	var thumbBuf bytes.Buffer
	converted, err := utils.CreateThumb(thumbSize, file, &thumbBuf)
	if err != nil {
		_ = backend.Delete(stub.GetPath())
		return models.Photo{}, fmt.Errorf("%w: cannot decode image", models.ErrInvalidArgument)
	}
	if _, err = backend.Save(stub.GetThumbPath(), &thumbBuf); err != nil {
		_ = backend.Delete(stub.GetPath())
		return models.Photo{}, errors.New("cannot store thumbnail")
	}
	aspectRatio := 1.0
	if converted.OldY > 0 {
		aspectRatio = float64(converted.OldX) / float64(converted.OldY)
	}
	bucketID := backend.GetBucket().ID
	photo, err := models.PhotoAdd(user.ID, models.PhotoAddInput{
		AlbumID:     r.AlbumID,
		Title:       r.Title,
		Description: r.Description,
		URL:         "/photos/view?sid=" + stub.StorageID,
		ThumbURL:    "/photos/view?sid=" + stub.StorageID + "&thumb=1",
		StorageID:   stub.StorageID,
		BucketID:    &bucketID,
		Size:        header.Size,
		AspectRatio: aspectRatio,
	})
	if err != nil {
		_ = backend.Delete(stub.GetPath())
		_ = backend.Delete(stub.GetThumbPath())
		return models.Photo{}, err
	}
	user.StorageUsed += header.Size
	return photo, nil
}

func PhotoUpload(c *gin.Context, user *models.User) {
	r := PhotoUploadRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "file is required"})
		return
	}
	photo, err := storeUploadedPhoto(user, &r, header)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, photoInfoFrom(&photo, user.ID))
}

// PhotoUploadBatch stores every file in the "files" multipart field into the
// same album. Files that fail validation or storage are reported by name and
// do not abort the rest of the batch.
func PhotoUploadBatch(c *gin.Context, user *models.User) {
	r := PhotoUploadRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		c.JSON(http.StatusBadRequest, Response{Error: "files are required"})
		return
	}
	result := PhotoBatchUploadResponse{Photos: []PhotoInfo{}, Failed: []string{}}
	for _, header := range form.File["files"] {
		photo, err := storeUploadedPhoto(user, &r, header)
		if err != nil {
			result.Failed = append(result.Failed, header.Filename)
			continue
		}
		result.Photos = append(result.Photos, photoInfoFrom(&photo, user.ID))
	}
	c.JSON(http.StatusOK, result)
}

// PhotoView serves the stored bytes. It sits on the public router so shared
// and anonymous viewers work, with the privacy check done here against the
// session (if any).
func PhotoView(c *gin.Context) {
	sid := c.Query("sid")
	if sid == "" {
		c.JSON(http.StatusBadRequest, Response{Error: "sid is required"})
		return
	}
	photo, err := models.PhotoByStorageID(sid)
	if err != nil {
		Error(c, err)
		return
	}
	user := auth.LoadSession(c).User()
	if !models.NewPrivacyCache().PhotoVisible(&photo, user.ID) {
		c.JSON(http.StatusNotFound, Response{Error: "photo not found"})
		return
	}
	if photo.BucketID == nil {
		c.JSON(http.StatusNotFound, Response{Error: "no stored file"})
		return
	}
	backend := storage.StorageForBucketID(*photo.BucketID)
	if backend == nil {
		c.JSON(http.StatusInternalServerError, Response{Error: "no storage backend"})
		return
	}
	backend.Serve(photo.GetPathOrThumb(c.Query("thumb") == "1"), c.Request, c.Writer)
}
