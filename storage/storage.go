package storage

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"server/config"
	"server/db"
	"strconv"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// StorageAPI is what the rest of the server needs from a photo store:
// write the bytes, read them back, serve them over HTTP and delete them.
type StorageAPI interface {
	GetBucket() *Bucket
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
}

var cachedStorage = cmap.New[StorageAPI]()

func Init() {
	db.Instance.AutoMigrate(&Bucket{})

	var buckets []Bucket
	err := db.Instance.Find(&buckets).Error
	if err != nil {
		panic(err)
	}
	if len(buckets) == 0 && config.DEFAULT_BUCKET_DIR != "" {
		bucket := Bucket{
			Name:        "default",
			StorageType: StorageTypeFile,
			Path:        config.DEFAULT_BUCKET_DIR,
		}
		if err = bucket.Create(); err != nil {
			panic(err)
		}
		buckets = append(buckets, bucket)
	}
	log.Printf("Storage Buckets found: %d\n", len(buckets))
	for _, bucket := range buckets {
		bucket := bucket
		var backend StorageAPI
		if bucket.StorageType == StorageTypeFile {
			backend = NewDiskStorage(&bucket)
		} else if bucket.StorageType == StorageTypeS3 {
			backend = NewS3Storage(&bucket)
		} else {
			panic(fmt.Sprintf("Storage type unavailable for Bucket %d", bucket.ID))
		}
		cachedStorage.Set(strconv.FormatUint(bucket.ID, 10), backend)
	}
}

// StorageForBucketID returns the backend for a bucket, or nil when unknown.
func StorageForBucketID(id uint64) StorageAPI {
	if backend, ok := cachedStorage.Get(strconv.FormatUint(id, 10)); ok {
		return backend
	}
	return nil
}

func GetDefaultStorage() StorageAPI {
	var result StorageAPI
	// Prefer a disk bucket, same as the teacher of old installs expects
	for _, backend := range cachedStorage.Items() {
		if result == nil {
			result = backend
		}
		if backend.GetBucket().StorageType == StorageTypeFile {
			return backend
		}
	}
	return result
}
