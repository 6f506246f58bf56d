package storage

import (
	"os"
	"server/db"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

const StorageLocationUser = "/user"

type Bucket struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Name        string `gorm:"type:varchar(200)"` // S3 bucket name, or a label for disk buckets
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	Region      string `gorm:"type:varchar(20)"`
	Endpoint    string `gorm:"type:varchar(300)"` // Optional, for S3-compatible stores
	AuthDetails string // Authentication details. In case of S3 bucket - "key:secret"
}

func (b *Bucket) Create() error {
	err := db.Instance.Create(b).Error
	if err != nil {
		return err
	}
	if b.StorageType == StorageTypeFile {
		// Pre-create locations on disk
		if err = os.MkdirAll(b.Path+StorageLocationUser, 0777); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath prefixes the object key with the bucket's configured prefix.
func (b *Bucket) GetRemotePath(path string) string {
	if b.Path == "" {
		return path
	}
	return strings.TrimSuffix(b.Path, "/") + "/" + path
}

// CreateSVC creates an S3 client for the bucket.
func (b *Bucket) CreateSVC() *s3.S3 {
	creds := strings.SplitN(b.AuthDetails, ":", 2)
	if len(creds) != 2 {
		creds = []string{"", ""}
	}
	awsConfig := aws.Config{
		Region:      aws.String(b.Region),
		Credentials: credentials.NewStaticCredentials(creds[0], creds[1], ""),
	}
	if b.Endpoint != "" {
		awsConfig.Endpoint = aws.String(b.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	return s3.New(session.Must(session.NewSession(&awsConfig)))
}
