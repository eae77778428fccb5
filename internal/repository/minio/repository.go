package minio

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"blogicum/config"
	"blogicum/internal/repository"
)

type minioImageStore struct {
	cli    *minio.Client
	bucket string
}

func New(conf config.MinIO) (*minioImageStore, error) {
	client, err := minio.New(fmt.Sprintf("%s:%s", conf.Host, conf.Port), &minio.Options{
		Creds:  credentials.NewStaticV4(conf.User, conf.Pass, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil || !exists {
		err = client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("bucket creation error: %v", err)
		}
	}

	store := &minioImageStore{
		cli:    client,
		bucket: conf.Bucket,
	}
	return store, nil
}

func (ms minioImageStore) PutImage(file multipart.File, header *multipart.FileHeader) (*repository.ImageMeta, error) {
	ext := filepath.Ext(header.Filename)
	objectName := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	info, err := ms.cli.PutObject(
		context.Background(),
		ms.bucket,
		objectName,
		file,
		header.Size,
		minio.PutObjectOptions{ContentType: header.Header.Get("Content-Type")},
	)
	if err != nil {
		return nil, err
	}

	url, err := ms.cli.PresignedGetObject(
		context.Background(),
		ms.bucket,
		objectName,
		24*time.Hour,
		nil,
	)
	if err != nil {
		return nil, err
	}
	meta := &repository.ImageMeta{
		Key:  info.Key,
		URL:  url.String(),
		Size: info.Size,
	}
	return meta, nil
}
