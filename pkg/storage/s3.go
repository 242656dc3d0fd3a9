package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Options struct {
	Region          string
	BucketName      string
	AccessKeyID     string
	SecretAccessKey string
}

type s3Backend struct {
	client     *s3.S3
	uploader   *s3manager.Uploader
	bucketName string
}

// NewS3 stores blobs in a bucket under the key <scope>/<name>.
func NewS3(opts S3Options) (Backend, error) {
	if opts.BucketName == "" {
		return nil, errors.New("s3 bucket name is required")
	}

	sess, err := newSession(opts)
	if err != nil {
		return nil, err
	}

	return &s3Backend{
		client:     s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		bucketName: opts.BucketName,
	}, nil
}

func newSession(opts S3Options) (*session.Session, error) {
	cfg := &aws.Config{
		Region: aws.String(opts.Region),
	}
	if opts.AccessKeyID != "" {
		cfg.Credentials = credentials.NewStaticCredentials(opts.AccessKeyID, opts.SecretAccessKey, "")
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return sess, nil
}

func objectKey(scope, name string) string {
	return path.Join(scope, name)
}

func (b *s3Backend) Put(ctx context.Context, scope, name string, data []byte) error {
	input := &s3manager.UploadInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(objectKey(scope, name)),
		Body:   bytes.NewReader(data),
	}
	if contentType := mime.TypeByExtension(path.Ext(name)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := b.uploader.UploadWithContext(ctx, input); err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	return nil
}

func (b *s3Backend) Get(ctx context.Context, scope, name string) ([]byte, error) {
	out, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(objectKey(scope, name)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return data, nil
}

func (b *s3Backend) Delete(ctx context.Context, scope, name string) error {
	_, err := b.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(objectKey(scope, name)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (b *s3Backend) Exists(ctx context.Context, scope, name string) (bool, error) {
	_, err := b.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(objectKey(scope, name)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head object: %w", err)
	}
	return true, nil
}

func (b *s3Backend) Ping(ctx context.Context) error {
	_, err := b.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucketName),
	})
	if err != nil {
		return fmt.Errorf("head bucket: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
