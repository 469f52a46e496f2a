package archiver

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrFileAlreadyExists = errors.New("file already exists")

// ObjectStore is the subset of *s3.Client the archiver uses.
type ObjectStore interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Object is one rendered file to upload.
type Object struct {
	Name        string
	ContentType string
	Body        []byte
}

type Archiver struct {
	S3Client ObjectStore
	S3Bucket string

	// S3Prefix is for the files in the bucket with no leading slash but optionally (typically) with trailing slash
	// e.g. "charts/" or simply "" (empty string)
	S3Prefix string

	// RealmName groups objects under a directory of the prefix, e.g. the NCBI section.
	RealmName string

	logger *zerolog.Logger
}

func (a *Archiver) initLogger() {
	if a.logger == nil {
		logger := log.With().
			Str("module", "archiver").
			Str("realm", a.RealmName).
			Logger()
		a.logger = &logger
	}
}

func (a *Archiver) Key(name string) string {
	return a.S3Prefix + a.RealmName + "/" + name
}

// Archive uploads objects once none of their keys exists in the bucket yet. Nothing is
// uploaded when any key is taken.
func (a *Archiver) Archive(ctx context.Context, objects []Object) ([]string, error) {
	a.initLogger()

	for _, o := range objects {
		if err := a.assertS3FileNonExistence(ctx, a.Key(o.Name)); err != nil {
			return nil, errors.Wrap(err, "failed to assertFileNonExistence")
		}
	}
	a.logger.Trace().Int("objects", len(objects)).Msg("asserted S3 file non-existence")

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		key := a.Key(o.Name)
		if err := a.uploadToS3(ctx, key, o); err != nil {
			return keys, errors.Wrapf(err, "failed to upload %s", key)
		}
		a.logger.Info().Str("key", key).Int("bytes", len(o.Body)).Msg("uploaded object")
		keys = append(keys, key)
	}
	return keys, nil
}

func (a *Archiver) assertS3FileNonExistence(ctx context.Context, key string) error {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(a.S3Bucket),
		Key:    aws.String(key),
	}
	object, err := a.S3Client.HeadObject(ctx, input)
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			if ae.ErrorCode() == "NotFound" {
				return nil
			}
		}
		return errors.Wrap(err, "failed to invoke HeadObject")
	}
	return errors.Wrap(ErrFileAlreadyExists, fmt.Sprintf("file \"%s\" already exists in s3 with LastModified \"%s\"", key, aws.ToTime(object.LastModified)))
}

func (a *Archiver) uploadToS3(ctx context.Context, key string, o Object) error {
	if _, err := a.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(a.S3Bucket),
		Key:               aws.String(key),
		Body:              bytes.NewReader(o.Body),
		ContentLength:     aws.Int64(int64(len(o.Body))),
		ContentType:       aws.String(o.ContentType),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	}); err != nil {
		return errors.Wrap(err, "failed to invoke PutObject")
	}
	return nil
}
