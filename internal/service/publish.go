package service

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"exusiai.dev/drawbank/internal/app/appconfig"
	"exusiai.dev/drawbank/internal/pkg/archiver"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
)

// Publisher uploads rendered charts to the configured S3 bucket.
type Publisher struct {
	Config *appconfig.Config

	store archiver.ObjectStore
}

func NewPublisher(conf *appconfig.Config, client *s3.Client) *Publisher {
	return &Publisher{
		Config: conf,
		store:  client,
	}
}

// Publish uploads outputs under <prefix><section>/ and returns their keys. An output whose
// key already exists fails the whole publication before anything is uploaded.
func (s *Publisher) Publish(ctx context.Context, section string, outputs []Output) ([]string, error) {
	if s.Config.S3Bucket == "" {
		return nil, bankerr.ErrInvalidOptions.Msg("publishing requires DRAWBANK_S3_BUCKET to be set")
	}

	a := &archiver.Archiver{
		S3Client:  s.store,
		S3Bucket:  s.Config.S3Bucket,
		S3Prefix:  s.Config.S3Prefix,
		RealmName: section,
	}
	keys, err := a.Archive(ctx, lo.Map(outputs, func(o Output, _ int) archiver.Object {
		return archiver.Object{
			Name:        o.Name,
			ContentType: o.ContentType,
			Body:        o.Body,
		}
	}))
	if err != nil {
		return keys, errors.Wrap(bankerr.ErrPublishFailed.Msg("%v", err), "failed to publish charts")
	}
	return keys, nil
}
