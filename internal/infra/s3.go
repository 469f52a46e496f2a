package infra

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/drawbank/internal/app/appconfig"
)

// S3 builds the client charts are published with. Static credentials are only used when
// both keys are configured; otherwise the default AWS credential chain applies.
func S3(conf *appconfig.Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(conf.S3Region),
	}
	if conf.AWSAccessKey != "" && conf.AWSSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AWSAccessKey, conf.AWSSecretKey, "")))
	} else {
		log.Debug().Msg("no static AWS credentials configured, using the default credential chain")
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}
	return s3.NewFromConfig(cfg), nil
}
