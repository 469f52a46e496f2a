package appconfig

import (
	"time"

	"exusiai.dev/drawbank/internal/app/appcontext"
)

type ConfigSpec struct {
	// CacheDir is where fetched assembly summaries and their metadata are kept.
	// Leaving this empty uses "drawbank" under the user cache directory.
	CacheDir string `split_words:"true"`

	// NCBIBaseURL is the root of the genomes tree on the NCBI FTP (served over HTTPS).
	NCBIBaseURL string `envconfig:"NCBI_BASE_URL" required:"true" default:"https://ftp.ncbi.nlm.nih.gov/genomes"`

	// HTTPTimeout bounds a single HEAD or GET against NCBI. Whole-section listings are
	// large, so this is generous.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" required:"true" default:"10m"`

	// FetchAttempts is the number of attempts made per listing before giving up.
	FetchAttempts uint `split_words:"true" default:"4"`

	// FetchRetryDelay is the delay before the first retry. It doubles on every further attempt.
	FetchRetryDelay time.Duration `split_words:"true" default:"2s"`

	// FetchConcurrency is the number of listings downloaded at the same time.
	FetchConcurrency int `split_words:"true" default:"4"`

	// ParseConcurrency is the number of listings parsed at the same time.
	// 0 means one per CPU.
	ParseConcurrency int `split_words:"true" default:"0"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile additionally writes JSON logs to a rotating file. Empty disables it.
	LogFile string `split_words:"true"`

	// DevMode enables trace logging.
	DevMode bool `split_words:"true"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// S3Bucket is the bucket rendered charts are published to with `draw --publish`.
	S3Bucket string `envconfig:"S3_BUCKET"`

	// S3Prefix is for the objects in the bucket with no leading slash but optionally (typically) with trailing slash
	// e.g. "charts/" or simply "" (empty string)
	S3Prefix string `envconfig:"S3_PREFIX"`

	S3Region string `envconfig:"S3_REGION" default:"us-east-1"`

	// AWSAccessKey and AWSSecretKey are static credentials for publishing. When left empty,
	// the default AWS credential chain is used.
	AWSAccessKey string `envconfig:"AWS_ACCESS_KEY"`
	AWSSecretKey string `envconfig:"AWS_SECRET_KEY"`

	// ServeAddress is the listen address of `drawbank serve`.
	ServeAddress string `required:"true" split_words:"true" default:"localhost:9020"`

	// RefreshInterval is how often `drawbank serve` reloads its listings after the
	// first load. 0 disables reloading.
	RefreshInterval time.Duration `split_words:"true" default:"24h"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
