package infra

import (
	"net/http"

	"exusiai.dev/drawbank/internal/app/appconfig"
)

// HTTPClient is the client used to talk to NCBI.
func HTTPClient(conf *appconfig.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = conf.FetchConcurrency

	return &http.Client{
		Transport: transport,
		Timeout:   conf.HTTPTimeout,
	}
}
