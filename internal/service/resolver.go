package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"exusiai.dev/drawbank/internal/app/appconfig"
	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
	"exusiai.dev/drawbank/internal/pkg/bininfo"
	"exusiai.dev/drawbank/internal/pkg/cache"
	"exusiai.dev/drawbank/internal/pkg/observability"
)

// Listing is one remote assembly summary and the place it is cached at.
type Listing struct {
	Section string
	Group   string
	URL     string

	// Key is the cache key of the listing, relative to the cache directory.
	Key string
}

type listingMeta struct {
	URL          string    `msgpack:"url"`
	LastModified time.Time `msgpack:"lastModified"`
	FetchedAt    time.Time `msgpack:"fetchedAt"`
	Size         int64     `msgpack:"size"`
}

type ResolveOptions struct {
	// NoCache forces every listing to be downloaded again.
	NoCache bool
}

// Resolver turns a section and a set of taxonomic groups into local assembly summary
// files, downloading them from NCBI unless a cached copy is still current.
type Resolver struct {
	Config *appconfig.Config
	Client *http.Client

	cacheDir string
	meta     *cache.Set
}

func NewResolver(conf *appconfig.Config, client *http.Client) *Resolver {
	return &Resolver{
		Config:   conf,
		Client:   client,
		cacheDir: conf.CacheDir,
		meta:     cache.NewSet(conf.CacheDir),
	}
}

// Listings maps a section and group filter to the listings to fetch. Group names are
// matched case-insensitively and deduplicated keeping their first position. An empty
// filter, or one that contains "all", selects the whole section.
func (s *Resolver) Listings(section string, groups []string) ([]Listing, error) {
	section = strings.ToLower(strings.TrimSpace(section))
	accepted, ok := constant.SectionGroups[section]
	if !ok {
		return nil, bankerr.ErrInvalidOptions.Msg("unknown section %q: expected one of %s", section, strings.Join(constant.Sections, ", "))
	}

	groups = lo.Uniq(lo.FilterMap(groups, func(g string, _ int) (string, bool) {
		g = strings.ToLower(strings.TrimSpace(g))
		return g, g != ""
	}))

	for _, g := range groups {
		if g != constant.GroupAll && !lo.Contains(accepted, g) {
			return nil, bankerr.ErrUnknownGroupFilter.
				Msg("unknown group %q in %s: expected %s or one of %s", g, section, constant.GroupAll, strings.Join(accepted, ", ")).
				WithExtras(bankerr.Extras{"group": g, "section": section})
		}
	}

	if len(groups) == 0 || lo.Contains(groups, constant.GroupAll) {
		if len(groups) > 1 {
			log.Warn().Strs("groups", groups).Msg("group filter contains \"all\": other groups are already part of the section listing and are ignored")
		}
		return []Listing{s.listing(section, constant.GroupAll)}, nil
	}

	return lo.Map(groups, func(g string, _ int) Listing {
		return s.listing(section, g)
	}), nil
}

func (s *Resolver) listing(section, group string) Listing {
	base := strings.TrimSuffix(s.Config.NCBIBaseURL, "/")
	var url string
	if group == constant.GroupAll {
		url = fmt.Sprintf("%s/%s/assembly_summary_%s.txt", base, section, section)
	} else {
		url = fmt.Sprintf("%s/%s/%s/%s", base, section, group, constant.AssemblySummaryFile)
	}

	// the URL hash keeps copies fetched from different mirrors apart
	name := fmt.Sprintf("assembly_summary_%016x.txt", xxh3.HashString(url))
	return Listing{
		Section: section,
		Group:   group,
		URL:     url,
		Key:     path.Join(section, group, name),
	}
}

func (s *Resolver) localPath(l Listing) string {
	return filepath.Join(s.cacheDir, filepath.FromSlash(l.Key))
}

// Resolve returns local paths of the listings selected by section and groups, in
// filter order.
func (s *Resolver) Resolve(ctx context.Context, section string, groups []string, opts ResolveOptions) ([]string, error) {
	listings, err := s.Listings(section, groups)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(listings))
	eg, ctx := errgroup.WithContext(ctx)
	if s.Config.FetchConcurrency > 0 {
		eg.SetLimit(s.Config.FetchConcurrency)
	}
	for i, l := range listings {
		i, l := i, l
		eg.Go(func() error {
			p, err := s.resolveOne(ctx, l, opts)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *Resolver) resolveOne(ctx context.Context, l Listing, opts ResolveOptions) (string, error) {
	logger := log.With().Str("section", l.Section).Str("group", l.Group).Str("url", l.URL).Logger()
	local := s.localPath(l)

	if !opts.NoCache {
		if meta, ok := s.cached(l); ok {
			remote, err := s.lastModified(ctx, l.URL)
			if err != nil {
				logger.Warn().Err(err).Time("fetchedAt", meta.FetchedAt).Msg("failed to check listing freshness, using cached copy")
				observability.FetchResults.WithLabelValues("stale_fallback").Inc()
				return local, nil
			}
			if !remote.After(meta.LastModified) {
				logger.Debug().Time("lastModified", meta.LastModified).Msg("cached listing is current")
				observability.FetchResults.WithLabelValues("hit").Inc()
				return local, nil
			}
			logger.Info().Time("cached", meta.LastModified).Time("remote", remote).Msg("cached listing is stale")
		}
	}

	logger.Info().Msg("downloading assembly summary")
	meta, err := s.download(ctx, l.URL, local)
	if err != nil {
		return "", err
	}
	observability.FetchResults.WithLabelValues("miss").Inc()

	if err := s.meta.Set(l.Key, meta); err != nil {
		// the file is in place; the next run simply downloads it again
		logger.Warn().Err(err).Msg("failed to record listing metadata")
	}
	logger.Info().Int64("bytes", meta.Size).Msg("downloaded assembly summary")
	return local, nil
}

// cached reports whether a complete copy of l is on disk. A sidecar that no longer
// describes the file next to it is dropped.
func (s *Resolver) cached(l Listing) (*listingMeta, bool) {
	var meta listingMeta
	if err := s.meta.Get(l.Key, &meta); err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Warn().Err(err).Str("key", l.Key).Msg("unreadable listing metadata")
		}
		return nil, false
	}
	info, err := os.Stat(s.localPath(l))
	if err != nil || info.Size() != meta.Size || meta.URL != l.URL {
		log.Debug().Str("key", l.Key).Msg("dropping listing metadata of an incomplete copy")
		if err := s.meta.Delete(l.Key); err != nil {
			log.Warn().Err(err).Str("key", l.Key).Msg("failed to drop listing metadata")
		}
		return nil, false
	}
	return &meta, true
}

func (s *Resolver) retryOptions(ctx context.Context, url string) []retry.Option {
	// retry-go treats 0 attempts as unlimited
	attempts := s.Config.FetchAttempts
	if attempts == 0 {
		attempts = 1
	}
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.Config.FetchRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Str("url", url).Uint("attempt", n+1).Msg("request failed, retrying")
		}),
	}
}

func (s *Resolver) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("User-Agent", bininfo.Product())
	return req, nil
}

// checkStatus makes 5xx responses retryable and every other non-2xx response final.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err := errors.Errorf("unexpected status %s", resp.Status)
	if resp.StatusCode >= 500 {
		return err
	}
	return retry.Unrecoverable(err)
}

// lastModified returns the remote Last-Modified time of url. A missing header yields
// the zero time, which never counts as newer than a cached copy.
func (s *Resolver) lastModified(ctx context.Context, url string) (time.Time, error) {
	var lm time.Time
	err := retry.Do(func() error {
		req, err := s.newRequest(ctx, http.MethodHead, url)
		if err != nil {
			return err
		}
		resp, err := s.Client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			return err
		}
		if h := resp.Header.Get("Last-Modified"); h != "" {
			if lm, err = http.ParseTime(h); err != nil {
				return retry.Unrecoverable(errors.Wrap(err, "failed to parse Last-Modified"))
			}
		}
		return nil
	}, s.retryOptions(ctx, url)...)
	return lm, err
}

func (s *Resolver) download(ctx context.Context, url, dest string) (*listingMeta, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create cache directory")
	}

	var meta *listingMeta
	err := retry.Do(func() error {
		req, err := s.newRequest(ctx, http.MethodGet, url)
		if err != nil {
			return err
		}
		resp, err := s.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			return err
		}

		size, err := writeAtomically(dest, resp.Body)
		if err != nil {
			return err
		}

		meta = &listingMeta{
			URL:       url,
			FetchedAt: time.Now(),
			Size:      size,
		}
		if h := resp.Header.Get("Last-Modified"); h != "" {
			if lm, err := http.ParseTime(h); err == nil {
				meta.LastModified = lm
			}
		}
		return nil
	}, s.retryOptions(ctx, url)...)
	if err != nil {
		return nil, errors.Wrap(bankerr.ErrFetchFailed.Msg("failed to fetch %s: %v", url, err), "failed to download listing")
	}
	return meta, nil
}

// writeAtomically copies r into a temporary file next to dest and renames it over dest
// once complete, so an interrupted download never replaces a good copy.
func writeAtomically(dest string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return 0, retry.Unrecoverable(errors.Wrap(err, "failed to create temporary file"))
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, errors.Wrap(err, "failed to receive listing")
	}
	if err := tmp.Close(); err != nil {
		return 0, retry.Unrecoverable(errors.Wrap(err, "failed to close temporary file"))
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, retry.Unrecoverable(errors.Wrap(err, "failed to move listing into place"))
	}
	return size, nil
}
