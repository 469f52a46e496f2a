package service

import (
	"bufio"
	"context"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/drawbank/internal/app/appconfig"
	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
	"exusiai.dev/drawbank/internal/pkg/observability"
)

const (
	// maxLineSize caps a single assembly summary line. Real lines are a few KiB.
	maxLineSize = 1 << 20

	// ctxCheckInterval is how many lines are read between cancellation checks.
	ctxCheckInterval = 4096
)

// DiagnosticsSink receives the parser's informational and warning messages.
// A *zerolog.Logger satisfies it.
type DiagnosticsSink interface {
	Info() *zerolog.Event
	Warn() *zerolog.Event
}

type Parser struct {
	concurrency int
}

func NewParser(conf *appconfig.Config) *Parser {
	concurrency := conf.ParseConcurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Parser{
		concurrency: concurrency,
	}
}

// Parse reads every source and tallies assemblies per group and year. Sources are
// deduplicated keeping their first position; they are read concurrently but merged in
// order, so groups keep the order in which a sequential read would have met them.
//
// The number of lines without a submission date is reported to sink as a warning
// rather than returned as an error.
func (s *Parser) Parse(ctx context.Context, sources []string, sink DiagnosticsSink) (*model.Tally, error) {
	sources = lo.Uniq(sources)
	partials := make([]*model.Tally, len(sources))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for i, source := range sources {
		i, source := i, source
		eg.Go(func() error {
			partial, err := ParseSource(ctx, source)
			if err != nil {
				return err
			}
			partials[i] = partial
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	tally := model.NewTally()
	for _, partial := range partials {
		tally.Merge(partial)
	}

	observability.ParseSources.Add(float64(tally.Sources))
	observability.ParseRows.WithLabelValues("parsed").Add(float64(tally.Rows))
	observability.ParseRows.WithLabelValues("missing_date").Add(float64(tally.MissingDates))

	if tally.MissingDates > 0 {
		sink.Warn().
			Int("missingDates", tally.MissingDates).
			Msgf("%d genomes had no date of submission in the given assembly summaries", tally.MissingDates)
	}
	sink.Info().
		Int("sources", tally.Sources).
		Int("rows", tally.Rows).
		Int("groups", tally.Groups.Len()).
		Int("years", len(tally.Years)).
		Msg("parsed assembly summaries")

	if len(tally.Years) == 0 {
		return nil, bankerr.ErrEmptyInput
	}
	return tally, nil
}

// ParseSource tallies a single assembly summary file.
func ParseSource(ctx context.Context, path string) (*model.Tally, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bankerr.ErrFileNotFound.Msg("assembly summary source not found: %s", path)
		}
		return nil, errors.Wrap(bankerr.ErrFileReadError.Msg("failed to open %s: %v", path, err), "failed to open source")
	}
	defer f.Close()

	return ParseReader(ctx, f, path)
}

// ParseReader tallies the assembly summary read from r. name is only used in error messages.
func ParseReader(ctx context.Context, r io.Reader, name string) (*model.Tally, error) {
	tally := model.NewTally()
	tally.Sources = 1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, constant.CommentPrefix) {
			continue
		}

		record, err := ParseRecord(line)
		if err != nil {
			return nil, bankerr.ErrMalformedRecord.Msg("%s:%d: %v", name, lineNo, err)
		}
		if !record.Year.Valid {
			tally.MissingDates++
			continue
		}

		year := int(record.Year.Int64)
		tally.Groups.Add(record.Group, year, 1)
		tally.Years.Add(year, 1)
		tally.Rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(bankerr.ErrFileReadError.Msg("failed to read %s: %v", name, err), "failed to scan source")
	}

	return tally, nil
}

// ParseRecord extracts the group label and submission year of one data line.
// An empty submission date yields a record with an invalid Year.
func ParseRecord(line string) (model.AssemblyRecord, error) {
	fields := strings.Split(line, constant.FieldSeparator)
	if len(fields) < constant.MinColumns {
		return model.AssemblyRecord{}, errors.Errorf("expected at least %d columns, got %d", constant.MinColumns, len(fields))
	}

	record := model.AssemblyRecord{
		Group: fields[constant.ColumnGroup],
	}

	date := fields[constant.ColumnSubmissionDate]
	if date == "" {
		return record, nil
	}

	yearPart, _, _ := strings.Cut(date, constant.DateSeparator)
	year, err := strconv.Atoi(strings.TrimSpace(yearPart))
	if err != nil {
		return model.AssemblyRecord{}, errors.Errorf("submission date %q does not start with a year", date)
	}
	record.Year = null.IntFrom(int64(year))

	return record, nil
}
