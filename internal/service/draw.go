package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"exusiai.dev/drawbank/internal/app/appconfig"
	"exusiai.dev/drawbank/internal/constant"
	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
	"exusiai.dev/drawbank/internal/pkg/chart"
	"exusiai.dev/drawbank/internal/pkg/observability"
	"exusiai.dev/drawbank/internal/util"
	"exusiai.dev/drawbank/internal/util/rekuest"
)

// Output is one rendered chart file.
type Output struct {
	Format      string
	Name        string
	ContentType string
	Body        []byte

	// Path is where the output was written, once it was.
	Path string
}

type DrawResult struct {
	Tally     *model.Tally
	Ranked    model.RankedGroups
	Figure    *chart.Figure
	Outputs   []Output
	Published []string
}

// Draw runs the whole chart pipeline: resolve, parse, rank, build the series, render,
// write and optionally publish.
type Draw struct {
	Config    *appconfig.Config
	Resolver  *Resolver
	Parser    *Parser
	Publisher *Publisher
}

func NewDraw(conf *appconfig.Config, resolver *Resolver, parser *Parser, publisher *Publisher) *Draw {
	return &Draw{
		Config:    conf,
		Resolver:  resolver,
		Parser:    parser,
		Publisher: publisher,
	}
}

func stage(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		observability.StageDuration.WithLabelValues(name).Set(d.Seconds())
		log.Debug().Str("stage", name).Dur("duration", d).Msg("stage finished")
	}
}

func (s *Draw) Run(ctx context.Context, opts model.DrawOptions) (*DrawResult, error) {
	if err := rekuest.ValidStruct(opts); err != nil {
		return nil, err
	}

	tally, err := s.Tally(ctx, opts)
	if err != nil {
		return nil, err
	}

	fig, ranked, err := s.Figure(tally, opts.Section, opts.TopN, opts.Cumulative)
	if err != nil {
		return nil, err
	}

	basename := opts.Basename
	if basename == "" {
		basename = chart.Basename(opts.Section, opts.Cumulative)
	}
	outputs, err := s.Render(fig, opts.Formats, basename)
	if err != nil {
		return nil, err
	}

	if err := s.Write(outputs, opts.OutDir); err != nil {
		return nil, err
	}

	result := &DrawResult{
		Tally:   tally,
		Ranked:  ranked,
		Figure:  fig,
		Outputs: outputs,
	}

	if opts.Publish {
		done := stage("publish")
		result.Published, err = s.Publisher.Publish(ctx, strings.ToLower(opts.Section), outputs)
		done()
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

// Sources returns the local assembly summaries opts selects: the explicit files when
// given, the resolved remote listings otherwise.
func (s *Draw) Sources(ctx context.Context, opts model.DrawOptions) ([]string, error) {
	if len(opts.Assembly) > 0 {
		if len(opts.Groups) > 0 {
			log.Warn().Strs("groups", opts.Groups).Msg("group filter is ignored when local assembly summaries are given")
		}
		return opts.Assembly, nil
	}

	defer stage("resolve")()
	return s.Resolver.Resolve(ctx, opts.Section, opts.Groups, ResolveOptions{NoCache: opts.NoCache})
}

func (s *Draw) Tally(ctx context.Context, opts model.DrawOptions) (*model.Tally, error) {
	sources, err := s.Sources(ctx, opts)
	if err != nil {
		return nil, err
	}

	defer stage("parse")()
	sink := log.With().Str("stage", "parse").Logger()
	return s.Parser.Parse(ctx, sources, &sink)
}

// Figure ranks the groups of tally and builds the chart of their series.
func (s *Draw) Figure(tally *model.Tally, section string, topN int, cumulative bool) (*chart.Figure, model.RankedGroups, error) {
	defer stage("series")()

	ranked := util.RankGroups(tally.Groups, topN)
	rows, err := util.BuildSeries(tally.Years, ranked, cumulative)
	if err != nil {
		return nil, nil, err
	}

	return &chart.Figure{
		Title:      chart.Title(section, cumulative),
		Section:    strings.ToLower(section),
		Cumulative: cumulative,
		Rows:       rows,
	}, ranked, nil
}

// Render renders fig in every format, in memory. Formats are deduplicated
// case-insensitively.
func (s *Draw) Render(fig *chart.Figure, formats []string, basename string) ([]Output, error) {
	defer stage("render")()

	formats = lo.Uniq(lo.Map(formats, func(f string, _ int) string {
		return strings.ToLower(strings.TrimSpace(f))
	}))

	outputs := make([]Output, 0, len(formats))
	for _, format := range formats {
		r, err := chart.For(format)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := r.Render(&buf, fig); err != nil {
			return nil, errors.Wrap(bankerr.ErrRenderFailed.Msg("failed to render %s: %v", format, err), "failed to render chart")
		}
		outputs = append(outputs, Output{
			Format:      format,
			Name:        basename + "." + format,
			ContentType: constant.FormatContentTypes[format],
			Body:        buf.Bytes(),
		})
	}
	return outputs, nil
}

// Write stores outputs in dir. Every file is written to a temporary name first and
// renamed into place.
func (s *Draw) Write(outputs []Output, dir string) error {
	defer stage("write")()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(bankerr.ErrRenderFailed.Msg("failed to create output directory %s: %v", dir, err), "failed to write charts")
	}
	for i := range outputs {
		path := filepath.Join(dir, outputs[i].Name)
		if _, err := writeAtomically(path, bytes.NewReader(outputs[i].Body)); err != nil {
			return errors.Wrap(bankerr.ErrRenderFailed.Msg("failed to write %s: %v", path, err), "failed to write charts")
		}
		outputs[i].Path = path
		log.Info().Str("format", outputs[i].Format).Str("path", path).Msg("chart written")
	}
	return nil
}
