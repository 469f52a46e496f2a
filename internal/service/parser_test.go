package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"exusiai.dev/drawbank/internal/app/appconfig"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
)

const summaryHeader = "#   See ftp://ftp.ncbi.nlm.nih.gov/genomes/README_assembly_summary.txt for a description of the columns in this file.\n" +
	"# assembly_accession\tbioproject\tbiosample\twgs_master\trefseq_category\ttaxid\tspecies_taxid\torganism_name\tinfraspecific_name\tisolate\tversion_status\tassembly_level\trelease_type\tgenome_rep\tseq_rel_date\tasm_name\tsubmitter\n"

// summaryLine builds a 17 column data line with the given organism and release date.
func summaryLine(group, date string) string {
	fields := []string{
		"GCA_000001405.29", "PRJNA31257", "na", "", "reference genome", "9606", "9606",
		group, "", "", "latest", "Chromosome", "Major", "Full", date, "GRCh38.p14", "Genome Reference Consortium",
	}
	return strings.Join(fields, "\t") + "\n"
}

func writeSummary(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(summaryHeader+strings.Join(lines, "")), 0o644))
	return path
}

func newTestParser() *Parser {
	return NewParser(&appconfig.Config{ConfigSpec: appconfig.ConfigSpec{ParseConcurrency: 2}})
}

func newTestSink() (*zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	return &l, &buf
}

func logLines(buf *bytes.Buffer) []gjson.Result {
	var res []gjson.Result
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line != "" {
			res = append(res, gjson.Parse(line))
		}
	}
	return res
}

func TestParseRecord(t *testing.T) {
	t.Run("year before first slash", func(t *testing.T) {
		r, err := ParseRecord(strings.TrimSuffix(summaryLine("Homo sapiens", "2022/02/03"), "\n"))
		require.NoError(t, err)
		assert.Equal(t, "Homo sapiens", r.Group)
		assert.True(t, r.Year.Valid)
		assert.EqualValues(t, 2022, r.Year.Int64)
	})

	t.Run("bare year", func(t *testing.T) {
		r, err := ParseRecord(strings.TrimSuffix(summaryLine("viral", "1999"), "\n"))
		require.NoError(t, err)
		assert.EqualValues(t, 1999, r.Year.Int64)
	})

	t.Run("empty date", func(t *testing.T) {
		r, err := ParseRecord(strings.TrimSuffix(summaryLine("viral", ""), "\n"))
		require.NoError(t, err)
		assert.False(t, r.Year.Valid)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := ParseRecord(strings.TrimSuffix(summaryLine("viral", "na"), "\n"))
		assert.Error(t, err)
	})

	t.Run("too few columns", func(t *testing.T) {
		_, err := ParseRecord("GCA_1\tPRJNA1\tna")
		assert.Error(t, err)
	})
}

func TestParseScenario(t *testing.T) {
	path := writeSummary(t, "assembly_summary.txt",
		summaryLine("bacteria", "2020/01/02"),
		summaryLine("bacteria", "2021/05/06"),
		summaryLine("viral", "2020/11/12"),
	)
	sink, buf := newTestSink()

	tally, err := newTestParser().Parse(context.Background(), []string{path}, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"bacteria", "viral"}, tally.Groups.Groups())
	assert.Equal(t, map[int]int{2020: 1, 2021: 1}, tally.Groups.Years("bacteria"))
	assert.Equal(t, map[int]int{2020: 1}, tally.Groups.Years("viral"))
	assert.Equal(t, 2, tally.Years[2020])
	assert.Equal(t, 1, tally.Years[2021])
	assert.Equal(t, 3, tally.Rows)
	assert.Equal(t, 0, tally.MissingDates)

	lines := logLines(buf)
	require.Len(t, lines, 1, "no missing-date warning expected")
	assert.Equal(t, "info", lines[0].Get("level").String())
	assert.EqualValues(t, 3, lines[0].Get("rows").Int())
}

func TestParseMissingDate(t *testing.T) {
	path := writeSummary(t, "assembly_summary.txt",
		summaryLine("bacteria", "2020/01/02"),
		summaryLine("bacteria", ""),
		summaryLine("archaea", ""),
	)
	sink, buf := newTestSink()

	tally, err := newTestParser().Parse(context.Background(), []string{path}, sink)
	require.NoError(t, err)

	assert.Equal(t, 2, tally.MissingDates)
	assert.Equal(t, 1, tally.Rows)
	assert.Equal(t, []string{"bacteria"}, tally.Groups.Groups(), "a line without a date contributes to no tally")
	assert.Equal(t, map[int]int{2020: 1}, map[int]int(tally.Years))

	lines := logLines(buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0].Get("level").String())
	assert.EqualValues(t, 2, lines[0].Get("missingDates").Int())
}

func TestParseAccumulatesSourcesInOrder(t *testing.T) {
	var paths []string
	for i := 0; i < 6; i++ {
		paths = append(paths, writeSummary(t, fmt.Sprintf("assembly_summary_%d.txt", i),
			summaryLine(fmt.Sprintf("group-%d", i), "2010/01/01"),
			summaryLine("shared", fmt.Sprintf("%d/01/01", 2010+i)),
		))
	}
	// duplicates are read once, keeping their first position
	sources := append(append([]string{}, paths...), paths[0], paths[3])
	sink, _ := newTestSink()

	tally, err := newTestParser().Parse(context.Background(), sources, sink)
	require.NoError(t, err)

	assert.Equal(t, 6, tally.Sources)
	assert.Equal(t, 12, tally.Rows)
	assert.Equal(t, []string{"group-0", "shared", "group-1", "group-2", "group-3", "group-4", "group-5"}, tally.Groups.Groups())
	assert.Equal(t, 6, tally.Groups.Total("shared"))
	assert.Equal(t, 7, tally.Years[2010])
}

func TestParseIdempotent(t *testing.T) {
	path := writeSummary(t, "assembly_summary.txt",
		summaryLine("bacteria", "2020/01/02"),
		summaryLine("viral", "2019/01/02"),
		summaryLine("viral", ""),
		summaryLine("plant", "2021/01/02"),
	)
	parser := newTestParser()
	sink, _ := newTestSink()

	a, err := parser.Parse(context.Background(), []string{path}, sink)
	require.NoError(t, err)
	b, err := parser.Parse(context.Background(), []string{path}, sink)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestParseErrors(t *testing.T) {
	sink, _ := newTestSink()
	parser := newTestParser()

	t.Run("missing file", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")}, sink)
		assert.True(t, errors.Is(err, bankerr.ErrFileNotFound), "got %v", err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), []string{t.TempDir()}, sink)
		assert.True(t, errors.Is(err, bankerr.ErrFileReadError), "got %v", err)
	})

	t.Run("malformed date", func(t *testing.T) {
		path := writeSummary(t, "bad.txt",
			summaryLine("bacteria", "2020/01/02"),
			summaryLine("bacteria", "unknown"),
		)
		_, err := parser.Parse(context.Background(), []string{path}, sink)
		assert.True(t, errors.Is(err, bankerr.ErrMalformedRecord), "got %v", err)
		assert.Contains(t, err.Error(), "bad.txt:4")
	})

	t.Run("only comments", func(t *testing.T) {
		path := writeSummary(t, "empty.txt")
		_, err := parser.Parse(context.Background(), []string{path}, sink)
		assert.True(t, errors.Is(err, bankerr.ErrEmptyInput), "got %v", err)
	})

	t.Run("only missing dates", func(t *testing.T) {
		path := writeSummary(t, "nodates.txt", summaryLine("bacteria", ""))
		_, err := parser.Parse(context.Background(), []string{path}, sink)
		assert.True(t, errors.Is(err, bankerr.ErrEmptyInput), "got %v", err)
	})

	t.Run("no sources", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), nil, sink)
		assert.True(t, errors.Is(err, bankerr.ErrEmptyInput), "got %v", err)
	})
}

func TestParseReaderCRLF(t *testing.T) {
	body := strings.ReplaceAll(summaryHeader+summaryLine("bacteria", "2020/01/02"), "\n", "\r\n")

	tally, err := ParseReader(context.Background(), strings.NewReader(body), "crlf.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Years[2020])
}
