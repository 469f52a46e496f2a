package rekuest

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
)

func validOptions() model.DrawOptions {
	return model.DrawOptions{
		Section: "genbank",
		TopN:    5,
		Formats: []string{"html"},
		OutDir:  ".",
	}
}

func TestValidStruct(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(o *model.DrawOptions)
		message string
	}

	testCases := []testCase{
		{name: "defaults", mutate: func(o *model.DrawOptions) {}},
		{name: "section is case insensitive", mutate: func(o *model.DrawOptions) { o.Section = "RefSeq" }},
		{name: "every format", mutate: func(o *model.DrawOptions) { o.Formats = []string{"html", "JSON", "csv", "xlsx"} }},
		{name: "top zero", mutate: func(o *model.DrawOptions) { o.TopN = 0 }},
		{name: "basename", mutate: func(o *model.DrawOptions) { o.Basename = "viral_2023" }},
		{
			name:    "unknown section",
			mutate:  func(o *model.DrawOptions) { o.Section = "ena" },
			message: "Section must be one of [genbank refseq]",
		},
		{
			name:    "negative top",
			mutate:  func(o *model.DrawOptions) { o.TopN = -1 },
			message: "TopN must be 0 or greater",
		},
		{
			name:    "unknown format",
			mutate:  func(o *model.DrawOptions) { o.Formats = []string{"html", "png"} },
			message: "Formats[1] must be one of [html json csv xlsx]",
		},
		{
			name:    "no format",
			mutate:  func(o *model.DrawOptions) { o.Formats = nil },
			message: "Formats must contain at least 1 item",
		},
		{
			name:    "basename with directory",
			mutate:  func(o *model.DrawOptions) { o.Basename = "../chart" },
			message: "Basename must be a file name without a directory",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOptions()
			tc.mutate(&o)
			err := ValidStruct(o)
			if tc.message == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, bankerr.ErrInvalidOptions), "got %v", err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestValidStructCarriesViolations(t *testing.T) {
	o := validOptions()
	o.Section = ""
	o.TopN = -3

	err := ValidStruct(o)
	var e *bankerr.BankError
	require.True(t, errors.As(err, &e))
	require.NotNil(t, e.Extras)

	violations, ok := (*e.Extras)["violations"].([]*Violation)
	require.True(t, ok)
	require.Len(t, violations, 2)
	assert.Equal(t, "DrawOptions.Section", violations[0].Field)
	assert.Equal(t, "required", violations[0].Violation)
	assert.Equal(t, "gte", violations[1].Violation)
}
