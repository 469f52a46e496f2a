package model

// DrawOptions selects what a draw run reads and what it produces.
type DrawOptions struct {
	Section string `validate:"required,section"`

	// Groups filters the section listing by taxonomic group. Empty means the whole section.
	Groups []string `validate:"dive,required"`

	// Assembly lists local assembly summaries read instead of resolving remote listings.
	Assembly []string `validate:"dive,required"`

	// TopN is the number of groups charted on their own. 0 charts everything as Others.
	TopN int `validate:"gte=0"`

	Cumulative bool
	NoCache    bool

	Formats  []string `validate:"min=1,dive,format"`
	Basename string   `validate:"omitempty,basename"`
	OutDir   string   `validate:"required"`
	Publish  bool
}

// SeriesQuery re-shapes an already parsed tally when serving charts over HTTP.
type SeriesQuery struct {
	Most       *int  `query:"most" validate:"omitempty,gte=0,lte=1000"`
	Cumulative *bool `query:"cumulative"`
}
