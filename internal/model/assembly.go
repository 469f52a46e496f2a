package model

import (
	"gopkg.in/guregu/null.v3"
)

// AssemblyRecord is the part of one assembly_summary data line drawbank cares about.
type AssemblyRecord struct {
	// Group is the taxonomic group label (column 8, organism_name).
	Group string `json:"group"`

	// Year is the submission year taken from column 15 (seq_rel_date). It is invalid
	// when the column is empty.
	Year null.Int `json:"year"`
}
