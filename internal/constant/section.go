package constant

const (
	SectionGenBank = "genbank"
	SectionRefSeq  = "refseq"

	DefaultSection = SectionGenBank

	// GroupAll selects the whole section listing instead of one taxonomic group.
	GroupAll = "all"

	DefaultNCBIBaseURL = "https://ftp.ncbi.nlm.nih.gov/genomes"

	AssemblySummaryFile = "assembly_summary.txt"
)

var Sections = []string{
	SectionGenBank,
	SectionRefSeq,
}

var SectionNameMapping = map[string]string{
	SectionGenBank: "GenBank",
	SectionRefSeq:  "RefSeq",
}

// SectionGroups lists the taxonomic groups each section publishes a listing for.
var SectionGroups = map[string][]string{
	SectionGenBank: {
		"archaea",
		"bacteria",
		"fungi",
		"invertebrate",
		"metagenomes",
		"other",
		"plant",
		"protozoa",
		"vertebrate_mammalian",
		"vertebrate_other",
		"viral",
	},
	SectionRefSeq: {
		"archaea",
		"bacteria",
		"fungi",
		"invertebrate",
		"other",
		"plant",
		"protozoa",
		"vertebrate_mammalian",
		"vertebrate_other",
		"viral",
	},
}
