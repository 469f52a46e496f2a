package constant

// Column positions (0-based) in an assembly_summary.txt data line.
const (
	ColumnGroup          = 7
	ColumnSubmissionDate = 14

	// MinColumns is the number of columns a data line needs to carry both fields.
	MinColumns = ColumnSubmissionDate + 1

	CommentPrefix  = "#"
	FieldSeparator = "\t"
	DateSeparator  = "/"
)
