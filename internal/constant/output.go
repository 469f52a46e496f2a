package constant

const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	DefaultFormat = FormatHTML
	DefaultTopN   = 5
)

var Formats = []string{
	FormatHTML,
	FormatJSON,
	FormatCSV,
	FormatXLSX,
}

var FormatContentTypes = map[string]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatJSON: "application/json",
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}
