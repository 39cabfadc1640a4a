package ingest

// defaultStopwords are filler words of English and Ukrainian task
// statements. Keywords, numbers and the pronouns used for angle
// disambiguation are not listed.
var defaultStopwords = []string{
	"the", "an", "of", "is", "are", "be", "and", "in", "on", "at", "to",
	"from", "by", "with", "its", "if", "that", "this", "equal", "equals",
	"rectangle", "rectangle's", "degrees", "degree", "cm", "point",
	"forms", "form", "makes", "between", "one",
	"якщо", "його", "її", "дорівнює", "дорівнюють", "прямокутник",
	"прямокутника", "прямокутнику", "см", "градусів", "між", "від", "до",
	"та", "що", "точки", "точка", "утворює", "зі", "із", "як",
}

// DefaultStopwords returns a copy of the built-in stopword list.
func DefaultStopwords() []string {
	return append([]string(nil), defaultStopwords...)
}
