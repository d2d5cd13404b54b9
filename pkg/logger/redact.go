package logger

import (
	"io"
	"regexp"
	"strings"
)

// Redaction is the value PII fields are replaced with.
const Redaction = "***"

// DefaultPIIFields are the field names masked in log output by default.
var DefaultPIIFields = []string{"email", "password", "session_token", "reset_token"}

// FilterFields obfuscates the value of each named field in a
// separator-delimited key=value message:
//
//	FilterFields([]string{"email"}, "***", "name=bob;email=b@x.com;", ";")
//	→ "name=bob;email=***;"
func FilterFields(fields []string, redaction, message, separator string) string {
	for _, field := range fields {
		re := regexp.MustCompile(regexp.QuoteMeta(field) + "=.*?" + regexp.QuoteMeta(separator))
		message = re.ReplaceAllString(message, field+"="+redaction+separator)
	}
	return message
}

// RedactWriter masks the values of configured fields in every line written
// through it, both as structured JSON fields and as `field=value;` payloads
// embedded in message text. It sits between zerolog and the real output so
// PII never reaches a sink in plaintext.
type RedactWriter struct {
	out    io.Writer
	fields []string
	re     *regexp.Regexp
	repl   []byte
}

func NewRedactWriter(out io.Writer, fields []string) *RedactWriter {
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, regexp.QuoteMeta(f))
	}
	return &RedactWriter{
		out:    out,
		fields: fields,
		re:     regexp.MustCompile(`"(` + strings.Join(quoted, "|") + `)":"[^"]*"`),
		repl:   []byte(`"$1":"` + Redaction + `"`),
	}
}

// Write reports the original length so zerolog does not see a short write
// when redaction shrinks the line.
func (w *RedactWriter) Write(p []byte) (int, error) {
	masked := w.re.ReplaceAll(p, w.repl)
	masked = []byte(FilterFields(w.fields, Redaction, string(masked), ";"))
	if _, err := w.out.Write(masked); err != nil {
		return 0, err
	}
	return len(p), nil
}
