// internal/workers/guidance/notify-report-ready/messages.go
package notifyreportready

import (
	"bytes"
	"strings"
	"text/template"
)

var messages = template.Must(template.New("messages").Funcs(template.FuncMap{
	"first": firstName,
}).Parse(`
{{define "subject"}}Your career report is ready{{end}}

{{define "email"}}Hi {{first .Name}},

Your career guidance report is ready.
{{- if .Clusters}}

Your strongest career clusters:
{{- range .Clusters}}
- {{.}}
{{- end}}
{{- end}}

Read the full report: {{.Link}}
{{end}}

{{define "sms"}}Hi {{first .Name}}, your career report is ready: {{.Link}}{{end}}
`))

type messageData struct {
	Name     string
	Clusters []string
	Link     string
}

func render(name string, data messageData) (string, error) {
	var buf bytes.Buffer
	if err := messages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
