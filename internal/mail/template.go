package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/travel-deals/backend/internal/domain"
)

var newDealTmpl = template.Must(template.New("new_deal").Parse(`<!DOCTYPE html>
<html>
<body>
  <h1>{{.Title}}</h1>
  <p><strong>{{.Destination}}</strong> &middot; {{.Category}} &middot; {{.Days}} days &middot; {{printf "%.2f" .Price}}</p>
  {{- if .Date}}
  <p>Departs {{.Date.Format "2 January 2006"}}{{if .SeatsAvailable}}, {{.SeatsAvailable}} seats available{{end}}</p>
  {{- end}}
  <p>{{.Description}}</p>
  {{- if .Features}}
  <ul>{{range .Features}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
  {{- range .Images}}
  <img src="{{.}}" alt="" width="320">
  {{- end}}
  <p>Slug: {{.Slug}}</p>
</body>
</html>`))

// NewDealEmail renders the announcement sent when a deal is published.
// All deal text is HTML-escaped by html/template.
func NewDealEmail(to string, d domain.Deal) (Message, error) {
	var buf bytes.Buffer
	if err := newDealTmpl.Execute(&buf, d); err != nil {
		return Message{}, fmt.Errorf("mail.NewDealEmail: %w", err)
	}
	return Message{
		To:      to,
		Subject: "New deal: " + d.Title,
		HTML:    buf.String(),
	}, nil
}
