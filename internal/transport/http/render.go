package http

import (
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/cwrk-planet/guestbook/internal/domain"
	"github.com/cwrk-planet/guestbook/internal/service"
)

//go:embed templates/*.html static/*
var assets embed.FS

const (
	// DateLayout renders created_at as e.g. "September 4, 2025, 3:15 pm".
	DateLayout = "January 2, 2006, 3:04 pm"

	nameMaxLength = 100
)

var lineBreaks = strings.NewReplacer(
	"\r\n", "<br />\r\n",
	"\n", "<br />\n",
	"\r", "<br />\r",
)

// MessageBody escapes text for HTML and then turns its line breaks into <br />.
func MessageBody(text string) template.HTML {
	return template.HTML(lineBreaks.Replace(template.HTMLEscapeString(text)))
}

type banner struct {
	Class string
	Icon  string
	Text  string
}

type messageView struct {
	Name string
	Body template.HTML
	Date string
}

type pageData struct {
	Title         string
	Banner        *banner
	NameMaxLength int
	Count         int
	Messages      []messageView
}

type Renderer struct {
	tmpl  *template.Template
	loc   *time.Location
	title string
}

func NewRenderer(title string, loc *time.Location) (*Renderer, error) {
	tmpl, err := template.ParseFS(assets, "templates/index.html")
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{tmpl: tmpl, loc: loc, title: title}, nil
}

// Render writes the full page for one request.
func (r *Renderer) Render(w io.Writer, res service.Result, msgs []domain.Message) error {
	data := pageData{
		Title:         r.title,
		NameMaxLength: nameMaxLength,
		Count:         len(msgs),
		Messages:      make([]messageView, 0, len(msgs)),
	}

	switch {
	case res.Kind == service.ResultSaved:
		data.Banner = &banner{Class: "alert-success", Icon: "✓", Text: res.Text()}
	case res.IsError():
		data.Banner = &banner{Class: "alert-error", Icon: "✗", Text: res.Text()}
	}

	for _, m := range msgs {
		data.Messages = append(data.Messages, messageView{
			Name: m.Name,
			Body: MessageBody(m.Text),
			Date: m.CreatedAt.In(r.loc).Format(DateLayout),
		})
	}

	return r.tmpl.Execute(w, data)
}
