package publish

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"sitebuilder/internal/domain"
)

// Content is the decoded payload of a component. A bare JSON string is
// exposed as the "text" key.
type Content map[string]any

// DecodeContent decodes a component's opaque payload.
func DecodeContent(raw json.RawMessage) (Content, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Content{}, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	switch t := v.(type) {
	case map[string]any:
		return Content(t), nil
	case string:
		return Content{"text": t}, nil
	default:
		return nil, fmt.Errorf("decode content: unsupported payload %T", v)
	}
}

// String returns the string under key, or "".
func (c Content) String(key string) string {
	s, _ := c[key].(string)
	return s
}

type templateRenderer struct {
	typ  domain.ComponentType
	tmpl *template.Template
}

// NewTemplateRenderer builds a renderer from an html/template body. The
// template receives .Component, .Content and .Site.
func NewTemplateRenderer(t domain.ComponentType, body string) (Renderer, error) {
	tmpl, err := template.New(string(t)).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", t, err)
	}
	return templateRenderer{typ: t, tmpl: tmpl}, nil
}

func (r templateRenderer) Type() domain.ComponentType { return r.typ }

func (r templateRenderer) Render(c domain.Component, site Site) (template.HTML, error) {
	content, err := DecodeContent(c.Content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := struct {
		Component domain.Component
		Content   Content
		Site      Site
	}{c, content, site}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

var builtinTemplates = map[domain.ComponentType]string{
	domain.ComponentTypeTextBlock: `<div class="text">{{.Content.String "text"}}</div>`,
	domain.ComponentTypeImage: `<img src="{{.Content.String "src"}}" alt="{{.Content.String "alt"}}">`,
	domain.ComponentTypeVideo: `<video src="{{.Content.String "src"}}" controls></video>`,
	domain.ComponentTypeCard: `<article class="card">` +
		`{{with .Content.String "image"}}<img src="{{.}}" alt="">{{end}}` +
		`<h3>{{.Content.String "title"}}</h3><p>{{.Content.String "body"}}</p></article>`,
	domain.ComponentTypeProjectCard: `<article class="project">` +
		`<h2>{{.Content.String "title"}}</h2><p>{{.Content.String "description"}}</p>` +
		`{{with .Content.String "link"}}<a href="{{.}}">View project</a>{{end}}</article>`,
	domain.ComponentTypeButton: `<a class="button" href="{{or (.Content.String "href") "#"}}">{{.Content.String "label"}}</a>`,
	domain.ComponentTypeNavBar: `<nav>{{range .Site.Links}}` +
		`<a href="{{.Href}}"{{if .Current}} aria-current="page"{{end}}>{{.Name}}</a>{{end}}</nav>`,
}

func builtinRenderers() []Renderer {
	out := make([]Renderer, 0, len(builtinTemplates))
	for t, body := range builtinTemplates {
		rn, err := NewTemplateRenderer(t, body)
		if err != nil {
			panic(err)
		}
		out = append(out, rn)
	}
	return out
}

type fallbackRenderer struct{}

func (fallbackRenderer) Type() domain.ComponentType { return "" }

func (fallbackRenderer) Render(c domain.Component, _ Site) (template.HTML, error) {
	return template.HTML(fmt.Sprintf(`<div class="unknown" data-type="%s"></div>`,
		template.HTMLEscapeString(string(c.Type)))), nil
}
