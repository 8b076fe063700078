package publish

import (
	"bytes"
	"fmt"
	"html/template"

	"sitebuilder/internal/compose"
	"sitebuilder/internal/domain"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}{{with .Page}} | {{.}}{{end}}</title>
<style>
body{margin:0;font-family:system-ui,sans-serif}
.canvas{position:relative;margin:0 auto}
.canvas>.box{position:absolute;box-sizing:border-box}
.flow{position:relative;margin:0 auto}
.row{display:flex;align-items:flex-start}
.row>.box{flex:none;box-sizing:border-box}
.full{width:100%!important}
img,video{width:100%;height:100%;object-fit:cover}
</style>
</head>
<body>
<main>
<section class="canvas" style="{{.CanvasStyle}}">
{{- range .Absolute}}
<div class="box{{if .Full}} full{{end}}" id="{{.ID}}" data-type="{{.Type}}" style="{{.Style}}">{{.HTML}}</div>
{{- end}}
</section>
<section class="flow" style="{{.FlowStyle}}">
{{- range .Rows}}
<div class="row" style="{{.Style}}">
{{- range .Boxes}}
<div class="box{{if .Full}} full{{end}}" id="{{.ID}}" data-type="{{.Type}}" style="{{.Style}}">{{.HTML}}</div>
{{- end}}
</div>
{{- end}}
</section>
</main>
</body>
</html>
`))

type box struct {
	ID    string
	Type  domain.ComponentType
	Full  bool
	Style template.CSS
	HTML  template.HTML
}

type row struct {
	Style template.CSS
	Boxes []box
}

type pageView struct {
	Title       string
	Page        string
	CanvasStyle template.CSS
	FlowStyle   template.CSS
	Absolute    []box
	Rows        []row
}

func isFullWidth(c domain.Component) bool {
	return c.Size.Width >= domain.FullWidth
}

// RenderPage renders the page at index of pages as a standalone HTML
// document.
func (p *Publisher) RenderPage(d *domain.Draft, pages []domain.Page, index int) ([]byte, error) {
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page %d: %w", index, domain.ErrNotFound)
	}
	page := pages[index]
	site := siteFor(d, pages, index)
	layout := compose.Compose(page.Components)

	view := pageView{
		Title:     d.Name,
		Page:      page.Name,
		FlowStyle: template.CSS(fmt.Sprintf("width:%gpx", layout.Width)),
	}

	absBottom := compose.LowestY(layout.Absolute)
	view.CanvasStyle = template.CSS(fmt.Sprintf("width:%gpx;height:%gpx", layout.Width, absBottom))
	for _, c := range layout.Absolute {
		html, err := p.registry.Render(c, site)
		if err != nil {
			return nil, err
		}
		b := box{ID: c.ID, Type: c.Type, Full: isFullWidth(c), HTML: html}
		if b.Full {
			b.Style = template.CSS(fmt.Sprintf("left:0;top:%gpx;height:%gpx", c.Position.Y, c.Size.Height))
		} else {
			b.Style = template.CSS(fmt.Sprintf("left:%gpx;top:%gpx;width:%gpx;height:%gpx",
				c.Position.X, c.Position.Y, c.Size.Width, c.Size.Height))
		}
		view.Absolute = append(view.Absolute, b)
	}

	// Flowed rows start where the absolute canvas ends.
	for i, r := range layout.Rows {
		margin := r.TopMargin
		if i == 0 {
			margin = r.Top - absBottom
		}
		out := row{Style: template.CSS(fmt.Sprintf("margin-top:%gpx", margin))}
		var x float64
		for _, c := range r.Components {
			html, err := p.registry.Render(c, site)
			if err != nil {
				return nil, err
			}
			b := box{ID: c.ID, Type: c.Type, Full: isFullWidth(c), HTML: html}
			if b.Full {
				b.Style = template.CSS(fmt.Sprintf("height:%gpx", c.Size.Height))
			} else {
				b.Style = template.CSS(fmt.Sprintf("margin-left:%gpx;width:%gpx;height:%gpx",
					c.Position.X-x, c.Size.Width, c.Size.Height))
				x = c.Right()
			}
			out.Boxes = append(out.Boxes, b)
		}
		view.Rows = append(view.Rows, out)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render page %q: %w", page.Name, err)
	}
	return buf.Bytes(), nil
}
