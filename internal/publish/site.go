package publish

import (
	"regexp"
	"strconv"
	"strings"

	"sitebuilder/internal/domain"
)

// IndexFile is the file name of a site's first page.
const IndexFile = "index.html"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a page name into a URL path segment.
func Slug(name string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "page"
	}
	return s
}

// Link is one navigation entry of a published site.
type Link struct {
	Name    string
	Slug    string
	Href    string
	Current bool
}

// Site is what renderers know about the site around the page they render.
type Site struct {
	Title string
	Links []Link
}

// Links returns one link per page. The first page is served as index.html;
// the others get a unique slug derived from their name.
func Links(pages []domain.Page) []Link {
	used := map[string]bool{"index": true}
	links := make([]Link, len(pages))
	for i, p := range pages {
		if i == 0 {
			links[i] = Link{Name: p.Name, Slug: "", Href: IndexFile}
			continue
		}
		base := Slug(p.Name)
		slug := base
		for n := 2; used[slug]; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		used[slug] = true
		links[i] = Link{Name: p.Name, Slug: slug, Href: slug + ".html"}
	}
	return links
}

// siteFor builds the site context for the page at current.
func siteFor(d *domain.Draft, pages []domain.Page, current int) Site {
	links := Links(pages)
	for i := range links {
		links[i].Current = i == current
	}
	return Site{Title: d.Name, Links: links}
}
