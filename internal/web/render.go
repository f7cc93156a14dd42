package web

import (
	"embed"
	"html/template"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"eduportal/internal/portal"
	"eduportal/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const brand = "EduPortal"

type navLink struct {
	Href   string
	Label  string
	Active bool
}

var navItems = []navLink{
	{Href: "/", Label: "Home"},
	{Href: "/attendance", Label: "Attendance"},
	{Href: "/timetable", Label: "Timetable"},
	{Href: "/results", Label: "Results"},
	{Href: "/library", Label: "Library"},
	{Href: "/fees", Label: "Fees"},
	{Href: "/feedback", Label: "Feedback"},
}

// view is what every page template receives.
type view struct {
	Brand    string
	Title    string
	Nav      []navLink
	Identity *session.Identity
	Flash    flashes
	Year     int
	Data     any
}

func (s *Server) render(c *gin.Context, status int, name, title string, data any) {
	v := view{
		Brand: brand,
		Title: title,
		Flash: s.popFlashes(c),
		Year:  time.Now().Year(),
		Data:  data,
	}
	if id, ok := identityFrom(c); ok {
		v.Identity = &id
	}
	path := c.Request.URL.Path
	v.Nav = make([]navLink, len(navItems))
	for i, n := range navItems {
		n.Active = n.Href == path
		v.Nav[i] = n
	}
	c.HTML(status, name, v)
}

// money formats an amount in rupees with digit grouping.
func money(amount float64) string {
	p := message.NewPrinter(language.English)
	if amount == math.Trunc(amount) {
		return p.Sprintf("₹%d", int64(amount))
	}
	return p.Sprintf("₹%.2f", amount)
}

// title upper-cases the first letter of each word. Casers are not shareable
// between goroutines.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.Format("Jan 2, 2006")
	case *time.Time:
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("Jan 2, 2006")
	}
	return "-"
}

func gradeBadge(grade *string) *portal.Badge {
	b, ok := portal.GradeBadge(grade)
	if !ok {
		return nil
	}
	return &b
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"money": money,
		"date":  formatDate,
		"title": title,
		"grade": gradeBadge,
	}).ParseFS(templateFS, "templates/*.html")
}
