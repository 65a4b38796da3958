package dashboard

import (
	"embed"
	"html/template"
	"net/url"
	"slices"

	"WatchBoard/internal/analytics"
	"WatchBoard/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var navLinks = []string{"PORTFOLIO", "EXPLORE", "MARKETPLACE", "NEWS"}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type column struct {
	Label string
	// Href is empty for columns that do not sort.
	Href   string
	Active bool
	Desc   bool
}

type page struct {
	Brand      string
	Nav        []string
	Account    string
	Timeframe  model.Timeframe
	Timeframes []option
	Categories []option
	Badge      string
	Columns    []column
	Rows       []Row
}

var tableColumns = []struct {
	label string
	field analytics.Field
}{
	{"Watch", ""},
	{"Model", ""},
	{"Reference", ""},
	{"Market Value", analytics.FieldMarketValue},
	{"Low", analytics.FieldLow},
	{"High", analytics.FieldHigh},
	{"Change", analytics.FieldChange},
	{"Percent", analytics.FieldPercent},
	{"Chart", ""},
}

func newPage(tq tableQuery, rows []Row) *page {
	p := &page{
		Brand:     "WATCHES.IO",
		Nav:       navLinks,
		Account:   "ACCOUNT",
		Timeframe: tq.Timeframe,
		Rows:      rows,
	}
	for _, tf := range model.Timeframes() {
		p.Timeframes = append(p.Timeframes, option{Value: string(tf), Label: tf.Label(), Selected: tf == tq.Timeframe})
	}

	selected := tq.Categories
	if len(selected) == 0 {
		selected = []Category{CategoryAll}
	}
	n := 0
	for _, c := range categories {
		on := slices.Contains(selected, c)
		p.Categories = append(p.Categories, option{Value: string(c), Label: c.Label(), Selected: on})
		if on && c != CategoryAll {
			n++
		}
	}
	p.Badge = Badge(n)

	for _, tc := range tableColumns {
		col := column{Label: tc.label}
		if tc.field != "" {
			col.Active = tq.Sort == tc.field
			col.Desc = col.Active && tq.Desc
			col.Href = sortHref(tq, tc.field, !col.Active || !col.Desc)
		}
		p.Columns = append(p.Columns, col)
	}
	return p
}

// sortHref links to the table sorted by f, keeping timeframe and filters.
func sortHref(tq tableQuery, f analytics.Field, desc bool) string {
	q := url.Values{}
	q.Set("tf", string(tq.Timeframe))
	q.Set("sort", string(f))
	if desc {
		q.Set("order", "desc")
	} else {
		q.Set("order", "asc")
	}
	for _, c := range tq.Categories {
		q.Add("filter", string(c))
	}
	return "/?" + q.Encode()
}
