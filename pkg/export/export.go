// Package export generates the standalone, self-contained document for a
// dataset: the chart as inline SVG, the scored tasks per competency and the
// snapshot token, with no external resources.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/kittclouds/skillradar/pkg/aggregate"
	"github.com/kittclouds/skillradar/pkg/model"
	"github.com/kittclouds/skillradar/pkg/radar"
	"github.com/kittclouds/skillradar/pkg/snapshot"
)

// DefaultTitle heads documents without a configured title.
const DefaultTitle = "Skill overview"

// Options tune the generated document.
type Options struct {
	Title     string
	AutoPrint bool
	// ShareBase, when set, adds a link to the interactive read-only view.
	ShareBase string
	Width     float64
	Height    float64
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Title) == "" {
		o.Title = DefaultTitle
	}
	if o.Width <= 0 {
		o.Width = 640
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	return o
}

type page struct {
	Title     string
	Subject   string
	Chart     template.HTML
	Token     string
	ShareURL  string
	Empty     bool
	Details   []aggregate.Breakdown
	AutoPrint bool
	Level     func(float64) string
}

// Document renders the standalone HTML document for ds.
func Document(ds model.Dataset, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	token, err := snapshot.Encode(ds)
	if err != nil {
		return nil, err
	}

	view := ds.View()
	levels := aggregate.Levels(view)
	svg := radar.NewSVG(opts.Width, opts.Height)
	chart := &radar.Chart{Mode: radar.ReadOnly, Theme: radar.PrintTheme()}
	chart.Render(svg, levels)

	p := page{
		Title:     opts.Title,
		Subject:   ds.SubjectName,
		Chart:     template.HTML(svg.Bytes()),
		Token:     token,
		Empty:     len(levels) == 0,
		AutoPrint: opts.AutoPrint,
		Level:     radar.FormatLevel,
	}
	for _, lv := range levels {
		if b, ok := aggregate.Detail(view, lv.CompetencyID); ok {
			p.Details = append(p.Details, b)
		}
	}
	if opts.ShareBase != "" {
		if p.ShareURL, err = snapshot.ShareURL(opts.ShareBase, ds); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

var documentTemplate = template.Must(template.New("document").Parse(documentHTML))

// documentHTML is the self-contained page. The chart SVG is produced by the
// radar package; the snapshot token lets a viewer rebuild the dataset.
const documentHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}{{if .Subject}} – {{.Subject}}{{end}}</title>
<style>
* { box-sizing: border-box; }
body { font-family: system-ui, sans-serif; color: #1f1f28; margin: 2rem auto; max-width: 860px; padding: 0 1rem; }
h1 { font-size: 1.6rem; margin-bottom: 0.2rem; }
.subject { color: #5c5f77; margin-top: 0; }
.chart { display: flex; justify-content: center; margin: 1.5rem 0; }
.chart svg { max-width: 100%; height: auto; }
.competency { break-inside: avoid; margin-bottom: 1.2rem; }
.competency h2 { font-size: 1.1rem; margin-bottom: 0.3rem; }
.competency ul { margin: 0; padding-left: 1.2rem; }
.points { font-weight: 600; margin-left: 0.4rem; }
.description { display: block; color: #5c5f77; font-size: 0.9rem; }
.empty { color: #5c5f77; font-style: italic; }
footer { margin-top: 2rem; font-size: 0.8rem; color: #5c5f77; }
@media print { footer a { color: inherit; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Subject}}<p class="subject">{{.Subject}}</p>{{end}}
<div class="chart">{{.Chart}}</div>
{{if .Empty}}<p class="empty">No competencies recorded.</p>{{end}}
{{range .Details}}
<section class="competency" data-competency="{{.CompetencyID}}">
<h2>{{.Name}} — {{call $.Level .Level.Level}}</h2>
{{if .Tasks}}<ul>
{{range .Tasks}}<li>{{.Name}}<span class="points">{{.Score}} pt</span>{{if .Description}}<span class="description">{{.Description}}</span>{{end}}</li>
{{end}}</ul>{{else}}<p class="empty">No tasks have given points to this competency yet.</p>{{end}}
</section>
{{end}}
<footer>{{if .ShareURL}}<a href="{{.ShareURL}}">Open the interactive view</a>{{end}}</footer>
<script>
const snapshotToken = {{.Token}};
document.documentElement.dataset.snapshot = snapshotToken;
</script>
{{if .AutoPrint}}<script>
window.addEventListener("load", function () { setTimeout(function () { window.print(); }, 400); });
</script>{{end}}
</body>
</html>
`
