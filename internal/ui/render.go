package ui

import (
	"bytes"
	"html/template"

	"style-finder/internal/analysis"
	"style-finder/internal/shared/telemetry"
)

const ErrorMessage = "An error occurred during analysis. Please check the logs and ensure the analysis service is running."

const resultTemplate = `<div class="analysis-details">
  <h3>Outfit Analysis</h3>
  <p><strong>Description:</strong> {{clean .Analysis.Description}}</p>
  <p><strong>Color Tones:</strong> {{clean .Analysis.ColorTones}}</p>
  <p><strong>Core Apparel:</strong> {{clean .Analysis.CoreApparel}}</p>
  <p><strong>Accessories:</strong> {{clean .Analysis.Accessories}}</p>
</div>
<div class="fashion-tips">
  <h3>Fashion Tips</h3>
  <p>{{range $i, $line := lines (clean .FashionTips)}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
</div>
<div class="suggested-items">
  <h3>Suggested Items from Nordstrom</h3>
  <div class="suggested-items-grid">
{{- range .SuggestedItems}}
    <div class="item-card">
      <img src="{{.ImageURL}}" alt="{{clean .Name}}">
      <div class="item-card-content">
        <h4>{{clean .Name}}</h4>
        <p>{{clean .Description}}</p>
        <a href="{{.ProductURL}}" target="_blank" rel="noopener noreferrer">View Product</a>
      </div>
    </div>
{{- end}}
  </div>
</div>
`

const errorTemplate = `<p class="analysis-error">{{.}}</p>
`

var (
	funcs = template.FuncMap{
		"clean": plainText,
		"lines": lines,
	}
	resultTmpl = template.Must(template.New("result").Funcs(funcs).Parse(resultTemplate))
	errorTmpl  = template.Must(template.New("error").Parse(errorTemplate))
)

// RenderResult renders res as the results fragment: the analysis fields, the
// tips block and one card per suggested item in order.
func RenderResult(res analysis.Result) template.HTML {
	var buf bytes.Buffer
	if err := resultTmpl.Execute(&buf, res); err != nil {
		telemetry.Error("render.result_failed", map[string]any{"err": err.Error()})
		return RenderError()
	}
	return template.HTML(buf.String())
}

// RenderError renders the single static failure message.
func RenderError() template.HTML {
	var buf bytes.Buffer
	if err := errorTmpl.Execute(&buf, ErrorMessage); err != nil {
		return template.HTML(template.HTMLEscapeString(ErrorMessage))
	}
	return template.HTML(buf.String())
}
