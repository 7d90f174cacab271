package preview

import (
	"fmt"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<title>Aperçu - {{.Title}}</title>
<style>
@page { size: A4; margin: 1cm; }
body { font-family: system-ui, -apple-system, sans-serif; line-height: 1.4; margin: 0; font-size: 10pt; }
.header { text-align: center; margin-bottom: 20px; padding-bottom: 10px; border-bottom: 1px solid #000; }
.header h1 { margin: 0; font-size: 16pt; }
.header p { margin: 5px 0 0; }
.poles-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 15px; }
.pole { break-inside: avoid; page-break-inside: avoid; border: 1px solid #e5e7eb; border-radius: 4px; }
.pole-header { background: #f3f4f6; padding: 8px; border-bottom: 1px solid #e5e7eb; }
.pole-info { display: flex; justify-content: space-between; align-items: center; }
.pole-info h3 { margin: 0; font-size: 12pt; }
.remarks { color: #666; font-size: 9pt; margin-top: 4px; }
.elements-container { padding: 8px; }
.elements-section { margin-bottom: 8px; }
.elements-section h4 { margin: 0 0 4px 0; font-size: 10pt; padding-bottom: 2px; border-bottom: 1px solid #e5e7eb; }
.element { margin: 2px 0; font-size: 9pt; }
.depose { color: #dc2626; }
.conserve { color: #2563eb; }
.pose { color: #16a34a; }
@media print { .pole-header { background-color: #f9fafb !important; -webkit-print-color-adjust: exact; } }
</style>
</head>
<body>
<div class="header">
<h1>{{.Title}}</h1>
<p>Créé le {{.CreatedOn}}</p>
</div>
<div class="poles-grid">
{{- range .Poles}}
<div class="pole">
<div class="pole-header">
<div class="pole-info"><h3>{{.Name}}</h3><div>{{.Spec}}</div></div>
{{- if .Remarks}}
<div class="remarks">{{.Remarks}}</div>
{{- end}}
</div>
<div class="elements-container">
{{- range .Sections}}
<div class="elements-section">
<h4 class="{{.Status}}">{{.Title}}</h4>
{{- if .Empty}}
<div class="element">` + Placeholder + `</div>
{{- else}}{{range .Lines}}
<div class="element">{{.}}</div>
{{- end}}{{end}}
</div>
{{- end}}
</div>
</div>
{{- end}}
</div>
</body>
</html>
`))

// RenderHTML writes the document as a standalone A4 page. User-entered text
// is escaped.
func RenderHTML(w io.Writer, doc Document) error {
	if err := pageTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	return nil
}
