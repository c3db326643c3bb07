package docs

import (
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/canvasspace/canvasaem/internal/httputil"
)

//go:embed openapi.yaml
var specYAML []byte

const (
	specPath    = "/api/docs/openapi.yaml"
	rendererURL = "https://cdn.jsdelivr.net/npm/@scalar/api-reference"
	rendererCDN = "https://cdn.jsdelivr.net"
)

func HandleSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(specYAML)
}

type docsData struct {
	Nonce       string
	SpecPath    string
	RendererURL string
}

// HandleDocs serves the interactive reference for the gate and lead APIs.
// The renderer injects its own styles, so only style-src stays inline.
func HandleDocs(w http.ResponseWriter, r *http.Request) {
	nonce := httputil.NonceFromContext(r.Context())
	if nonce == "" {
		r, nonce = httputil.WithNonce(r)
	}

	w.Header().Set("Content-Security-Policy", fmt.Sprintf(
		"default-src 'self'; script-src 'self' %[1]s 'nonce-%[2]s'; style-src 'self' %[1]s 'unsafe-inline'; "+
			"font-src 'self' %[1]s data:; img-src 'self' data:; connect-src 'self'; frame-ancestors 'none';",
		rendererCDN, nonce,
	))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := docsTemplate.Execute(w, docsData{
		Nonce:       nonce,
		SpecPath:    specPath,
		RendererURL: rendererURL,
	}); err != nil {
		log.Printf("docs: failed to render reference page: %v", err)
	}
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <meta name="robots" content="noindex">
    <title>Canvas AEM API Reference</title>
</head>
<body>
    <noscript>
        <p>The reference needs JavaScript. The raw document is at <a href="{{.SpecPath}}">{{.SpecPath}}</a>.</p>
    </noscript>
    <script nonce="{{.Nonce}}" id="api-reference" data-url="{{.SpecPath}}" data-configuration='{"hideDownloadButton":false,"defaultOpenAllTags":true}'></script>
    <script nonce="{{.Nonce}}" src="{{.RendererURL}}"></script>
</body>
</html>
`))
