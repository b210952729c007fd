package templates

import (
	"bytes"
	"html/template"
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/jaolave/ml-challenge-frontend/internal/config"
)

func initForTest(t *testing.T) {
	t.Helper()
	cfg := &config.Config{
		Site:  config.SiteConfig{BaseURL: "https://storefront.example"},
		Mocks: config.MockConfig{Enable: true},
	}
	if err := Init(cfg, "/static/styles.css"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
}

func TestInitParsesAllTemplates(t *testing.T) {
	initForTest(t)
	for name, tmpl := range map[string]*template.Template{
		"product":  Product,
		"loading":  Loading,
		"error":    Error,
		"products": Products,
	} {
		if tmpl == nil {
			t.Fatalf("template %s not initialized", name)
		}
	}
}

func TestLoadingTemplateExecutes(t *testing.T) {
	initForTest(t)
	data := struct {
		ClarityScript   template.HTML
		RefreshInterval string
	}{RefreshInterval: "1"}

	var buf bytes.Buffer
	if err := Loading.Execute(&buf, data); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `http-equiv="refresh" content="1"`) {
		t.Fatalf("expected refresh meta tag, got: %s", out)
	}
	if !strings.Contains(out, "Cargando el producto") {
		t.Fatalf("expected loading text in output")
	}
}

func TestErrorTemplateExecutes(t *testing.T) {
	initForTest(t)
	data := struct {
		Detail        string
		ClarityScript template.HTML
	}{Detail: "no products available, the store might be empty"}

	var buf bytes.Buffer
	if err := Error.Execute(&buf, data); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No pudimos cargar la página") {
		t.Fatalf("expected error heading in output")
	}
	if !strings.Contains(out, "no products available") {
		t.Fatalf("expected error detail in output")
	}
	if !strings.Contains(out, `action="/reload"`) {
		t.Fatalf("expected reload form in output")
	}
}

var (
	scriptTagRE     = regexp.MustCompile(`(?is)<script\b([^>]*)>`)
	scriptSrcAttrRE = regexp.MustCompile(`(?i)\bsrc\s*=`)
	inlineHandlerRE = regexp.MustCompile(`(?is)\son[a-z]+\s*=`)
	javascriptURLRE = regexp.MustCompile(`(?i)javascript:`)
)

// The pages stay scriptless: all interaction goes through plain forms, so
// the templates themselves must not smuggle in inline JavaScript.
func TestTemplatesAvoidInlineJavaScript(t *testing.T) {
	entries, err := fs.ReadDir(htmlFiles, ".")
	if err != nil {
		t.Fatalf("failed to read embedded templates: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		content, err := fs.ReadFile(htmlFiles, entry.Name())
		if err != nil {
			t.Fatalf("failed to read template %s: %v", entry.Name(), err)
		}
		src := string(content)

		if inlineHandlerRE.MatchString(src) {
			t.Fatalf("template %s contains inline on* handlers", entry.Name())
		}
		if javascriptURLRE.MatchString(src) {
			t.Fatalf("template %s contains javascript: URL", entry.Name())
		}

		for _, match := range scriptTagRE.FindAllStringSubmatch(src, -1) {
			if len(match) < 2 {
				continue
			}
			if !scriptSrcAttrRE.MatchString(match[1]) {
				t.Fatalf("template %s contains inline <script> without src", entry.Name())
			}
		}
	}
}
