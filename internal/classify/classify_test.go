package classify

import (
	"net/url"
	"testing"

	"homeboard/offlinegate/internal/manifest"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	m, err := manifest.New([]string{"/", "/index.html", "/static/app.js"})
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	cl, err := New(m, "/static/", "http://app.local")
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}
	return cl
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestClassify(t *testing.T) {
	cl := newTestClassifier(t)

	tests := []struct {
		name   string
		method string
		url    string
		want   Class
	}{
		{"voice upload", "POST", "/api/speech", ClassUploadMutation},
		{"other mutation bypassed", "POST", "/api/todos", ClassBypass},
		{"delete bypassed", "DELETE", "/api/todos/3", ClassBypass},
		{"put bypassed", "PUT", "/api/events/7", ClassBypass},
		{"api read is network only", "GET", "/api/todos", ClassAPIRead},
		{"api read with query", "GET", "/api/notes?sort=title", ClassAPIRead},
		{"manifest asset", "GET", "/index.html", ClassStaticAsset},
		{"shell root", "GET", "/", ClassStaticAsset},
		{"static prefix", "GET", "/static/img/logo.png", ClassStaticAsset},
		{"navigation", "GET", "/about", ClassNavigation},
		{"cross-origin bypassed", "GET", "http://cdn.example.com/lib.js", ClassBypass},
		{"same-origin absolute", "GET", "http://app.local/static/app.js", ClassStaticAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cl.Classify(tt.method, mustParse(t, tt.url))
			if got != tt.want {
				t.Errorf("Classify(%s %s) = %v, want %v", tt.method, tt.url, got, tt.want)
			}
		})
	}
}

// The upload rule must win over the generic non-GET bypass.
func TestClassify_UploadBeforeNonGETBypass(t *testing.T) {
	cl := newTestClassifier(t)
	if got := cl.Classify("POST", mustParse(t, "/api/speech")); got != ClassUploadMutation {
		t.Fatalf("POST /api/speech = %v, want %v", got, ClassUploadMutation)
	}
}

// An /api/ path colliding with the manifest must still be network only.
func TestClassify_APIBeforeManifest(t *testing.T) {
	m, err := manifest.New([]string{"/", "/api/bootstrap.json"})
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	cl, err := New(m, "/static/", "http://app.local")
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}
	if got := cl.Classify("GET", mustParse(t, "/api/bootstrap.json")); got != ClassAPIRead {
		t.Fatalf("GET /api/bootstrap.json = %v, want %v", got, ClassAPIRead)
	}
}

func TestClassString(t *testing.T) {
	if ClassUploadMutation.String() != "api-mutation-upload" {
		t.Errorf("unexpected String: %s", ClassUploadMutation)
	}
	if ClassStaticAsset.String() != "static-asset" {
		t.Errorf("unexpected String: %s", ClassStaticAsset)
	}
}
