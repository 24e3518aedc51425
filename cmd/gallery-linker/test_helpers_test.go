package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

type cliTestEnv struct {
	server     *stubStash
	configPath string
	baseDir    string
}

// stubStash answers the GraphQL operations the commands issue, keyed on
// operation name.
type stubStash struct {
	t *testing.T

	Galleries  []map[string]any
	Scenes     []map[string]any
	Performers []map[string]any

	// Mutations collects the operation names of every mutating call.
	Mutations []string

	server *httptest.Server
}

var operationName = regexp.MustCompile(`(?:query|mutation)\s+(\w+)`)

func newStubStash(t *testing.T) *stubStash {
	t.Helper()
	stub := &stubStash{t: t}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *stubStash) URL() string {
	return s.server.URL
}

func (s *stubStash) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.t.Errorf("decode request: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	match := operationName.FindStringSubmatch(req.Query)
	if match == nil {
		s.t.Errorf("unrecognized query: %s", req.Query)
		http.Error(w, "bad query", http.StatusBadRequest)
		return
	}

	var data any
	switch op := match[1]; op {
	case "Version":
		data = map[string]any{"version": map[string]any{"version": "0.28.0"}}
	case "FindGalleries":
		data = map[string]any{"findGalleries": map[string]any{
			"count": len(s.Galleries), "galleries": emptySlice(s.Galleries),
		}}
	case "FindGallery":
		id, _ := req.Variables["id"].(string)
		data = map[string]any{"findGallery": s.find(s.Galleries, id)}
	case "FindScenes":
		data = map[string]any{"findScenes": map[string]any{
			"count": len(s.Scenes), "scenes": emptySlice(s.Scenes),
		}}
	case "FindScene":
		id, _ := req.Variables["id"].(string)
		data = map[string]any{"findScene": s.find(s.Scenes, id)}
	case "FindPerformers":
		data = map[string]any{"findPerformers": map[string]any{
			"count": len(s.Performers), "performers": emptySlice(s.Performers),
		}}
	case "FindTags":
		data = map[string]any{"findTags": map[string]any{"count": 0, "tags": []any{}}}
	case "PerformerCreate":
		s.Mutations = append(s.Mutations, op)
		data = map[string]any{"performerCreate": map[string]any{
			"id": "created-1", "name": "Created", "alias_list": []any{}, "tags": []any{},
		}}
	case "TagCreate":
		s.Mutations = append(s.Mutations, op)
		data = map[string]any{"tagCreate": map[string]any{"id": "tag-1", "name": "Created"}}
	case "GalleryUpdate":
		s.Mutations = append(s.Mutations, op)
		data = map[string]any{"galleryUpdate": map[string]any{"id": "updated"}}
	case "SceneUpdate":
		s.Mutations = append(s.Mutations, op)
		data = map[string]any{"sceneUpdate": map[string]any{"id": "updated"}}
	default:
		s.t.Errorf("unexpected operation %q", op)
		http.Error(w, "unexpected operation", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (s *stubStash) find(entities []map[string]any, id string) map[string]any {
	for _, entity := range entities {
		if entity["id"] == id {
			return entity
		}
	}
	return nil
}

func emptySlice(entities []map[string]any) []map[string]any {
	if entities == nil {
		return []map[string]any{}
	}
	return entities
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	stub := newStubStash(t)

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[stash]
url = %q

[history]
enabled = true
path = %q

[paths]
log_dir = %q

[logging]
level = "error"
`, stub.URL(), filepath.Join(base, "history.db"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	return &cliTestEnv{server: stub, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
