package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"

	"evalgo.org/flightasset/internal/config"
	"evalgo.org/flightasset/models"
)

const apiPrefix = "/api/v1"

type fakeKind struct {
	path   string
	scoped string
	toOne  map[string]string
	toMany map[string]fakeMany
}

// fakeMany is a to-many relationship computed from the inverse to-one.
type fakeMany struct {
	typ string
	via string
}

var fakeKinds = map[string]fakeKind{
	"assets": {
		path:   "assets",
		scoped: "assets",
		toOne: map[string]string{
			"asset_group":      "assetGroups",
			"parent_container": "assetContainers",
			"component":        "components",
		},
	},
	"assetGroups": {
		path:   "asset-groups",
		scoped: "asset_groups",
		toOne: map[string]string{
			"asset_group_category": "assetGroupCategories",
			"component":            "components",
		},
		toMany: map[string]fakeMany{"assets": {typ: "assets", via: "asset_group"}},
	},
	"assetGroupCategories": {
		path:   "asset-group-categories",
		toMany: map[string]fakeMany{"asset_groups": {typ: "assetGroups", via: "asset_group_category"}},
	},
	"assetContainers": {
		path:   "asset-containers",
		scoped: "asset_containers",
		toOne: map[string]string{
			"parent_container": "assetContainers",
			"component":        "components",
		},
		toMany: map[string]fakeMany{
			"child_containers": {typ: "assetContainers", via: "parent_container"},
			"assets":           {typ: "assets", via: "parent_container"},
		},
	},
	"components": {path: "components"},
}

type fakeRecord struct {
	typ   string
	id    string
	attrs map[string]any
	rels  map[string]string
}

type fakeRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// fakeInventory is an in-memory asset API. It stores every field under its
// snake_case name and answers with snake_case documents.
type fakeInventory struct {
	*httptest.Server
	t *testing.T

	mu       sync.Mutex
	records  []*fakeRecord
	seq      int
	requests []fakeRequest
}

func newFakeInventory(t *testing.T) *fakeInventory {
	t.Helper()
	f := &fakeInventory{t: t}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	f.add("components", "c1", map[string]any{"name": "cluster"}, nil)
	return f
}

// add seeds a record. rels maps snake relationship names to target ids;
// component scoped records belong to c1 unless told otherwise.
func (f *fakeInventory) add(typ, id string, attrs map[string]any, rels map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if attrs == nil {
		attrs = map[string]any{}
	}
	if rels == nil {
		rels = map[string]string{}
	}
	if _, scoped := fakeKinds[typ].toOne["component"]; scoped && rels["component"] == "" {
		rels["component"] = "c1"
	}
	f.records = append(f.records, &fakeRecord{typ: typ, id: id, attrs: attrs, rels: rels})
}

func (f *fakeInventory) get(typ, id string) *fakeRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(typ, id)
}

func (f *fakeInventory) named(typ, name string) *fakeRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.typ == typ && rec.attrs["name"] == name {
			return rec
		}
	}
	return nil
}

func (f *fakeInventory) writes() []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeRequest
	for _, r := range f.requests {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeInventory) recorded() []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeRequest(nil), f.requests...)
}

func (f *fakeInventory) find(typ, id string) *fakeRecord {
	for _, rec := range f.records {
		if rec.typ == typ && rec.id == id {
			return rec
		}
	}
	return nil
}

func (f *fakeInventory) kindByPath(path string) (string, bool) {
	for typ, k := range fakeKinds {
		if k.path == path {
			return typ, true
		}
	}
	return "", false
}

func (f *fakeInventory) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, fakeRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body})

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, apiPrefix), "/"), "/")
	switch {
	case len(parts) == 3 && parts[0] == "components" && r.Method == http.MethodGet:
		for typ, k := range fakeKinds {
			if k.scoped == parts[2] {
				f.collection(w, r, f.filter(typ, "component", parts[1]))
				return
			}
		}
	case len(parts) == 1:
		typ, ok := f.kindByPath(parts[0])
		if !ok {
			break
		}
		switch r.Method {
		case http.MethodGet:
			f.collection(w, r, f.filter(typ, "", ""))
			return
		case http.MethodPost:
			f.create(w, r, typ, body)
			return
		}
	case len(parts) == 2:
		typ, ok := f.kindByPath(parts[0])
		rec := f.find(typ, parts[1])
		if !ok || rec == nil {
			break
		}
		switch r.Method {
		case http.MethodGet:
			f.single(w, r, rec, http.StatusOK)
			return
		case http.MethodPatch:
			f.update(w, r, rec, body)
			return
		}
	case len(parts) == 4 && parts[2] == "relationships" && r.Method == http.MethodPatch:
		typ, _ := f.kindByPath(parts[0])
		if rec := f.find(typ, parts[1]); rec != nil {
			var linkage struct {
				Data *models.Identifier `json:"data"`
			}
			if err := json.Unmarshal(body, &linkage); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			f.link(rec, parts[3], linkage.Data)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	case len(parts) == 3 && r.Method == http.MethodGet:
		typ, _ := f.kindByPath(parts[0])
		rec := f.find(typ, parts[1])
		if rec == nil {
			break
		}
		k := fakeKinds[typ]
		if target, ok := k.toOne[parts[2]]; ok {
			if id, set := rec.rels[parts[2]]; set {
				f.single(w, r, f.find(target, id), http.StatusOK)
			} else {
				f.write(w, http.StatusOK, map[string]any{"data": nil})
			}
			return
		}
		if many, ok := k.toMany[parts[2]]; ok {
			f.collection(w, r, f.filter(many.typ, many.via, rec.id))
			return
		}
	}

	f.write(w, http.StatusNotFound, map[string]any{
		"errors": []map[string]any{{"status": "404", "title": "Not Found"}},
	})
}

func (f *fakeInventory) filter(typ, rel, id string) []*fakeRecord {
	var out []*fakeRecord
	for _, rec := range f.records {
		if rec.typ != typ {
			continue
		}
		if rel != "" && rec.rels[rel] != id {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (f *fakeInventory) collection(w http.ResponseWriter, r *http.Request, records []*fakeRecord) {
	if name := r.URL.Query().Get("filter[name]"); name != "" {
		var matched []*fakeRecord
		for _, rec := range records {
			if rec.attrs["name"] == name {
				matched = append(matched, rec)
			}
		}
		records = matched
	}

	data := make([]any, 0, len(records))
	for _, rec := range records {
		data = append(data, f.render(rec))
	}
	f.write(w, http.StatusOK, map[string]any{
		"data":     data,
		"included": f.included(r, records),
		"links":    map[string]any{"self": r.URL.RequestURI()},
	})
}

func (f *fakeInventory) single(w http.ResponseWriter, r *http.Request, rec *fakeRecord, status int) {
	f.write(w, status, map[string]any{
		"data":     f.render(rec),
		"included": f.included(r, []*fakeRecord{rec}),
	})
}

func (f *fakeInventory) included(r *http.Request, records []*fakeRecord) []any {
	include := map[string]bool{}
	for _, name := range strings.Split(r.URL.Query().Get("include"), ",") {
		if name != "" {
			include[strcase.ToSnake(name)] = true
		}
	}

	seen := map[string]bool{}
	out := []any{}
	for _, rec := range records {
		k := fakeKinds[rec.typ]
		names := make([]string, 0, len(rec.rels))
		for name := range rec.rels {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			target := f.find(k.toOne[name], rec.rels[name])
			if !include[name] || target == nil || seen[target.typ+"/"+target.id] {
				continue
			}
			seen[target.typ+"/"+target.id] = true
			out = append(out, f.render(target))
		}
	}
	return out
}

func (f *fakeInventory) render(rec *fakeRecord) map[string]any {
	k := fakeKinds[rec.typ]
	self := fmt.Sprintf("%s/%s/%s", apiPrefix, k.path, rec.id)

	rels := map[string]any{}
	links := func(name string) map[string]any {
		return map[string]any{
			"self":    self + "/relationships/" + name,
			"related": self + "/" + name,
		}
	}
	for name, target := range k.toOne {
		var data any
		if id, ok := rec.rels[name]; ok {
			data = map[string]any{"type": target, "id": id}
		}
		rels[name] = map[string]any{"data": data, "links": links(name)}
	}
	for name := range k.toMany {
		rels[name] = map[string]any{"links": links(name)}
	}

	return map[string]any{
		"type":          rec.typ,
		"id":            rec.id,
		"attributes":    rec.attrs,
		"relationships": rels,
		"links":         map[string]any{"self": self},
	}
}

type fakeDocument struct {
	Data struct {
		Attributes    map[string]any `json:"attributes"`
		Relationships map[string]struct {
			Data *models.Identifier `json:"data"`
		} `json:"relationships"`
	} `json:"data"`
}

func (f *fakeInventory) create(w http.ResponseWriter, r *http.Request, typ string, body []byte) {
	var doc fakeDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.seq++
	rec := &fakeRecord{typ: typ, id: fmt.Sprintf("new-%d", f.seq), attrs: map[string]any{}, rels: map[string]string{}}
	f.apply(rec, doc)
	f.records = append(f.records, rec)
	f.single(w, r, rec, http.StatusCreated)
}

func (f *fakeInventory) update(w http.ResponseWriter, r *http.Request, rec *fakeRecord, body []byte) {
	var doc fakeDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.apply(rec, doc)
	f.single(w, r, rec, http.StatusOK)
}

func (f *fakeInventory) apply(rec *fakeRecord, doc fakeDocument) {
	for key, value := range doc.Data.Attributes {
		if value == nil {
			delete(rec.attrs, strcase.ToSnake(key))
			continue
		}
		rec.attrs[strcase.ToSnake(key)] = value
	}
	for key, rel := range doc.Data.Relationships {
		f.link(rec, strcase.ToSnake(key), rel.Data)
	}
}

func (f *fakeInventory) link(rec *fakeRecord, name string, id *models.Identifier) {
	name = strcase.ToSnake(name)
	if id == nil {
		delete(rec.rels, name)
		return
	}
	rec.rels[name] = id.ID
}

func (f *fakeInventory) write(w http.ResponseWriter, status int, doc any) {
	w.Header().Set("Content-Type", models.MediaType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		f.t.Errorf("encode response: %v", err)
	}
}

type testApp struct {
	*App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, f *fakeInventory) *testApp {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	baseURL := "http://127.0.0.1:1"
	if f != nil {
		baseURL = f.URL
	}
	app := &App{
		FS:     afero.NewMemMapFs(),
		Stdout: stdout,
		Stderr: stderr,
		Config: &config.Config{
			BaseURL:              baseURL,
			APIPrefix:            apiPrefix,
			JWT:                  "test-token",
			ComponentID:          "c1",
			PageSize:             50,
			CreateDummyGroupName: "ignore-me",
			AppName:              "flight-asset",
			CredentialsPath:      "/home/user/.config/flight/asset/credentials.yaml",
			Logging:              config.LoggingConfig{Level: "off", Format: "text"},
		},
		Logger: hclog.NewNullLogger(),
	}
	return &testApp{App: app, stdout: stdout, stderr: stderr}
}

func (a *testApp) run(args ...string) error {
	a.stdout.Reset()
	a.stderr.Reset()
	cmd := NewRootCommand(a.App)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func (a *testApp) lines() []string {
	out := strings.TrimRight(a.stdout.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// signedTestToken is a well-formed token, so a 404 is taken at face value
// rather than as a credentials problem.
func signedTestToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
