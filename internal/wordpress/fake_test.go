package wordpress

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
)

var operationName = regexp.MustCompile(`(?:query|mutation)\s+(\w+)`)

type recordedRequest struct {
	Operation     string
	Query         string
	Variables     map[string]any
	Authorization string
	ContentType   string
}

// fakeCMS is a WPGraphQL endpoint answering each operation with a canned body.
type fakeCMS struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	responses map[string][]string
	status    int
	requests  []recordedRequest
	gate      chan struct{}
}

func newFakeCMS(t *testing.T) *fakeCMS {
	t.Helper()
	f := &fakeCMS{t: t, responses: make(map[string][]string), status: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// respond queues bodies for operation; the last one keeps answering once
// the earlier ones are used up.
func (f *fakeCMS) respond(operation string, bodies ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[operation] = bodies
}

func (f *fakeCMS) fail(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// hold makes requests block until the returned channel is closed.
func (f *fakeCMS) hold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}

func (f *fakeCMS) calls(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Operation == operation {
			n++
		}
	}
	return n
}

func (f *fakeCMS) last(operation string) recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Operation == operation {
			return f.requests[i]
		}
	}
	f.t.Fatalf("no %s request recorded", operation)
	return recordedRequest{}
}

func (f *fakeCMS) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("decode request: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	op := ""
	if m := operationName.FindStringSubmatch(req.Query); m != nil {
		op = m[1]
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Operation:     op,
		Query:         req.Query,
		Variables:     req.Variables,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	})
	resp := ""
	if queue := f.responses[op]; len(queue) > 0 {
		resp = queue[0]
		if len(queue) > 1 {
			f.responses[op] = queue[1:]
		}
	}
	status, gate := f.status, f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	if resp == "" {
		resp = `{"data":null}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, resp)
}

func (f *fakeCMS) client(opts Options) *Client {
	opts.Endpoint = f.server.URL
	opts.HTTPClient = f.server.Client()
	return NewClient(opts)
}

func (f *fakeCMS) service(features Features) *Service {
	return NewService(f.client(Options{}), ServiceConfig{Features: features})
}

const hammerPostJSON = `{
  "id": "cG9zdDoxMDE=",
  "databaseId": 101,
  "slug": "hammer-pattern",
  "title": "نموذج المطرقة &#8211; دليل",
  "date": "2024-01-02T10:00:00",
  "modified": "2024-01-03T10:00:00",
  "content": "<h1 class=\"x\">مقدمة</h1>\n<p>نص عربي، مع كلمات.</p>",
  "excerpt": "<p>ملخص <strong>المقال</strong></p>",
  "status": "publish",
  "author": {"node": {"databaseId": 7, "name": "سارة", "slug": "sara", "description": "محللة فنية", "avatar": {"url": "https://img.test/sara.png"}}},
  "featuredImage": {"node": {"sourceUrl": "https://img.test/hammer.jpg", "altText": "", "mediaDetails": null}},
  "categories": {"nodes": [
    {"databaseId": 2, "slug": "basics", "name": "أساسيات", "parentDatabaseId": null},
    {"databaseId": 7, "slug": "patterns", "name": "أنماط", "parentDatabaseId": 2}
  ]},
  "tags": {"nodes": [{"databaseId": 30, "slug": "candles", "name": "شموع"}]}
}`

const dojiPostJSON = `{
  "id": "cG9zdDoxMDI=",
  "databaseId": 102,
  "slug": "doji",
  "title": "شمعة دوجي",
  "date": "2024-02-01T10:00:00",
  "modified": "2024-02-01T10:00:00",
  "content": "<p>دوجي</p>",
  "excerpt": "",
  "status": "publish",
  "author": null,
  "featuredImage": null,
  "categories": {"nodes": [{"databaseId": 7, "slug": "patterns", "name": "أنماط", "parentDatabaseId": 2}]},
  "tags": {"nodes": []}
}`

const legacyPostJSON = `{
  "id": "cG9zdDoxMDM=",
  "databaseId": 103,
  "slug": "old-post",
  "title": "قديم",
  "date": "2020-01-01T00:00:00",
  "modified": "2020-01-01T00:00:00",
  "content": "",
  "excerpt": "",
  "status": "publish",
  "author": null,
  "featuredImage": null,
  "categories": {"nodes": [{"databaseId": 1, "slug": "uncategorized", "name": "غير مصنف", "parentDatabaseId": null}]},
  "tags": {"nodes": []}
}`

func postsBody(hasNext bool, endCursor string, nodes ...string) string {
	next := "false"
	if hasNext {
		next = "true"
	}
	list := ""
	for i, n := range nodes {
		if i > 0 {
			list += ","
		}
		list += n
	}
	return `{"data":{"posts":{"pageInfo":{"hasNextPage":` + next + `,"endCursor":"` + endCursor + `"},"nodes":[` + list + `]}}}`
}
