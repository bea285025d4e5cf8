package bookmarks

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeGist serves a single Gist with an in-memory file map.
func fakeGist(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/gists/abc":
			out := map[string]map[string]map[string]string{"files": {}}
			for name, content := range files {
				out["files"][name] = map[string]string{"content": content}
			}
			_ = json.NewEncoder(w).Encode(out)

		case r.Method == http.MethodPatch && r.URL.Path == "/gists/abc":
			body, _ := io.ReadAll(r.Body)
			var payload struct {
				Files map[string]struct {
					Content string `json:"content"`
				} `json:"files"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			for name, f := range payload.Files {
				files[name] = f.Content
			}
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodPost && r.URL.Path == "/gists":
			var payload struct {
				Public bool `json:"public"`
				Files  map[string]struct {
					Content string `json:"content"`
				} `json:"files"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Public {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			files["created:"+Filename] = payload.Files[Filename].Content
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": "new-gist"}`))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNewGistBackend_Validation(t *testing.T) {
	if _, err := NewGistBackend("", "token"); err == nil {
		t.Error("expected error for empty gist ID")
	}
	if _, err := NewGistBackend("abc", ""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestGistBackend_RoundTrip(t *testing.T) {
	files := map[string]string{}
	server := fakeGist(t, files)
	defer server.Close()

	backend, err := NewGistBackend("abc", "secret")
	if err != nil {
		t.Fatal(err)
	}
	backend.WithAPIURL(server.URL + "/gists/")

	data, err := backend.Load()
	if err != nil || data != nil {
		t.Fatalf("Load() without file = %q, %v; want nil, nil", data, err)
	}

	s, err := Open(backend)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.Toggle("99"); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if files[Filename] != `["99"]` {
		t.Errorf("gist file = %q, want [\"99\"]", files[Filename])
	}

	reopened, err := Open(backend)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if !reopened.IsBookmarked("99") {
		t.Error("bookmark not loaded back from gist")
	}
}

func TestGistBackend_Errors(t *testing.T) {
	server := fakeGist(t, map[string]string{})
	defer server.Close()

	backend, _ := NewGistBackend("abc", "wrong")
	backend.WithAPIURL(server.URL + "/gists")

	_, err := backend.Load()
	var gistErr *GistError
	if !errors.As(err, &gistErr) || gistErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Load() with bad token error = %v, want GistError 401", err)
	}
	if err := backend.Save([]byte("[]")); err == nil {
		t.Error("Save() with bad token should fail")
	}
}

func TestCreateGist(t *testing.T) {
	tests := []struct {
		name    string
		initial []byte
		want    string
	}{
		{"empty set", nil, "[]"},
		{"seeded", []byte(`["1","2"]`), `["1","2"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			server := fakeGist(t, files)
			defer server.Close()

			id, err := CreateGist(server.URL+"/gists/", "secret", "hackfind bookmarks", tt.initial)
			if err != nil {
				t.Fatalf("CreateGist() error = %v", err)
			}
			if id != "new-gist" {
				t.Errorf("CreateGist() = %q, want new-gist", id)
			}
			if got := files["created:"+Filename]; got != tt.want {
				t.Errorf("created content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateGist_Errors(t *testing.T) {
	server := fakeGist(t, map[string]string{})
	defer server.Close()

	if _, err := CreateGist(server.URL+"/gists", "", "x", nil); err == nil {
		t.Error("CreateGist() without token should fail")
	}
	if _, err := CreateGist(server.URL+"/gists", "wrong", "x", nil); err == nil {
		t.Error("CreateGist() with bad token should fail")
	}
}
