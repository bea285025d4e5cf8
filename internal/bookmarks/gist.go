package bookmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultGistAPIURL is the GitHub Gists endpoint.
	DefaultGistAPIURL = "https://api.github.com/gists"
	gistTimeout       = 15 * time.Second
)

// GistError is a non-success response from the Gists API. The response
// body is not kept since it can echo request details.
type GistError struct {
	Op         string
	StatusCode int
}

func (e *GistError) Error() string {
	return fmt.Sprintf("%s: GitHub API error (status %d)", e.Op, e.StatusCode)
}

type gistFile struct {
	Content string `json:"content"`
}

type gistDoc struct {
	ID          string              `json:"id,omitempty"`
	Description string              `json:"description,omitempty"`
	Public      *bool               `json:"public,omitempty"`
	Files       map[string]gistFile `json:"files"`
}

// gistClient holds what every Gists API call needs.
type gistClient struct {
	apiURL string
	token  string
	http   *http.Client
}

func newGistClient(apiURL, token string) gistClient {
	if apiURL == "" {
		apiURL = DefaultGistAPIURL
	}
	return gistClient{
		apiURL: strings.TrimRight(apiURL, "/"),
		token:  token,
		http:   &http.Client{Timeout: gistTimeout},
	}
}

// do sends in (if non-nil) as JSON and decodes the response into out (if
// non-nil). Any status other than want is a *GistError.
func (c gistClient) do(op, method, url string, want int, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding payload: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != want {
		return &GistError{Op: op, StatusCode: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// GistBackend keeps the bookmark file in a GitHub Gist so that several
// machines share one bookmark set.
type GistBackend struct {
	gistID string
	client gistClient
}

func NewGistBackend(gistID, githubToken string) (*GistBackend, error) {
	if gistID == "" {
		return nil, fmt.Errorf("gist ID is required")
	}
	if githubToken == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	return &GistBackend{
		gistID: gistID,
		client: newGistClient("", githubToken),
	}, nil
}

// WithAPIURL points the backend at a different Gists endpoint, such as a
// GitHub Enterprise host.
func (g *GistBackend) WithAPIURL(apiURL string) *GistBackend {
	g.client.apiURL = strings.TrimRight(apiURL, "/")
	return g
}

func (g *GistBackend) url() string {
	return g.client.apiURL + "/" + g.gistID
}

// Load fetches the bookmark file. A Gist without the file loads as empty.
func (g *GistBackend) Load() ([]byte, error) {
	var doc gistDoc
	if err := g.client.do("fetching gist", http.MethodGet, g.url(), http.StatusOK, nil, &doc); err != nil {
		return nil, err
	}
	file, ok := doc.Files[Filename]
	if !ok {
		return nil, nil
	}
	return []byte(file.Content), nil
}

// Save replaces the bookmark file. Other files in the Gist are untouched.
func (g *GistBackend) Save(data []byte) error {
	doc := gistDoc{Files: map[string]gistFile{Filename: {Content: string(data)}}}
	return g.client.do("updating gist", http.MethodPatch, g.url(), http.StatusOK, doc, nil)
}

// CreateGist creates a private Gist whose bookmark file holds initial (an
// empty set when initial is empty) and returns the new Gist's ID.
func CreateGist(apiURL, githubToken, description string, initial []byte) (string, error) {
	if githubToken == "" {
		return "", fmt.Errorf("GitHub token is required")
	}
	if len(bytes.TrimSpace(initial)) == 0 {
		initial = []byte("[]")
	}

	private := false
	doc := gistDoc{
		Description: description,
		Public:      &private,
		Files:       map[string]gistFile{Filename: {Content: string(initial)}},
	}

	client := newGistClient(apiURL, githubToken)
	var created gistDoc
	if err := client.do("creating gist", http.MethodPost, client.apiURL, http.StatusCreated, doc, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("creating gist: response has no id")
	}
	return created.ID, nil
}
