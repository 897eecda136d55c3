package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
)

// FileJar is a cookie jar that can persist the backend's session cookie
// between CLI invocations. Only cookies for the configured backend host are
// saved; everything else behaves like the standard jar.
type FileJar struct {
	*cookiejar.Jar
	path string
	base *url.URL
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewFileJar opens (or creates) the jar file for the given backend base URL.
func NewFileJar(path, rawBaseURL string) (*FileJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(NormalizeBaseURL(rawBaseURL))
	if err != nil {
		return nil, err
	}

	fj := &FileJar{Jar: jar, path: path, base: base}
	if err := fj.load(); err != nil {
		return nil, err
	}
	return fj, nil
}

func (j *FileJar) load() error {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		// A corrupt jar file just means a fresh session.
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value})
	}
	j.Jar.SetCookies(j.base, cookies)
	return nil
}

// Save writes the backend's current cookies to disk. Call after the last
// request of a CLI invocation.
func (j *FileJar) Save() error {
	cookies := j.Jar.Cookies(j.base)
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0o600)
}
