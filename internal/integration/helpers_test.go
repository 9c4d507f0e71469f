package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
}

// MovieForm is the multipart body accepted by the create and update endpoints.
type MovieForm struct {
	Movie       string
	FileName    string
	FileContent string
	OmitMovie   bool
}

func (f *MovieForm) encode() (io.Reader, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if !f.OmitMovie {
		if err := mw.WriteField("movie", f.Movie); err != nil {
			return nil, "", err
		}
	}

	if f.FileName != "" {
		fw, err := mw.CreateFormFile("file", f.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.WriteString(fw, f.FileContent); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &body, mw.FormDataContentType(), nil
}

func prepareRequest(method, path string, body io.Reader, form *MovieForm, headers map[string]string) (*http.Request, error) {
	contentType := ""

	if form != nil {
		var err error
		body, contentType, err = form.encode()
		if err != nil {
			return nil, err
		}
	} else if body != nil {
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, body)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	actual = cleanValue(actual)

	var expected any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k := range v {
			if _, ok := keysToIgnore[k]; ok {
				delete(v, k)
				continue
			}
			v[k] = cleanValue(v[k])
		}
	case []any:
		for i := range v {
			v[i] = cleanValue(v[i])
		}
	}

	return v
}

func truncateMovies(t testing.TB, db *pgxpool.Pool) {
	t.Helper()

	_, err := db.Exec(context.Background(), "TRUNCATE movies RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), string(content))
	require.NoError(t, err)
}

func countRows(t testing.TB, db *pgxpool.Pool, table string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&count)
	require.NoError(t, err)

	return count
}

// resetPosters empties the poster directory and writes the given files into it.
func resetPosters(t testing.TB, dir string, names ...string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		require.NoError(t, os.RemoveAll(filepath.Join(dir, e.Name())))
	}

	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("poster:"+name), 0o640))
	}
}

func posterExists(t testing.TB, dir, name string) bool {
	t.Helper()

	_, err := os.Stat(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)

	return true
}
