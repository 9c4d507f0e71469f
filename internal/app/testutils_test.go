package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/mocks"
	"github.com/metinatakli/movie-catalog/internal/poster"
	"github.com/metinatakli/movie-catalog/internal/validator"
)

const testBaseURL = "http://localhost:3000"

type testEnv struct {
	app     *Application
	movies  domain.MovieRepository
	posters *poster.Local
	handler http.Handler
}

type testOption func(*testEnv)

func withMovieRepo(repo domain.MovieRepository) testOption {
	return func(env *testEnv) {
		env.movies = repo
	}
}

func newTestApplication(t *testing.T, opts ...testOption) *testEnv {
	t.Helper()

	posters, err := poster.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	env := &testEnv{
		movies:  mocks.NewMemoryMovieRepo(),
		posters: posters,
	}

	for _, opt := range opts {
		opt(env)
	}

	cfg := Config{
		Env:            "test",
		BaseURL:        testBaseURL,
		MaxUploadBytes: 1 << 20,
	}

	env.app = NewApp(
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
		validator.NewValidator(),
		env.movies,
		env.posters)
	env.handler = env.app.Routes()

	return env
}

// multipartFile is an optional "file" part of a movie form.
type multipartFile struct {
	name    string
	content string
}

func newMovieForm(t *testing.T, method, url string, movie any, file *multipartFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if movie != nil {
		var raw []byte
		switch m := movie.(type) {
		case string:
			raw = []byte(m)
		default:
			var err error
			raw, err = json.Marshal(m)
			if err != nil {
				t.Fatal(err)
			}
		}

		if err := mw.WriteField(movieFormPart, string(raw)); err != nil {
			t.Fatal(err)
		}
	}

	if file != nil {
		fw, err := mw.CreateFormFile(posterFormPart, file.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(fw, file.content); err != nil {
			t.Fatal(err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	return r
}

func (env *testEnv) serve(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Field+" "+vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error '%s' not found in response %v", tt.wantErrMessage, validationResp.ValidationErrors)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return v
}
