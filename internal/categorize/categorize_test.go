package categorize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go/v2/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
categories:
  - name: "🐧 Linux"
    keywords: [Linux, arch]
  - name: "🍛 Kuliner"
    keywords: [resep]
`

func TestCategorize(t *testing.T) {
	s, err := Parse([]byte(testYAML))
	require.NoError(t, err)

	assert.Equal(t, "🐧 Linux", s.Categorize("Instal ARCH Linux"))
	assert.Equal(t, "🍛 Kuliner", s.Categorize("Resep Rendang"))
	assert.Equal(t, Fallback, s.Categorize("Catatan perjalanan"))
	assert.True(t, s.Known()["linux"], "keywords are lower-cased")
}

func TestDefaultListLoads(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Categories)
	assert.Equal(t, "🐧 Linux & Open Source", s.Categorize("Mengenal systemd"))
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte("categories: []"))
	assert.ErrorIs(t, err, ErrNoCategories)

	_, err = Parse([]byte("categories: [unclosed"))
	assert.Error(t, err)
}

func TestMergeSortedSet(t *testing.T) {
	s, err := Parse([]byte(testYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Merge("🐧 Linux", []string{"kernel", "arch", "bash", "kernel"}))
	assert.Equal(t, []string{"arch", "bash", "kernel", "linux"}, s.Categories[0].Keywords)
	assert.Equal(t, 0, s.Merge("🐧 Linux", []string{"arch"}))
	assert.Equal(t, 0, s.Merge("tidak ada", []string{"apa"}))
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"teknologi", "ai", "produktivitas"}, SplitKeywords(" 'Teknologi, AI , produktivitas.' "))
	assert.Nil(t, SplitKeywords(" , "))
}

type fakeExtractor struct {
	answers map[string][]string
	calls   int
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(_ context.Context, text string) ([]string, error) {
	f.calls++
	words, ok := f.answers[text]
	if !ok {
		return nil, errors.New("rate limited")
	}
	return words, nil
}

func TestUpdaterAddsOnlyUnknownLongWords(t *testing.T) {
	s, err := Parse([]byte(testYAML))
	require.NoError(t, err)

	ex := &fakeExtractor{answers: map[string][]string{
		"Instal Arch Linux": {"arch", "pacman", "os", "instalasi"},
		"Resep Rendang":     {"rendang", "resep"},
		"Jalan-jalan":       {"wisata"},
	}}
	u := NewUpdater(ex, nil)
	u.Limiter = nil

	added, err := u.Update(context.Background(), s, []string{"Instal Arch Linux", "Resep Rendang", "Jalan-jalan", "gagal", " "})
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, 4, ex.calls)
	assert.Equal(t, []string{"arch", "instalasi", "linux", "pacman"}, s.Categories[0].Keywords)
	assert.Equal(t, []string{"rendang", "resep"}, s.Categories[1].Keywords)
}

func TestUpdaterNothingNew(t *testing.T) {
	s, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	u := NewUpdater(&fakeExtractor{answers: map[string][]string{"Linux": {"linux", "os"}}}, nil)
	u.Limiter = nil

	added, err := u.Update(context.Background(), s, []string{"Linux"})
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestSaveRoundTrip(t *testing.T) {
	s, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "🐧 Linux")
	assert.Contains(t, string(data), "🍛 Kuliner")
	assert.NotContains(t, string(data), `\U0001F`)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Categories, again.Categories)
}

func TestUnescapeLongKeepsEscapedBackslash(t *testing.T) {
	in := `- name: "\U0001F427 Linux"` + "\n" + `- name: "C:\\U0001F427x"` + "\n"
	assert.Equal(t, `- name: "🐧 Linux"`+"\n"+`- name: "C:\\U0001F427x"`+"\n", string(unescapeLong([]byte(in))))
}

func TestOpenAIExtractor(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"linux, arch, instalasi"}}]}`))
	}))
	defer srv.Close()

	ex := NewOpenAIExtractor("test-key", option.WithBaseURL(srv.URL+"/"))
	words, err := ex.Extract(context.Background(), "Instal Arch Linux")
	require.NoError(t, err)
	assert.Equal(t, []string{"linux", "arch", "instalasi"}, words)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, 0.3, body["temperature"])
	assert.Equal(t, float64(100), body["max_tokens"])
}
