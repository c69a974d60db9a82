package categorize

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Extractor asks a model for the keywords of one title.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, text string) ([]string, error)
}

// RequestInterval paces extractor calls.
const RequestInterval = time.Second

func keywordPrompt(text string) string {
	return fmt.Sprintf("Analisis teks berikut dan berikan 3-5 kata kunci (keywords) yang paling relevan.\n"+
		"Jawab HANYA dengan kata kunci yang dipisahkan koma, dalam bahasa Indonesia, huruf kecil semua.\n"+
		"Contoh: 'teknologi, ai, produktivitas'.\n"+
		"Teks: %q", text)
}

// SplitKeywords turns a comma separated model answer into clean keywords.
func SplitKeywords(answer string) []string {
	var out []string
	for _, part := range strings.Split(answer, ",") {
		k := strings.ToLower(strings.Trim(strings.TrimSpace(part), `'".`))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Updater grows a category Set with model-suggested keywords.
type Updater struct {
	Extractor Extractor
	Limiter   *rate.Limiter
	Log       *zap.Logger
}

// NewUpdater paces ex to one request per RequestInterval.
func NewUpdater(ex Extractor, log *zap.Logger) *Updater {
	if log == nil {
		log = zap.NewNop()
	}
	return &Updater{
		Extractor: ex,
		Limiter:   rate.NewLimiter(rate.Every(RequestInterval), 1),
		Log:       log,
	}
}

// Update asks for keywords of every title and merges the new ones (longer
// than two characters, not already known anywhere) into the category the
// title currently maps to. A failed request contributes nothing. It
// returns the number of keywords added.
func (u *Updater) Update(ctx context.Context, set *Set, titles []string) (int, error) {
	known := set.Known()
	found := make(map[string][]string)

	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		if u.Limiter != nil {
			if err := u.Limiter.Wait(ctx); err != nil {
				return 0, err
			}
		}
		category := set.Categorize(title)
		u.Log.Debug("extract keywords", zap.String("title", title), zap.String("category", category))

		words, err := u.Extractor.Extract(ctx, title)
		if err != nil {
			u.Log.Warn("keyword extraction failed",
				zap.String("extractor", u.Extractor.Name()),
				zap.String("title", title),
				zap.Error(err))
			continue
		}
		for _, w := range words {
			if utf8.RuneCountInString(w) > 2 && !known[w] {
				found[category] = append(found[category], w)
			}
		}
	}

	added := 0
	for _, c := range set.Categories {
		if words := found[c.Name]; len(words) > 0 {
			added += set.Merge(c.Name, words)
		}
	}
	return added, nil
}
