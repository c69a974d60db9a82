package main

import (
	"errors"
	"fmt"

	"github.com/frijal/ArtikelHub/internal/article"
	"github.com/frijal/ArtikelHub/internal/categorize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	kwProvider   string
	kwIndex      string
	kwCategories string
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Grow the category keyword list from article titles",
	Long: `Asks a language model for 3-5 keywords per article title and adds the
unknown ones to the category the title currently falls into. The YAML file
is rewritten only when at least one keyword was added.

Providers: openai (OPENAI_API_KEY) or gemini (GEMINI_API_KEY).`,
	Args: cobra.NoArgs,
	RunE: runKeywords,
}

func init() {
	keywordsCmd.Flags().StringVar(&kwProvider, "provider", "openai", "openai or gemini")
	keywordsCmd.Flags().StringVar(&kwIndex, "index", "artikel.json", "index whose titles are used")
	keywordsCmd.Flags().StringVar(&kwCategories, "categories", "", "categories YAML (default $CATEGORIES_FILE)")
}

func extractor(cmd *cobra.Command) (categorize.Extractor, error) {
	switch kwProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		return categorize.NewOpenAIExtractor(cfg.OpenAIKey), nil
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		ex, err := categorize.NewGeminiExtractor(cmd.Context(), cfg.GeminiKey)
		if err != nil {
			return nil, err
		}
		return ex, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", kwProvider)
	}
}

func runKeywords(cmd *cobra.Command, args []string) error {
	path := kwCategories
	if path == "" {
		path = cfg.CategoriesFile
	}
	if path == "" {
		return errors.New("no categories file: pass --categories or set CATEGORIES_FILE")
	}
	set, err := categorize.Load(path)
	if err != nil {
		return err
	}
	ix, err := article.Load(kwIndex, cfg.Location())
	if err != nil {
		return err
	}
	ex, err := extractor(cmd)
	if err != nil {
		return err
	}

	titles := make([]string, 0, ix.Len())
	for _, a := range ix.All() {
		titles = append(titles, a.Title)
	}
	logger.Info("updating keywords", zap.String("provider", ex.Name()), zap.Int("titles", len(titles)))

	added, err := categorize.NewUpdater(ex, logger.Named("keywords")).Update(cmd.Context(), set, titles)
	if err != nil {
		return err
	}
	if added == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no new keywords")
		return nil
	}
	if err := set.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d keywords to %s\n", added, path)
	return nil
}
