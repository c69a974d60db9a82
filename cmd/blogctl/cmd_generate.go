package main

import (
	"fmt"
	"path/filepath"

	"github.com/frijal/ArtikelHub/internal/categorize"
	"github.com/frijal/ArtikelHub/internal/notify"
	"github.com/frijal/ArtikelHub/internal/render"
	"github.com/frijal/ArtikelHub/internal/sitegen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	genDir      string
	genOut      string
	genSiteURL  string
	genAnnounce bool

	feedRSS string
	feedOut string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Index new article pages and write artikel.json, sitemap.xml and rss.xml",
	Long: `Reads every page of the article folder that the master artikel.json does
not list yet, fixes its <title> and published_time meta in place, and writes
the merged index, the sitemap and the RSS feed.

With --announce the newly indexed articles are posted to Telegram.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Render feed.html from rss.xml",
	Args:  cobra.NoArgs,
	RunE:  runFeed,
}

func init() {
	generateCmd.Flags().StringVar(&genDir, "dir", "artikel", "article folder")
	generateCmd.Flags().StringVar(&genOut, "out", ".", "output folder")
	generateCmd.Flags().StringVar(&genSiteURL, "site-url", "", "public site URL (default $SITE_URL)")
	generateCmd.Flags().BoolVar(&genAnnounce, "announce", false, "post new articles to Telegram")

	feedCmd.Flags().StringVar(&feedRSS, "rss", "rss.xml", "RSS feed to read")
	feedCmd.Flags().StringVar(&feedOut, "out", "feed.html", "page to write")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	siteURL := genSiteURL
	if siteURL == "" {
		siteURL = cfg.SiteURL
	}
	cats, err := categorize.Load(cfg.CategoriesFile)
	if err != nil {
		return err
	}

	res, err := sitegen.Generate(ctx, sitegen.Options{
		ArticleDir:  genDir,
		OutDir:      genOut,
		SiteURL:     siteURL,
		Loc:         cfg.Location(),
		Categorizer: cats,
		Log:         logger.Named("sitegen"),
	})
	if err != nil {
		return err
	}
	logger.Info("site generated",
		zap.Int("articles", res.Index.Len()),
		zap.Int("added", len(res.Added)),
		zap.Int("rewritten", len(res.Rewritten)))
	fmt.Fprintf(cmd.OutOrStdout(), "%d articles, %d new, %d pages fixed\n", res.Index.Len(), len(res.Added), len(res.Rewritten))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s, %s, %s\n",
		filepath.Join(genOut, "artikel.json"), filepath.Join(genOut, "sitemap.xml"), filepath.Join(genOut, "rss.xml"))

	if !genAnnounce || len(res.Added) == 0 {
		return nil
	}
	n, err := notify.New(cfg.TelegramToken, "", cfg.TelegramChatID, siteURL, logger.Named("notify"))
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	sent, err := n.Announce(ctx, res.Added)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "announced %d of %d new articles\n", sent, len(res.Added))
	return nil
}

func runFeed(cmd *cobra.Command, args []string) error {
	r, err := render.New(cfg.Location())
	if err != nil {
		return err
	}
	n, err := sitegen.BuildFeedPage(feedRSS, feedOut, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d items\n", feedOut, n)
	return nil
}
