package main

import (
	"fmt"

	"github.com/frijal/ArtikelHub/internal/screenshot"
	"github.com/spf13/cobra"
)

var (
	shotDir     string
	shotImg     string
	shotBaseURL string
	shotDelay   = screenshot.DefaultDelay
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture a WebP thumbnail of every article page",
	Long: `Opens each <base-url><name>.html in one headless Chrome, one page at a
time, and stores a 1200x675 WebP capture as <img>/<name>.webp. Existing
thumbnails are kept.`,
	Args: cobra.NoArgs,
	RunE: runScreenshot,
}

func init() {
	screenshotCmd.Flags().StringVar(&shotDir, "dir", "artikel", "article folder")
	screenshotCmd.Flags().StringVar(&shotImg, "img", "img", "thumbnail folder")
	screenshotCmd.Flags().StringVar(&shotBaseURL, "base-url", "", "page URL prefix (default $SITE_URL/artikel/)")
	screenshotCmd.Flags().DurationVar(&shotDelay, "delay", screenshot.DefaultDelay, "pause between captures")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	base := shotBaseURL
	if base == "" {
		base = cfg.SiteURL + "/artikel/"
	}
	b, err := screenshot.NewBrowser(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	res, err := screenshot.Run(cmd.Context(), b, screenshot.Options{
		ArticleDir: shotDir,
		ImageDir:   shotImg,
		BaseURL:    base,
		Delay:      shotDelay,
		Log:        logger.Named("screenshot"),
	})
	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%d taken, %d skipped, %d failed\n", len(res.Taken), len(res.Skipped), len(res.Failed))
	}
	return err
}
