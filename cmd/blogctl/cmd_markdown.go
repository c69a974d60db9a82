package main

import (
	"io"
	"os"

	"github.com/frijal/ArtikelHub/internal/markdown"
	"github.com/spf13/cobra"
)

var mdSimple bool

var markdownCmd = &cobra.Command{
	Use:   "markdown [file]",
	Short: "Convert Markdown to HTML",
	Long: `Reads the file (or stdin) and prints HTML. By default the input is
rendered as GitHub-flavoured Markdown and sanitized; --simple uses the
lightweight converter the site pages use instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMarkdown,
}

func init() {
	markdownCmd.Flags().BoolVar(&mdSimple, "simple", false, "use the lightweight converter")
}

func runMarkdown(cmd *cobra.Command, args []string) error {
	var (
		src []byte
		err error
	)
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
	} else {
		src, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if mdSimple {
		_, err = io.WriteString(out, markdown.Simple(string(src))+"\n")
		return err
	}
	html, err := markdown.Render(src)
	if err != nil {
		return err
	}
	_, err = out.Write(html)
	return err
}
