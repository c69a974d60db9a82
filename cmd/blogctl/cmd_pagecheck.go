package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/frijal/ArtikelHub/internal/pagecheck"
	"github.com/spf13/cobra"
)

var (
	pcMarkers string
	pcJSON    bool
)

var pageCheckCmd = &cobra.Command{
	Use:   "pagecheck <url>...",
	Short: "Check pages for status, text ratio and sensitive markers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPageCheck,
}

func init() {
	pageCheckCmd.Flags().StringVar(&pcMarkers, "markers", "", "marker YAML (default $MARKERS_FILE or the built-in list)")
	pageCheckCmd.Flags().BoolVar(&pcJSON, "json", false, "print reports as JSON")
}

func runPageCheck(cmd *cobra.Command, args []string) error {
	path := pcMarkers
	if path == "" {
		path = cfg.MarkersFile
	}
	markers, err := pagecheck.LoadMarkers(path)
	if err != nil {
		return err
	}
	checker := pagecheck.NewChecker(pagecheck.NewCollyFetcher(), markers, logger.Named("pagecheck"))

	out := cmd.OutOrStdout()
	failed := 0
	for _, raw := range args {
		rep, err := checker.Check(cmd.Context(), raw)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s: %v\n", raw, err)
			continue
		}
		if pcJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(out, rep.URL)
		printRows(out, [][2]string{
			{"status", fmt.Sprintf("%d, %s", rep.Status, rep.StatusText)},
			{"final url", rep.FinalURL},
			{"text ratio", fmt.Sprintf("%.1f%% (%s)", rep.Ratio.Percent, rep.Ratio.Label)},
		})
		printHits(cmd, "sensitive", rep.Sensitive)
		printHits(cmd, "extra-window", rep.Extra)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(args))
	}
	return nil
}

func printHits(cmd *cobra.Command, label string, hits []pagecheck.MarkerHit) {
	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintf(out, "  no %s markers\n", label)
		return
	}
	fmt.Fprintf(out, "  %s markers:\n", label)
	rows := make([][2]string, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, [2]string{"  " + h.Marker, "x" + strconv.Itoa(h.Count)})
	}
	printRows(out, rows)
}
