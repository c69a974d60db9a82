package main

import (
	"fmt"
	"slices"

	"github.com/frijal/ArtikelHub/internal/depclean"
	"github.com/spf13/cobra"
)

var (
	depsDir       string
	depsKeep      []string
	depsDryRun    bool
	depsReinstall bool
	depsRemove    bool
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Find and remove npm packages nothing imports",
	Long: `Scans package.json and every JS/TS/HTML source (node_modules and .git are
skipped) for import, require and dynamic import specifiers. Packages that no
source imports and no npm script mentions are listed.

With --remove they are uninstalled one by one; --keep spares named packages
and --dry-run prints the plan without touching anything.`,
	Args: cobra.NoArgs,
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().StringVar(&depsDir, "dir", ".", "project folder holding package.json")
	depsCmd.Flags().StringSliceVar(&depsKeep, "keep", nil, "packages never removed")
	depsCmd.Flags().BoolVar(&depsRemove, "remove", false, "uninstall the unused packages")
	depsCmd.Flags().BoolVar(&depsDryRun, "dry-run", false, "print the removal plan only")
	depsCmd.Flags().BoolVar(&depsReinstall, "reinstall", false, "after removal, delete node_modules and package-lock.json and run npm install")
}

func runDeps(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	rep, err := depclean.Scan(depsDir)
	if err != nil {
		return err
	}
	if rep.Empty() {
		fmt.Fprintln(out, "every dependency is in use")
		return nil
	}

	var pkgs []depclean.Package
	var rows [][2]string
	for _, p := range depclean.Candidates(rep) {
		kind := "dependency"
		if p.Dev {
			kind = "devDependency"
		}
		if slices.Contains(depsKeep, p.Name) {
			kind += " (kept)"
		} else {
			pkgs = append(pkgs, p)
		}
		rows = append(rows, [2]string{p.Name, kind})
	}
	fmt.Fprintln(out, "unused packages:")
	printRows(out, rows)

	if !depsRemove && !depsDryRun {
		return nil
	}
	steps, err := depclean.Clean(cmd.Context(), depclean.ExecCommander{}, pkgs, depclean.CleanOptions{
		Dir:       depsDir,
		Reinstall: depsReinstall,
		DryRun:    depsDryRun,
		Log:       logger.Named("deps"),
	})
	if depsDryRun {
		fmt.Fprintln(out, "plan:")
	}
	for _, st := range steps {
		status := "ok"
		switch {
		case depsDryRun:
			status = "planned"
		case st.Err != nil:
			status = "failed: " + st.Err.Error()
		}
		fmt.Fprintf(out, "  %s  [%s]\n", st.Command, status)
	}
	return err
}
