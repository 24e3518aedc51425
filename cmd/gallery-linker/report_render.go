package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"gallerylinker/internal/linker"
)

// renderReport prints a run report: a detail table per non-empty bucket when
// writing to a terminal, compact per-result lines otherwise, and a summary
// either way.
func renderReport(out io.Writer, report *linker.Report) {
	tty := isTerminal(out)

	renderBucket(out, "Linked", report.Linked, tty)
	renderBucket(out, "Created", report.Created, tty)
	renderBucket(out, "Errors", report.Errors, tty)
	renderBucket(out, "Skipped", report.Skipped, tty)

	summary := report.Summary()
	fmt.Fprintf(out, "Processed %d | linked %d | created %d | errors %d | skipped %d\n",
		summary.Processed, summary.Linked, summary.Created, summary.Errors, summary.Skipped)
	if len(report.Linked)+len(report.Created) > 0 && dryRunReport(report) {
		fmt.Fprintln(out, "Dry run: no changes were written")
	}
}

func renderBucket(out io.Writer, name string, results []linker.LinkResult, tty bool) {
	if len(results) == 0 {
		return
	}

	if !tty {
		for _, result := range results {
			fmt.Fprintf(out, "%s: %s\n", name, resultLine(result))
		}
		return
	}

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			resultSubject(result),
			result.PerformerName,
			result.Source,
			formatScore(result),
			result.Reason,
		})
	}
	fmt.Fprintf(out, "%s (%d)\n", name, len(results))
	fmt.Fprintln(out, renderTable(
		[]string{"Item", "Performer", "Source", "Score", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
}

func resultLine(result linker.LinkResult) string {
	line := resultSubject(result)
	if result.PerformerName != "" {
		line += " -> " + result.PerformerName
	}
	if result.Source != "" {
		line += fmt.Sprintf(" [%s %s]", result.Source, formatScore(result))
	}
	if result.Reason != "" {
		line += " (" + result.Reason + ")"
	}
	return line
}

// resultSubject labels the entity a result is about: the scene for scene
// runs, the gallery otherwise.
func resultSubject(result linker.LinkResult) string {
	if result.SceneID != "" {
		if result.SceneTitle != "" {
			return result.SceneTitle
		}
		return "scene " + result.SceneID
	}
	if result.GalleryTitle != "" {
		return result.GalleryTitle
	}
	if result.GalleryPath != "" {
		return result.GalleryPath
	}
	return "gallery " + result.GalleryID
}

func formatScore(result linker.LinkResult) string {
	if result.Score == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", result.Score)
}

func dryRunReport(report *linker.Report) bool {
	for _, bucket := range [][]linker.LinkResult{report.Linked, report.Created} {
		for _, result := range bucket {
			if result.DryRun {
				return true
			}
		}
	}
	return false
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
