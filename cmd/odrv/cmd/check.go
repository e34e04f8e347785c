package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/blacktop/odrv/internal/config"
	"github.com/blacktop/odrv/internal/conflict"
	"github.com/blacktop/odrv/internal/engine"
)

var checkCmd = &cobra.Command{
	Use:     "check <object-file>...",
	Aliases: []string{"scan"},
	Short:   "Scan Mach-O object files for One-Definition-Rule violations",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runCheck,
}

func init() {
	checkCmd.Flags().Bool("no-progress", false, "disable the progress bar")
	viper.BindPFlag("no-progress", checkCmd.Flags().Lookup("no-progress"))
}

func runCheck(cc *cobra.Command, args []string) error {
	settings, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if Color {
		color.NoColor = false
	}

	e := engine.New()
	e.ParallelProcessing = settings.ParallelProcessing

	showProgress := settings.ShowProgress && !viper.GetBool("no-progress")
	var p *mpb.Progress
	var bar *mpb.Bar
	if showProgress {
		p = mpb.New(mpb.WithWidth(60), mpb.WithRefreshRate(180*time.Millisecond))
		bar = p.AddBar(0,
			mpb.PrependDecorators(decor.Name("scanning ")),
			mpb.AppendDecorators(decor.CountersNoUnit("%d DIEs analyzed")),
		)
		e.OnProgress = func(stats engine.Stats) {
			if stats.Analyzed > bar.Current() {
				bar.SetCurrent(stats.Analyzed)
			}
		}
	}

	reports, stats, err := e.Run(args)
	if bar != nil {
		bar.SetCurrent(stats.Analyzed)
		bar.Abort(false)
		p.Wait()
	}
	if err != nil {
		return err
	}

	reports = conflict.Filter(reports, settings.ViolationIgnore, settings.ViolationReport)

	for _, r := range reports {
		printReport(cc, r, settings)
	}

	log.Infof("processed %s DIEs, %s unique symbols, %s violation(s)",
		humanize.Comma(stats.Processed), humanize.Comma(stats.UniqueSymbols), humanize.Comma(int64(len(reports))))

	if len(reports) > 0 && !settings.GracefulExit {
		os.Exit(1)
	}
	return nil
}

func printReport(cc *cobra.Command, r conflict.Report, settings config.Settings) {
	prefix := "error:"
	colorize := color.New(color.FgRed, color.Bold).SprintFunc()
	if settings.GracefulExit {
		prefix = "warning:"
		colorize = color.New(color.FgYellow, color.Bold).SprintFunc()
	}

	fmt.Fprintf(cc.OutOrStdout(), "%s ODRV (%s:%s); conflict in `%s`\n",
		colorize(prefix), r.Tag(), r.Name, r.Symbol)

	if !settings.PrintSymbolPaths {
		return
	}
	for _, hash := range r.ConflictOrder {
		detail := r.ConflictMap[hash]
		fmt.Fprintf(cc.OutOrStdout(), "  - %s\n", detail.DIE.Path.View())
	}
}
