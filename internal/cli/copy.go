package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vectordesk/core/v1/copier"
	"github.com/vectordesk/core/v1/tracer"
)

var (
	copyProfile       string
	copyTargetProfile string
	copySource        string
	copyTarget        string
	copyBatchSize     int
	copyRegenerate    bool
	copyEF            string
	copyEFConfig      map[string]string
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy a collection within or across stores",
	Long: `Copy a collection to a new name, on the same store or onto the store of
another profile. The copy runs in batches; Ctrl-C stops it at the next
batch boundary and removes the partially copied target.

The target collection keeps the source's embedding function unless a
stored override for the target exists or --ef names one explicitly.

Examples:
  vdctl copy --profile local --source articles --target articles-backup
  vdctl copy --profile local --target-profile prod --source articles --target articles
  vdctl copy --profile local --source articles --target regenerated --regenerate --ef ollama`,
	RunE: runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)

	copyCmd.Flags().StringVarP(&copyProfile, "profile", "p", "", "source profile id (required)")
	copyCmd.Flags().StringVar(&copyTargetProfile, "target-profile", "", "target profile id (default is the source profile)")
	copyCmd.Flags().StringVarP(&copySource, "source", "s", "", "source collection (required)")
	copyCmd.Flags().StringVarP(&copyTarget, "target", "t", "", "target collection (required)")
	copyCmd.Flags().IntVar(&copyBatchSize, "batch-size", 0, "documents per batch (default from config)")
	copyCmd.Flags().BoolVar(&copyRegenerate, "regenerate", false, "drop source vectors and let the target re-embed")
	copyCmd.Flags().StringVar(&copyEF, "ef", "", "embedding function for the target collection")
	copyCmd.Flags().StringToStringVar(&copyEFConfig, "ef-config", nil, "embedding function config as key=value")
	copyCmd.MarkFlagRequired("profile")
	copyCmd.MarkFlagRequired("source")
	copyCmd.MarkFlagRequired("target")
}

func runCopy(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	descriptor, err := efDescriptor(copyEF, copyEFConfig)
	if err != nil {
		return err
	}

	targetProfile := copyTargetProfile
	if targetProfile == "" {
		targetProfile = copyProfile
	}

	log := newLogger()
	profiles, err := openProfiles(log)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer profiles.Close()

	pl := newPool(log, profiles)
	defer pl.Shutdown(context.Background())

	source, err := connect(ctx, profiles, pl, copyProfile)
	if err != nil {
		return err
	}
	target, err := connect(ctx, profiles, pl, targetProfile)
	if err != nil {
		return err
	}

	// One copy per profile. The returned context cancels on Ctrl-C or on
	// an explicit CancelCopy from elsewhere.
	copyCtx, release, err := pl.BeginCopy(ctx, copyProfile)
	if err != nil {
		return err
	}
	defer release()

	batchSize := copyBatchSize
	if batchSize <= 0 {
		batchSize = cfg.Copy.BatchSize
	}

	trc := tracer.NewClient(cfg.Tracer, log)
	c := copier.NewCopier(log, trc, nil, profiles)

	// The bar is created on the first copying report, once the total is
	// known.
	var bar *progressbar.ProgressBar
	var startTime time.Time
	var initialized bool

	onProgress := func(p copier.Progress) {
		switch p.Phase {
		case copier.PhaseCreating:
			fmt.Printf("Creating %q on %s...\n", copyTarget, target.Backend())
		case copier.PhaseCopying:
			if !initialized {
				startTime = time.Now()
				bar = progressbar.NewOptions(p.TotalDocuments,
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionShowBytes(false),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription("[cyan]Copying[reset]"),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "[green]=[reset]",
						SaucerHead:    "[green]>[reset]",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
					progressbar.OptionOnCompletion(func() {
						fmt.Println()
					}),
				)
				initialized = true
			}

			bar.Set(p.CopiedDocuments)

			if p.CopiedDocuments > 0 {
				elapsed := time.Since(startTime)
				rate := float64(p.CopiedDocuments) / elapsed.Seconds()
				remaining := p.TotalDocuments - p.CopiedDocuments
				if rate > 0 {
					eta := time.Duration(float64(remaining)/rate) * time.Second
					bar.Describe(fmt.Sprintf("[cyan]Copying[reset] ETA: %s", formatDuration(eta)))
				}
			}
		}
	}

	start := time.Now()
	result := c.Copy(copyCtx, source, target, copier.Params{
		SourceCollection:     copySource,
		TargetCollection:     copyTarget,
		Descriptor:           descriptor,
		BatchSize:            batchSize,
		RegenerateEmbeddings: copyRegenerate,
	}, onProgress)

	// A bar that never reached its total has not printed its trailing
	// newline yet.
	if initialized && result.CopiedDocuments < result.TotalDocuments {
		fmt.Println()
	}

	switch result.Phase {
	case copier.PhaseComplete:
		fmt.Printf("\nCopy complete:\n")
		fmt.Printf("  Documents: %d of %d\n", result.CopiedDocuments, result.TotalDocuments)
		if result.Target != nil {
			fmt.Printf("  Target:    %q with %d documents\n", result.Target.Name, result.Target.Count)
		}
		fmt.Printf("  Duration:  %s\n", formatDuration(time.Since(start)))
		return nil
	case copier.PhaseCancelled:
		return fmt.Errorf("copy cancelled after %d of %d documents", result.CopiedDocuments, result.TotalDocuments)
	default:
		return fmt.Errorf("copy failed: %w", result.Err)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
