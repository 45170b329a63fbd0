package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"drive-activity-notifier/internal/config"
	"drive-activity-notifier/internal/log"
	"drive-activity-notifier/internal/models"
	"drive-activity-notifier/internal/services"
)

const ginModeRelease = "release"

var (
	ErrOperationCancelled = errors.New("operation cancelled by user")
	ErrRegistryDisabled   = errors.New("FIRESTORE_PROJECT_ID is not set")
	ErrDriveIDRequired    = errors.New("drive ID argument or DRIVE_ID is required")
)

type globalFlags struct {
	output string
	pretty bool
	force  bool
}

// toolbox holds what every command needs once configuration is loaded.
type toolbox struct {
	cfg        *config.Config
	googleOpts []option.ClientOption
	out        *outputFormatter
	in         io.Reader
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stdin).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer, stdin io.Reader) *cobra.Command {
	var flags globalFlags
	tb := &toolbox{in: stdin}

	root := &cobra.Command{
		Use:   "toolbox",
		Short: "Utility commands for drive-activity-notifier",
		Long: `Inspect drives and files, manage Drive push channels, and run the
activity query and email lookup the webhook uses.

watch-drive and watch-file record the channel in Firestore when
FIRESTORE_PROJECT_ID is set, and register it with WEBHOOK_CHANNEL_TOKEN
when that is set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}

			cfg, err := config.LoadToolbox()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			// Logs go to stderr so command output stays parseable
			slog.SetDefault(log.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.GinMode == ginModeRelease))

			out, err := newOutputFormatter(stdout, flags.output, flags.pretty)
			if err != nil {
				return err
			}

			googleOpts, err := services.LoadGoogleClientOptions(cmd.Context(), cfg.GoogleTokenPath)
			if err != nil {
				return err
			}

			tb.cfg = cfg
			tb.out = out
			tb.googleOpts = googleOpts
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.output, "output", outputTable, "Output format (table, json)")
	root.PersistentFlags().BoolVar(&flags.pretty, "pretty", false, "Pretty-print JSON output")

	stop := &cobra.Command{
		Use:   "stop-channel <channelId>",
		Short: "Stop a registered push channel and forget it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.force {
				if err := confirmStop(tb.in, args[0]); err != nil {
					if errors.Is(err, ErrOperationCancelled) {
						log.Info(cmd.Context(), "Operation cancelled by user")
						return nil
					}
					return err
				}
			}
			return runStopChannel(cmd.Context(), tb, args)
		},
	}
	stop.Flags().BoolVar(&flags.force, "force", false, "Skip confirmation prompt")

	root.AddCommand(
		newCommand(tb, "list-drives", "List shared drives visible to the saved credentials", cobra.NoArgs, runListDrives),
		newCommand(tb, "list-files", "List files across all drives, ordered by name", cobra.NoArgs, runListFiles),
		newCommand(tb, "file-parents <fileId>", "Print a file and its ancestors, nearest first",
			cobra.ExactArgs(1), runFileParents),
		newCommand(tb, "watch-drive <driveId> <hookUrl>", "Open a push channel for changes on a shared drive",
			cobra.ExactArgs(2), runWatchDrive),
		newCommand(tb, "watch-file <fileId> <hookUrl>", "Open a one day push channel for a single file",
			cobra.ExactArgs(2), runWatchFile),
		newCommand(tb, "list-channels", "List push channels recorded in the Firestore registry",
			cobra.NoArgs, runListChannels),
		stop,
		newCommand(tb, "list-changes <driveId> <pageToken>", "Print one page of changes on a shared drive",
			cobra.ExactArgs(2), runListChanges),
		newCommand(tb, "query-activity [driveId]", "Run the webhook's activity query and classify the result",
			cobra.MaximumNArgs(1), runQueryActivity),
		newCommand(tb, "resolve-email <peopleId>", "Resolve a People API resource name to an email address",
			cobra.ExactArgs(1), runResolveEmail),
	)

	return root
}

func newCommand(
	tb *toolbox, use, short string, args cobra.PositionalArgs,
	run func(ctx context.Context, tb *toolbox, args []string) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd.Context(), tb, args); err != nil {
				log.Error(cmd.Context(), "Command failed", "command", cmd.Name(), "error", err)
				return err
			}
			return nil
		},
	}
}

func (tb *toolbox) driveService(ctx context.Context) (*services.DriveService, error) {
	return services.NewDriveService(ctx, tb.googleOpts...)
}

// registry opens the watch channel registry. The returned close func is never nil.
func (tb *toolbox) registry(ctx context.Context) (*services.FirestoreService, func(), error) {
	if !tb.cfg.IsRegistryEnabled() {
		return nil, func() {}, ErrRegistryDisabled
	}

	log.Info(ctx, "Connecting to Firestore",
		"project_id", tb.cfg.FirestoreProjectID,
		"database_id", tb.cfg.FirestoreDatabaseID,
	)
	client, err := firestore.NewClientWithDatabase(ctx, tb.cfg.FirestoreProjectID, tb.cfg.FirestoreDatabaseID)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Error(context.Background(), "Error closing Firestore client", "error", err)
		}
	}
	return services.NewFirestoreService(client), closeFn, nil
}

func runListDrives(ctx context.Context, tb *toolbox, _ []string) error {
	drive, err := tb.driveService(ctx)
	if err != nil {
		return err
	}
	drives, err := drive.ListDrives(ctx)
	if err != nil {
		return err
	}
	return tb.out.write(driveTable(drives))
}

func runListFiles(ctx context.Context, tb *toolbox, _ []string) error {
	drive, err := tb.driveService(ctx)
	if err != nil {
		return err
	}
	files, err := drive.ListFiles(ctx)
	if err != nil {
		return err
	}
	return tb.out.write(fileTable(files))
}

func runFileParents(ctx context.Context, tb *toolbox, args []string) error {
	drive, err := tb.driveService(ctx)
	if err != nil {
		return err
	}
	chain, err := drive.FileParents(ctx, args[0])
	if err != nil {
		return err
	}
	return tb.out.write(parentTable(chain))
}

func runWatchDrive(ctx context.Context, tb *toolbox, args []string) error {
	return tb.watch(ctx, func(drive *services.DriveService) (*models.WatchChannel, error) {
		return drive.WatchDrive(ctx, args[0], args[1], tb.cfg.WebhookChannelToken)
	})
}

func runWatchFile(ctx context.Context, tb *toolbox, args []string) error {
	return tb.watch(ctx, func(drive *services.DriveService) (*models.WatchChannel, error) {
		return drive.WatchFile(ctx, args[0], args[1], tb.cfg.WebhookChannelToken)
	})
}

func (tb *toolbox) watch(ctx context.Context, open func(*services.DriveService) (*models.WatchChannel, error)) error {
	drive, err := tb.driveService(ctx)
	if err != nil {
		return err
	}
	channel, err := open(drive)
	if err != nil {
		return err
	}

	if tb.cfg.IsRegistryEnabled() {
		registry, closeFn, err := tb.registry(ctx)
		defer closeFn()
		if err != nil {
			return err
		}
		if err := registry.SaveWatchChannel(ctx, channel); err != nil {
			return err
		}
		log.Info(ctx, "Recorded watch channel", "channel_id", channel.ID, "target_id", channel.TargetID)
	} else {
		log.Warn(ctx, "Watch channel not recorded, registry disabled", "channel_id", channel.ID)
	}

	return tb.out.write(channelTable{channel})
}

func runListChannels(ctx context.Context, tb *toolbox, _ []string) error {
	registry, closeFn, err := tb.registry(ctx)
	defer closeFn()
	if err != nil {
		return err
	}
	channels, err := registry.ListWatchChannels(ctx)
	if err != nil {
		return err
	}
	return tb.out.write(channelTable(channels))
}

func runStopChannel(ctx context.Context, tb *toolbox, args []string) error {
	registry, closeFn, err := tb.registry(ctx)
	defer closeFn()
	if err != nil {
		return err
	}
	channel, err := registry.GetWatchChannel(ctx, args[0])
	if err != nil {
		return err
	}

	drive, err := tb.driveService(ctx)
	if err != nil {
		return err
	}
	if err := drive.StopChannel(ctx, channel.ID, channel.ResourceID); err != nil {
		return err
	}
	if err := registry.DeleteWatchChannel(ctx, channel.ID); err != nil {
		return err
	}

	log.Info(ctx, "Stopped watch channel", "channel_id", channel.ID, "target_id", channel.TargetID)
	return nil
}

func runListChanges(ctx context.Context, tb *toolbox, args []string) error {
	drive, err := tb.driveService(ctx)
	if err != nil {
		return err
	}
	changes, err := drive.ListChanges(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return tb.out.write(changes)
}

func runQueryActivity(ctx context.Context, tb *toolbox, args []string) error {
	driveID := tb.cfg.DriveID
	if len(args) > 0 {
		driveID = args[0]
	}
	if driveID == "" {
		return ErrDriveIDRequired
	}

	activityService, err := services.NewDriveActivityService(ctx, tb.cfg.ActivityPageSize, tb.googleOpts...)
	if err != nil {
		return err
	}
	activity, err := activityService.QueryRecentActivity(ctx, driveID, tb.cfg.ActivityLookback)
	if err != nil {
		return err
	}
	if activity == nil {
		log.Info(ctx, "No activities found", "drive_id", driveID, "lookback", tb.cfg.ActivityLookback.String())
		return nil
	}

	kind, detail := activity.Classify()
	return tb.out.write(map[string]any{
		"kind":     kind,
		"detail":   detail,
		"activity": activity,
	})
}

func runResolveEmail(ctx context.Context, tb *toolbox, args []string) error {
	peopleService, err := services.NewPeopleService(ctx, tb.googleOpts...)
	if err != nil {
		return err
	}
	email, err := peopleService.ResolveEmail(ctx, models.ActorRef{PersonName: args[0]})
	if err != nil {
		return err
	}
	if email == "" {
		log.Info(ctx, "No email addresses found", "person_name", args[0])
		return nil
	}
	_, err = fmt.Fprintln(tb.out.writer, email)
	return err
}

func confirmStop(in io.Reader, channelID string) error {
	fmt.Printf("\nThis will stop push notifications on channel %s.\n", channelID)
	fmt.Print("Continue? (type 'STOP' to confirm): ")

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read user input: %w", err)
	}

	if strings.TrimSpace(response) != "STOP" {
		return ErrOperationCancelled
	}
	return nil
}
