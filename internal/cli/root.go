package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const releaseVersion = "0.4.0"

type rootFlags struct {
	configPath string
	port       string
	verbose    bool
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "quiz-room-service",
		Short:         "Live trivia room orchestrator with websocket push",
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVar(&flags.configPath, "config", "config/config.yaml", "path to YAML config (env: QUIZROOM_CONFIG)")
	fs.StringVarP(&flags.port, "port", "p", "", "port to listen on, overrides server.port (env: QUIZROOM_PORT)")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "human-readable debug logging (env: QUIZROOM_VERBOSE)")
	bindEnv(fs)

	cmd.AddCommand(NewStartCmd(flags))
	cmd.AddCommand(NewMigrateCmd(flags))
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("quiz-room-service v{{.Version}}\n")
	return cmd
}

// bindEnv lets QUIZROOM_<FLAG> environment variables fill flags that were
// not set on the command line.
func bindEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix("QUIZROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
