package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/scrollmem/internal/log"
	"github.com/zjrosen/scrollmem/internal/sshserve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scrollmem over SSH",
	Long: `Run an SSH server where every connection gets its own scrollmem session.

When ssh.authorized_keys_path is set only those keys may connect. The host
key is generated on first start.

Example:
  scrollmem serve                  # Listen on :2323
  scrollmem serve --addr :2222     # Listen on port 2222
  ssh -p 2323 localhost            # Connect`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides ssh.listen_addr)")
	serveCmd.Flags().StringP("file", "f", "", "text file every session starts with")
	_ = viper.BindPFlag("ssh.listen_addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		cfg.TextFile = file
	}

	rt, err := setup("scrollmem-serve")
	if err != nil {
		return err
	}
	defer rt.close()

	if !rt.debug {
		// Without a debug log the server reports to stderr.
		log.InitWriter(cmd.ErrOrStderr())
		log.SetMinLevel(log.LevelInfo)
	}

	text, err := loadText(cfg.TextFile)
	if err != nil {
		return err
	}

	server, err := sshserve.NewServer(sshserve.Config{
		App:       cfg,
		Text:      text,
		Tokenizer: rt.tokenizer,
		Tracer:    rt.tracer,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return sshserve.Serve(ctx, server)
}
