package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdmleite/webship/internal/analyzer"
	"github.com/pdmleite/webship/internal/preview"
	"github.com/pdmleite/webship/internal/project"
)

var (
	flagPreviewPort int
	flagPreviewDir  string
)

var previewCmd = &cobra.Command{
	Use:   "preview [dir]",
	Short: "Serve the built site locally before deploying",
	Long: `Preview serves the publish directory over HTTP with the same
single-page-app fallback the platforms apply, so the built site can be
checked before it ships.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&flagPreviewPort, "port", 0, "port to listen on (default from config, 4173)")
	previewCmd.Flags().StringVar(&flagPreviewDir, "dir", "", "directory to serve, overriding detection")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	publishDir, err := resolvePublishDir(projectDir)
	if err != nil {
		return err
	}

	port := cfg.Preview.Port
	if flagPreviewPort > 0 {
		port = flagPreviewPort
	}

	server, err := preview.New(publishDir, cfg.Preview.Host, port)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	cmd.Printf("Serving %s on %s\n", publishDir, cyan("http://"+server.Addr()))
	cmd.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info().Msg("Shutting down preview server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// resolvePublishDir finds the directory to serve: the --dir flag, then
// saved settings, then detection
func resolvePublishDir(projectDir string) (string, error) {
	if flagPreviewDir != "" {
		return filepath.Join(projectDir, flagPreviewDir), nil
	}

	if f, err := project.Load(projectDir); err == nil && f != nil && f.PublishDir != "" {
		return filepath.Join(projectDir, f.PublishDir), nil
	}

	analysis, err := analyzer.New().Analyze(projectDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(projectDir, analysis.PublishDir), nil
}
