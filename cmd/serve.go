package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/nestegg/internal/api"
	"github.com/theirongolddev/nestegg/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the active session as a JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	addr := flagServeAddr
	if addr == "" {
		addr = appConfig.Server.Addr
	}
	if !flagDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	log := logger.Get()
	sess, err := loadSession(st, log)
	if err != nil {
		return err
	}

	srv := api.New(api.Config{Addr: addr, EventsBuffer: flagServeEventsBuffer}, sess,
		api.WithSaver(st),
		api.WithLogger(log))

	fmt.Printf("  nestegg API listening on http://%s\n", addr)
	fmt.Printf("  Session %s (current year %d)\n", shortID(sess.ID()), sess.CurrentYear())
	fmt.Println("  Stop with Ctrl+C")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
