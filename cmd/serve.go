package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/prism/internal/preview"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve a live style guide while watching the token document",
	Long: `Start the preview server and the watch loop together. The style guide at
/ shows the color palette, the type scale and every custom property; open
pages reload their stylesheets after each successful rebuild.

Routes:
  GET /                style guide
  GET /css/{name}      base, slidev, reveal or webslides stylesheet
  GET /tokens.json     flattened custom properties
  GET /status          build metrics
  GET /ws              live reload websocket

Examples:
  prism serve                          # http://localhost:4173
  prism serve --port 8080 --host 0.0.0.0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to serve on (default from config, 4173)")
	serveCmd.Flags().String("host", "", "host to bind to (default from config, localhost)")
	bindFlag("server.port", serveCmd.Flags().Lookup("port"))
	bindFlag("server.host", serveCmd.Flags().Lookup("host"))
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	server := preview.New(a.compiler, a.cfg.Server.Addr(), a.logger)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Start(ctx)
	})
	g.Go(func() error {
		return a.watch(ctx, cmd, nil)
	})

	return g.Wait()
}
