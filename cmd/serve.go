package cmd

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hance08/teller/internal/app"
	"github.com/hance08/teller/internal/server"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	Addr string
}

type serveRunner struct {
	app   *app.App
	flags *serveFlags
}

func NewServeCmd(application *app.App) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local development backend",
		Long: `Run a local backend that serves the transaction API from a sqlite database.
The database is created and seeded with sample accounts on first start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &serveRunner{
				app:   application,
				flags: flags,
			}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", "", "listen address (default from server.addr)")

	return cmd
}

func (r *serveRunner) Run(ctx context.Context) error {
	addr := r.flags.Addr
	if addr == "" {
		addr = r.app.Config.Server.Addr
	}

	db, err := r.app.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	gin.SetMode(gin.ReleaseMode)
	pterm.Info.Printfln("Serving the transaction API on %s (Ctrl+C to stop)", addr)

	if err := server.New(db, r.app.Logger).Run(ctx, addr); err != nil {
		return err
	}

	pterm.Success.Println("Server stopped")
	return nil
}
