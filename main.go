package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-laravel-validation/framework/app"
	"github.com/km-arc/go-laravel-validation/routes"
	"github.com/km-arc/go-laravel-validation/validators"
)

func main() {
	application := app.New( // loads .env automatically
		app.WithRules(validators.Register),
		app.WithDefinitions(validators.Definitions()),
	)
	if err := application.Boot(); err != nil {
		fmt.Fprintln(os.Stderr, "boot:", err)
		os.Exit(1)
	}

	logger := application.Logger()
	routes.Register(application.Router(), routes.Deps{
		Engine:     application.Engine(),
		Validators: application.Validators(),
		Logger:     logger,

		DefaultScope: application.Config().Validation.DefaultScope,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
