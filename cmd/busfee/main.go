package main

import (
	"context"
	"os"

	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.CtxError(ctx, log_messages.AppStoppedWithError, err)
		os.Exit(1)
	}
}
