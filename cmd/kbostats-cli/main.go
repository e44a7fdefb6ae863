package main

import (
	"kbostats-backend/cmd/kbostats-cli/commands"
	"kbostats-backend/lib/serviceutil"
	"kbostats-backend/lib/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	ctx := serviceutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "kbostats-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(ctx)
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
