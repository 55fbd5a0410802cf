package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/otp"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.otp.enabled") {
		if err := otp.New(otp.Dependency{
			DBConn:      a.dbConn,
			Mail:        a.mail,
			Messaging:   a.messaging,
			Goroutine:   a.goroutine,
			Router:      a.router,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			Clock:       a.clock,
			Totp:        a.totp,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module otp", "error", err)
			os.Exit(1)
		}
	}
}
