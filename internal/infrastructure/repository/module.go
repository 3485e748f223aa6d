package repository

import (
	"go.uber.org/fx"
)

var Module = fx.Module("repository",
	fx.Provide(NewCredentialRepository),
	fx.Provide(NewAccountRepository),
	fx.Provide(NewPreferenceRepository),
	fx.Provide(NewFormRepository),
	fx.Provide(NewLeadRepository),
)
