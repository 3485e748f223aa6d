package usecase

import "go.uber.org/fx"

var Module = fx.Module("usecase",
	fx.Provide(NewOAuthUsecase),
	fx.Provide(NewInsightsUsecase),
	fx.Provide(NewLeadUsecase),
	fx.Provide(NewAccountUsecase),
)
