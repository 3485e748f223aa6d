package provider

import "go.uber.org/fx"

var Module = fx.Module("provider",
	fx.Provide(NewGoogleStrategy),
	fx.Provide(NewGoogleAdsStrategy),
	fx.Provide(NewMetaStrategy),
	fx.Provide(NewRegistry),
	fx.Provide(func(g *GoogleStrategy) SearchConsoleClient { return g }),
)
