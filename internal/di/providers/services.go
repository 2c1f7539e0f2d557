package providers

import (
	"github.com/samber/do/v2"

	"github.com/vsrunapp/vsrun-server/internal/auth"
	"github.com/vsrunapp/vsrun-server/internal/config"
	"github.com/vsrunapp/vsrun-server/internal/logger"
	"github.com/vsrunapp/vsrun-server/internal/service"
	"github.com/vsrunapp/vsrun-server/internal/strava"
)

// ProvideAuthService provides the auth service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, log.Logger), nil
}

// ProvideShoeService provides the shoe service.
func ProvideShoeService(i do.Injector) (*service.ShoeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShoeService(storeHandle.Store, log.Logger), nil
}

// ProvideRotationService provides the rotation service.
func ProvideRotationService(i do.Injector) (*service.RotationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRotationService(storeHandle.Store, log.Logger), nil
}

// ProvideActivityService provides the race and highlight service.
func ProvideActivityService(i do.Injector) (*service.ActivityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewActivityService(storeHandle.Store, log.Logger), nil
}

// ProvideStravaClient provides the Strava API client.
func ProvideStravaClient(i do.Injector) (*strava.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return strava.New(strava.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
	}, log.Logger), nil
}

// ProvideStravaService provides the Strava integration service.
func ProvideStravaService(i do.Injector) (*service.StravaService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*strava.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStravaService(storeHandle.Store, client, log.Logger), nil
}
