package cli

import (
	identitySession "github.com/felixgeelhaar/daybook/internal/identity/session"
	"github.com/felixgeelhaar/daybook/internal/items/application"
	"github.com/felixgeelhaar/daybook/internal/items/domain"
	"github.com/felixgeelhaar/daybook/internal/items/projection"
	itemSession "github.com/felixgeelhaar/daybook/internal/items/session"
)

// App holds the CLI application dependencies. One App corresponds to
// one page session: the interaction controller and its working copy
// live exactly as long as the invocation and are never shared.
type App struct {
	Store       domain.Store
	Projector   *projection.Projector
	Controller  *itemSession.Controller
	Coordinator *application.Coordinator
	Sessions    *identitySession.Store
}

var app *App

// SetApp installs the application dependencies for commands to use.
func SetApp(a *App) {
	app = a
}

// GetApp returns the current application dependencies.
func GetApp() *App {
	return app
}
