package main

import (
	"fmt"
	"log"
	"os"

	echoweb "github.com/trezcool/academia/apps/web/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/catalog"
	catalogsvc "github.com/trezcool/academia/services/catalog"
	emailsvc "github.com/trezcool/academia/services/email"
	sendgridmail "github.com/trezcool/academia/services/email/sendgrid"
	identitysvc "github.com/trezcool/academia/services/identity"
	logsvc "github.com/trezcool/academia/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std, conf)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}
	logger.Enable(true)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)

	app := echoweb.NewServer(&echoweb.Options{
		Conf:       conf,
		Logger:     logger,
		EmailSvc:   mailSvc,
		Validate:   validate,
		Translator: translator,
		NewGateway: func(creds auth.CredentialStore) auth.Gateway {
			return identitysvc.NewClient(conf, creds, logger)
		},
		NewCatalog: func(token catalogsvc.TokenFunc) *catalog.Service {
			return catalog.NewService(catalogsvc.NewRepository(conf, token))
		},
	})

	logger.Info("Web server listening on " + conf.Server.Addr)
	app.Start()
}
