package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/session"
	catalogsvc "github.com/trezcool/academia/services/catalog"
	identitysvc "github.com/trezcool/academia/services/identity"
	logsvc "github.com/trezcool/academia/services/logger"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	svcLogger := logsvc.NewConsoleLogger(logger, conf)

	// the credential file plays the browser's persisted-token role here
	credPath, err := identitysvc.DefaultCredentialPath(conf.AppName)
	errAndDie(err)
	creds := identitysvc.NewFileCredentialStore(credPath)

	store := session.NewStore()
	authSvc := auth.NewService(store, identitysvc.NewClient(conf, creds, svcLogger), creds, svcLogger)

	ctx, cancel := context.WithTimeout(context.Background(), conf.API.Timeout)
	defer cancel()
	authSvc.Startup(ctx)

	catSvc := catalog.NewService(catalogsvc.NewRepository(conf, func() string {
		return store.Current().Token
	}))

	// start CLI
	cli := commandLine{
		authSvc: authSvc,
		store:   store,
		catSvc:  catSvc,
		out:     os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
