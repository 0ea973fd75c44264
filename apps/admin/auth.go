package main

import (
	"context"
	"errors"
	"fmt"
)

func (cli *commandLine) login(email, pwd string) error {
	res := cli.authSvc.Login(context.Background(), email, pwd)
	if !res.OK {
		return errors.New(res.Err)
	}
	fmt.Fprintln(cli.out, "Signed in.")
	return nil
}

func (cli *commandLine) logout() error {
	cli.authSvc.Logout()
	fmt.Fprintln(cli.out, "Signed out.")
	return nil
}

func (cli *commandLine) status() error {
	if cli.store.Current().IsAuthenticated {
		fmt.Fprintln(cli.out, "Signed in.")
	} else {
		fmt.Fprintln(cli.out, "Signed out.")
	}
	return nil
}
