package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	authSvc *auth.Service
	store   *session.Store
	catSvc  *catalog.Service
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                            - sign in; the password will be prompted next")
	fmt.Fprintln(cli.out, "  logout                                        - sign out and drop the stored credential")
	fmt.Fprintln(cli.out, "  status                                        - show whether a session is active")
	fmt.Fprintln(cli.out, "  announcements [-role ROLE] [-search TERM]     - list announcements")
	fmt.Fprintln(cli.out, "  quizzes [-course C] [-topic T] [-search TERM] - list quizzes")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account's email. The password will be prompted next.")

	annCmd := flag.NewFlagSet("announcements", flag.ExitOnError)
	annRole := annCmd.String("role", "", "Only announcements for this audience.")
	annSearch := annCmd.String("search", "", "Match on title or content.")

	quizCmd := flag.NewFlagSet("quizzes", flag.ExitOnError)
	quizCourse := quizCmd.String("course", "", "Only quizzes for this course.")
	quizTopic := quizCmd.String("topic", "", "Only quizzes for this topic.")
	quizSearch := quizCmd.String("search", "", "Match on question, course or topic.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, string(pwd))
	case "logout":
		return cli.logout()
	case "status":
		return cli.status()
	case "announcements":
		if err := annCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listAnnouncements(catalog.AnnouncementFilter{Search: *annSearch, Role: *annRole})
	case "quizzes":
		if err := quizCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listQuizzes(catalog.QuizFilter{Search: *quizSearch, Course: *quizCourse, Topic: *quizTopic})
	default:
		cli.printUsage()
		return errHelp
	}
}
