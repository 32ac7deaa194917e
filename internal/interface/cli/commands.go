package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/alem-hub/score-tracker/config"
	"github.com/alem-hub/score-tracker/internal/application/command"
	"github.com/alem-hub/score-tracker/internal/application/query"
	"github.com/alem-hub/score-tracker/internal/domain/student"
	"github.com/alem-hub/score-tracker/internal/infrastructure/export"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCESS GATE
// ══════════════════════════════════════════════════════════════════════════════

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "unlock the tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
		},
		Action: public(func(c *cli.Context, rt *Runtime) error {
			saved, err := rt.Gate.Login(c.Context, c.String("password"))
			if err := rt.Session.Finish("auth.login", err); err != nil {
				return rejected(err)
			}
			return report(c, "Logged in.", saved)
		}),
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "lock the tracker",
		Action: public(func(c *cli.Context, rt *Runtime) error {
			saved := rt.Gate.Logout(c.Context)
			_ = rt.Session.Finish("auth.logout", nil)
			return report(c, "Logged out.", saved)
		}),
	}
}

func recoverCommand() *cli.Command {
	return &cli.Command{
		Name:  "recover",
		Usage: "show the password hint for the recovery word",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "word", Aliases: []string{"w"}, Required: true},
		},
		Action: public(func(c *cli.Context, rt *Runtime) error {
			hint, err := rt.Gate.Recover(c.String("word"))
			if err := rt.Session.Finish("auth.recover", err); err != nil {
				return rejected(err)
			}
			fmt.Fprintf(c.App.Writer, "Your password is: %s\n", hint)
			return nil
		}),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

func studentCommand() *cli.Command {
	return &cli.Command{
		Name:  "student",
		Usage: "manage students",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "register a student",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					res, err := command.NewAddStudentHandler(rt.Session).Handle(c.Context, command.AddStudentCommand{
						StudentID: c.Int("id"),
						Name:      c.String("name"),
					})
					if err != nil {
						return rejected(err)
					}
					return report(c, res.Message, res.Saved)
				}),
			},
			{
				Name:  "remove",
				Usage: "remove a student and all its scores",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Required: true},
				},
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					res, err := command.NewRemoveStudentHandler(rt.Session).Handle(c.Context, command.RemoveStudentCommand{
						StudentID: c.Int("id"),
					})
					if err != nil {
						return rejected(err)
					}
					return report(c, res.Message, res.Saved)
				}),
			},
			{
				Name:  "list",
				Usage: "list students with their scores",
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					return printStudents(c.App.Writer, query.NewListStudentsHandler(rt.Session).Handle())
				}),
			},
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORES
// ══════════════════════════════════════════════════════════════════════════════

func scoreFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "id", Required: true},
		&cli.StringFlag{Name: "period", Required: true, Usage: "Prelim, Midterm or Finals"},
		&cli.StringFlag{Name: "type", Required: true, Usage: "score type such as Quiz or Exam"},
		&cli.Float64Flag{Name: "score", Required: true},
	}
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "manage scores",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "add a score entry",
				Flags: scoreFlags(),
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					res, err := command.NewAddScoreHandler(rt.Session).Handle(c.Context, command.AddScoreCommand{
						StudentID: c.Int("id"),
						Period:    student.Period(c.String("period")),
						Score:     c.Float64("score"),
						Type:      c.String("type"),
					})
					if err != nil {
						return rejected(err)
					}
					return report(c, res.Message, res.SavedStudents, res.SavedAttempts)
				}),
			},
			{
				Name:  "update",
				Usage: "change the value of an existing score entry",
				Flags: scoreFlags(),
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					res, err := command.NewUpdateScoreHandler(rt.Session).Handle(c.Context, command.UpdateScoreCommand{
						StudentID: c.Int("id"),
						Period:    student.Period(c.String("period")),
						Type:      c.String("type"),
						Score:     c.Float64("score"),
					})
					if err != nil {
						return rejected(err)
					}
					return report(c, res.Message, res.Saved)
				}),
			},
			{
				Name:  "remove",
				Usage: "remove the score at a position shown by score list",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Required: true},
					&cli.IntFlag{Name: "index", Required: true},
				},
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					res, err := command.NewRemoveScoreHandler(rt.Session).Handle(c.Context, command.RemoveScoreCommand{
						StudentID: c.Int("id"),
						Index:     c.Int("index"),
					})
					if err != nil {
						return rejected(err)
					}
					return report(c, res.Message, res.Saved)
				}),
			},
			{
				Name:  "list",
				Usage: "list the score entries of one student",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Required: true},
				},
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					res, err := query.NewStudentScoresHandler(rt.Session).Handle(c.Int("id"))
					if err != nil {
						return rejected(err)
					}
					return printScores(c.App.Writer, res)
				}),
			},
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKINGS
// ══════════════════════════════════════════════════════════════════════════════

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "type", Value: student.AllFilter},
		&cli.StringFlag{Name: "period", Value: student.AllFilter},
	}
}

func rankCommand() *cli.Command {
	return &cli.Command{
		Name:  "rank",
		Usage: "rank students by total score",
		Flags: filterFlags(),
		Action: protected(func(c *cli.Context, rt *Runtime) error {
			res := query.NewGetRankingsHandler(rt.Session).Handle(query.GetRankingsQuery{
				Type:   c.String("type"),
				Period: c.String("period"),
			})
			return printRanking(c.App.Writer, res)
		}),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY
// ══════════════════════════════════════════════════════════════════════════════

func attemptsCommand() *cli.Command {
	return &cli.Command{
		Name:  "attempts",
		Usage: "recent score additions",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "show the most recent additions, newest last",
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					return printAttempts(c.App.Writer, query.NewRecentAttemptsHandler(rt.Session).Handle())
				}),
			},
			{
				Name:  "undo",
				Usage: "revert the most recent addition",
				Action: protected(func(c *cli.Context, rt *Runtime) error {
					if err := featureEnabled(rt, config.FeatureActivityUndo); err != nil {
						return err
					}
					res := command.NewUndoHandler(rt.Session).Handle(c.Context, command.UndoCommand{})
					if !res.OK() {
						return cli.Exit(res.Message, 1)
					}
					return report(c, res.Message, res.SavedStudents, res.SavedAttempts)
				}),
			},
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT
// ══════════════════════════════════════════════════════════════════════════════

func exportCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "path of the .xlsx file"},
	}, filterFlags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "write students and rankings to a spreadsheet",
		Flags: flags,
		Action: protected(func(c *cli.Context, rt *Runtime) error {
			if err := featureEnabled(rt, config.FeatureExportXLSX); err != nil {
				return err
			}
			res := query.NewGetRankingsHandler(rt.Session).Handle(query.GetRankingsQuery{
				Type:   c.String("type"),
				Period: c.String("period"),
			})

			path := c.String("out")
			f, err := os.Create(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("cannot create %s: %v", path, err), 1)
			}
			if err := export.WriteWorkbook(f, rt.Session.Registry.List(), res.Ranking); err != nil {
				_ = f.Close()
				return cli.Exit(fmt.Sprintf("cannot export: %v", err), 1)
			}
			if err := f.Close(); err != nil {
				return cli.Exit(fmt.Sprintf("cannot export: %v", err), 1)
			}
			fmt.Fprintf(c.App.Writer, "Exported %d students to %s\n", rt.Session.Registry.Len(), path)
			return nil
		}),
	}
}

// report prints the confirmation of an accepted change and a warning for
// every failed save. The change stays applied in memory either way.
func report(c *cli.Context, message string, saved ...persistence.Outcome) error {
	fmt.Fprintln(c.App.Writer, message)
	for _, out := range saved {
		if !out.OK() {
			fmt.Fprintf(c.App.ErrWriter, "warning: could not save %s: %v\n", out.Document, out.Err)
		}
	}
	return nil
}
