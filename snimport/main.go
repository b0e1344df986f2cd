package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "snimport",
		Usage: "Import events and RSVPs from users' connected social networks.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(ModeEvent), Usage: "import mode: event or rsvp"},
			&cli.StringFlag{Name: "social-network", Aliases: []string{"s"}, Usage: "restrict the run to one social network"},
		},
		Action: runOnce,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the webhook receiver and the recurring import schedule",
				Action: serve,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func initAll() {
	initEnv()
	initLogger()
	loadPasswords()
	initDB()
	initCache()
	initEmailTemplates()
}

func runOnce(c *cli.Context) error {
	initAll()

	o := newImportOrchestrator()

	res, err := o.Run(ImportMode(c.String("mode")), c.String("social-network"))
	if err != nil {
		ErrorLog.Println("import run failed: ", err)
		return err
	}

	InfoLog.Printf("done: tasks=%d events=%d rsvps=%d failures=%d\n", res.Tasks, res.Events, res.Rsvps, res.Failures)

	return nil
}

func serve(c *cli.Context) error {
	initAll()

	o := newImportOrchestrator()

	if env.Production {
		gin.SetMode(gin.ReleaseMode)
		gin.DisableConsoleColor()
	}

	router := gin.New()

	if env.Production {
		router.Use(GinLogger())
	} else {
		router.Use(gin.Logger())
	}

	router.Use(gin.Recovery())

	registerRoutes(router, o)

	startCrons(o)

	return router.Run(":8080")
}

func registerRoutes(router *gin.Engine, o *ImportOrchestrator) {
	registerImportRoutes(router, o)
	registerSocialNetworkRoutes(router)
	registerCredentialRoutes(router)
}
