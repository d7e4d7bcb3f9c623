package main

import (
	"fmt"
	"log"
	"os"
	"time"

	. "github.com/ZenLiuCN/simcb"
	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()
	app := cli.NewApp()
	app.Usage = "simulation callback builder"
	app.Name = "cbuild"
	app.Description = "compiles native step callbacks and the engine extension module"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
		},
		&cli.StringFlag{
			Name:    "install",
			Aliases: []string{"i"},
			Usage:   "engine install description (yaml), discovered from SIMCB_PATH when absent",
		},
	}
	app.Args = true
	app.Commands = []*cli.Command{
		{
			Name:   "build",
			Action: build,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "alias", Aliases: []string{"a"}, Usage: "userdata alias names in slot order"},
			},
			Args:  true,
			Usage: "compile a callback source file and print the entry address",
		},
		{
			Name:   "clean",
			Action: clean,
			Args:   true,
			Usage:  "remove generated files for the given identity prefixes",
		},
		{
			Name:   "module",
			Action: module,
			Args:   true,
			Usage:  "run the extension module build from a json manifest",
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func install(ctx *cli.Context) (*Install, error) {
	if p := ctx.String("install"); p != "" {
		return LoadInstall(p)
	}
	return DiscoverInstall()
}

func build(ctx *cli.Context) (err error) {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("missing callback source file")
	}
	in, err := install(ctx)
	if err != nil {
		return
	}
	in.CheckKey()
	body, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return
	}
	b := &Builder{Install: in, Debug: ctx.Bool("debug")}
	p, err := b.BuildCallback(string(body), ctx.StringSlice("alias")...)
	if err != nil {
		return
	}
	fmt.Printf("0x%x\n", uintptr(p))
	return
}

func clean(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("missing identity prefixes")
	}
	for _, prefix := range ctx.Args().Slice() {
		Cleanup(os.TempDir(), prefix)
	}
	return nil
}

// manifest describes one extension module build.
type manifest struct {
	Command  []string `json:"command"`
	Workdir  string   `json:"workdir"`
	Pattern  string   `json:"pattern"`
	Timeout  int      `json:"timeout"` // seconds per attempt
	Attempts int      `json:"attempts"`
	Prefix   string   `json:"prefix"` // registry prefix, optional
}

func module(ctx *cli.Context) (err error) {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("missing build manifest")
	}
	raw, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return
	}
	var mf manifest
	if err = json.Unmarshal(raw, &mf); err != nil {
		return
	}
	mb := &ModuleBuild{
		Command:  mf.Command,
		Workdir:  mf.Workdir,
		Pattern:  mf.Pattern,
		Timeout:  time.Duration(mf.Timeout) * time.Second,
		Attempts: mf.Attempts,
		Debug:    ctx.Bool("debug"),
	}
	m, err := mb.Run()
	if err != nil {
		return
	}
	if mf.Prefix != "" {
		r := NewRegistry(m, mf.Prefix)
		if ctx.Bool("debug") {
			spew.Dump(r.Names())
			return
		}
		for _, n := range r.Names() {
			fmt.Println(n)
		}
		return
	}
	for _, n := range m.Exports() {
		fmt.Println(n)
	}
	return
}
