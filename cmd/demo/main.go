// Command demo fills a journal directory with sample folders and entries.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/config"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/store"
)

type sample struct {
	folder  string
	title   string
	content string
	color   entry.Color
	age     time.Duration
}

var samples = []sample{
	{folder: "Work", title: "Sprint planning", content: "- ship the export button\n- fix the *autosave* flicker", color: entry.Blue, age: 72 * time.Hour},
	{folder: "Work", title: "1:1 notes", content: "Talked about **growth** and the offsite.", color: entry.Teal, age: 48 * time.Hour},
	{folder: "Travel", title: "Lisbon", content: "Pastéis de nata at 8am. Tram 28 was packed.", color: entry.Amber, age: 30 * time.Hour},
	{title: "", content: "A thought with no title and no folder.", age: 5 * time.Hour},
	{title: "Gratitude", content: "1. Coffee\n2. Sunshine\n3. A quiet morning", color: entry.Rose, age: time.Hour},
}

func main() {
	dir := flag.String("path", "", "journal directory; defaults to the configured path")
	flag.Parse()

	if err := seed(*dir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func seed(dir string) error {
	var cfg store.Config = store.Dir(dir)
	if dir == "" {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
	}
	p, err := store.Load(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	svcs := app.New(p, nil)
	folders := map[string]entry.FolderRef{}
	for _, s := range samples {
		if s.folder == "" || folders[s.folder].IsSet() {
			continue
		}
		f, err := svcs.Folders.Create(s.folder)
		if err != nil {
			return err
		}
		folders[s.folder] = f.Ref()
	}
	for _, s := range samples {
		at := entry.At(now.Add(-s.age))
		e := entry.Entry{
			ID:        entry.NewID(),
			Title:     s.title,
			Content:   s.content,
			CreatedAt: at,
			UpdatedAt: at,
			Color:     s.color,
			FolderID:  folders[s.folder],
		}
		if err := svcs.Entries.Save(e); err != nil {
			return err
		}
	}

	pp := printers.PrettyPrint{ShowID: true, Folders: svcs.Folders.All()}
	pp.TitleWithCount(p.BasePath(), len(samples))
	pp.Entries(svcs.Entries.All()...)
	return nil
}
