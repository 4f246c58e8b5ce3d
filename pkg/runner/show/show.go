package show

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/printers"
)

type Show struct {
	ID       string
	Render   bool
	JSON     bool
	Width    int
	Services *app.Services
	Out      io.Writer
}

func (s *Show) Do(ctx context.Context) error {
	if s.Services == nil {
		return errors.New("can not show, no persistence")
	}
	e, err := s.Services.Entries.Resolve(s.ID)
	if err != nil {
		return err
	}
	if s.JSON {
		enc := json.NewEncoder(s.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	}
	pp := printers.PrettyPrint{
		Out:     s.Out,
		Width:   s.Width,
		Render:  s.Render,
		Folders: s.Services.Folders.All(),
	}
	return pp.Entry(e)
}
