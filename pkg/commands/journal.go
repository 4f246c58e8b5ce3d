package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/config"
	"tableflip.dev/journal/pkg/logging"
	"tableflip.dev/journal/pkg/state"
	"tableflip.dev/journal/pkg/store"
)

// journal carries what every subcommand shares: the configuration and the
// lazily opened store.
type journal struct {
	cfg       *config.Config
	store     store.Store
	ephemeral bool
}

func (j *journal) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		return err
	}
	j.cfg = cfg
	return nil
}

func (j *journal) config() *config.Config {
	if j.cfg == nil {
		return &config.Config{
			Path:      config.DefaultPath,
			Debounce:  config.DefaultDebounce,
			LogLevel:  config.DefaultLogLevel,
			ExportDir: config.DefaultExportDir,
		}
	}
	return j.cfg
}

func (j *journal) open() (store.Store, error) {
	if j.store != nil {
		return j.store, nil
	}
	if j.ephemeral {
		j.store = store.NewMemory()
		return j.store, nil
	}
	d, err := store.Load(j.config())
	if err != nil {
		return nil, err
	}
	j.store = d
	return d, nil
}

func (j *journal) services() (*app.Services, error) {
	s, err := j.open()
	if err != nil {
		return nil, err
	}
	return app.New(s, nil), nil
}

// controller returns a loaded controller whose destructive actions are
// guarded by cf.
func (j *journal) controller(cf state.Confirmer) (*app.Services, *state.Controller, error) {
	svcs, err := j.services()
	if err != nil {
		return nil, nil, err
	}
	ctrl := state.New(svcs,
		state.WithConfirmer(cf),
		state.WithDebounce(j.config().Debounce),
	)
	ctrl.Load()
	return svcs, ctrl, nil
}

// confirmer asks on the terminal. Without a terminal it declines unless yes
// is set.
func confirmer(cmd *cobra.Command, yes bool) state.Confirmer {
	if yes {
		return state.Allow
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return state.ConfirmFunc(func(prompt string) bool {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s Re-run with --yes to confirm.\n", prompt)
			return false
		})
	}
	return Prompt(in, cmd.ErrOrStderr())
}

// Prompt asks each question interactively and accepts a yes answer.
func Prompt(in io.Reader, out io.Writer) state.Confirmer {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} [y/N]: ",
		Valid:   "{{ . }} [y/N]: ",
		Invalid: "{{ . | red }} [y/N]: ",
		Success: "{{ . | bold }} ",
	}
	validate := func(input string) error {
		_, err := ParseAnswer(input)
		return err
	}
	return state.ConfirmFunc(func(question string) bool {
		prompt := promptui.Prompt{
			Label:     question,
			Templates: templates,
			Validate:  validate,
			Stdin:     io.NopCloser(in),
			Stdout:    nopWriteCloser{out},
		}
		answer, err := prompt.Run()
		if err != nil {
			return false
		}
		ok, _ := ParseAnswer(answer)
		return ok
	})
}

// ParseAnswer reads a yes/no reply. An empty reply means no.
func ParseAnswer(str string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "y", "yes", "t", "true":
		return true, nil
	case "", "n", "no", "f", "false":
		return false, nil
	}
	return false, fmt.Errorf("answer %q is not yes or no", str)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
