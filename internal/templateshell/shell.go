// Package templateshell is an interactive editor for the group address
// name template of a project.
//
// Typing a template shows how it parses and what names it produces for the
// first addresses of the project. "save" stores it in the project.
package templateshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/naming"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
)

// defaultPreview is the number of addresses rendered by show.
const defaultPreview = 8

// SaveFunc persists the project after the template was changed.
type SaveFunc func(m *project.BuildingModel) error

// Shell holds the editing state. The model's template is only changed by
// the save command.
type Shell struct {
	model    *project.BuildingModel
	template string
	dirty    bool
	save     SaveFunc
	preview  int
	out      io.Writer
}

// New returns a shell editing model's name template. save may be nil, in
// which case the save command only updates the in-memory model.
func New(model *project.BuildingModel, save SaveFunc) *Shell {
	tpl := model.ViewOptions.NameTemplate
	if tpl == "" {
		tpl = project.DefaultNameTemplate
	}
	return &Shell{
		model:    model,
		template: tpl,
		save:     save,
		preview:  defaultPreview,
		out:      io.Discard,
	}
}

// SetPreview sets how many addresses show renders.
func (s *Shell) SetPreview(n int) {
	if n > 0 {
		s.preview = n
	}
}

// Template returns the template currently being edited.
func (s *Shell) Template() string {
	return s.template
}

// Run starts the interactive loop on the terminal until exit, EOF or ctx
// cancellation.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "template> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("help"),
			readline.PcItem("keys"),
			readline.PcItem("show"),
			readline.PcItem("reset"),
			readline.PcItem("save"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.out = rl.Stdout()
	s.printHelp()
	s.show()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			s.warnUnsaved()
			return nil
		}

		if quit := s.Execute(line); quit {
			return nil
		}
	}
}

// Execute handles one input line and reports whether the shell should
// exit. Output goes to the writer set by SetOutput or Run.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	switch strings.ToLower(input) {
	case "help", "?":
		s.printHelp()
	case "keys":
		s.printKeys()
	case "show":
		s.show()
	case "reset":
		s.setTemplate(s.currentProjectTemplate())
		s.show()
	case "save":
		s.cmdSave()
	case "exit", "quit", "q":
		s.warnUnsaved()
		fmt.Fprintln(s.out, "Exiting...")
		return true
	default:
		s.setTemplate(input)
		s.show()
	}
	return false
}

// SetOutput directs command output to w.
func (s *Shell) SetOutput(w io.Writer) {
	s.out = w
}

func (s *Shell) currentProjectTemplate() string {
	if s.model.ViewOptions.NameTemplate == "" {
		return project.DefaultNameTemplate
	}
	return s.model.ViewOptions.NameTemplate
}

func (s *Shell) setTemplate(tpl string) {
	s.template = tpl
	s.dirty = tpl != s.currentProjectTemplate()
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Name template editor:
  <template>  - Try a template, e.g. {area.abbr} {room.name} - {function.name}
  keys        - List placeholders
  show        - Show the current template and preview
  reset       - Go back to the project's template
  save        - Store the template in the project
  exit        - Leave the editor`)
}

func (s *Shell) printKeys() {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, p := range naming.Placeholders() {
		key := "{" + p.Key + "}"
		if p.Padded {
			key = "{" + p.Key + ":N}"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", key, p.Description)
	}
	tw.Flush() //nolint:errcheck // terminal output
}

func (s *Shell) show() {
	fmt.Fprintf(s.out, "Template: %s\n", s.template)
	if s.dirty {
		fmt.Fprintln(s.out, "(unsaved)")
	}

	fmt.Fprint(s.out, "Parts:")
	for _, p := range naming.Parse(s.template) {
		switch {
		case !p.IsPlaceholder():
			fmt.Fprintf(s.out, " %q", p.Literal)
		case p.Known:
			fmt.Fprintf(s.out, " [%s]", p.Literal)
		default:
			fmt.Fprintf(s.out, " [%s ?]", p.Literal)
		}
	}
	fmt.Fprintln(s.out)

	if unknown := naming.UnknownKeys(s.template); len(unknown) > 0 {
		fmt.Fprintf(s.out, "Unknown keys (left as typed): %s\n", strings.Join(unknown, ", "))
	}

	addresses := s.previewRows()
	if len(addresses) == 0 {
		fmt.Fprintln(s.out, "No addresses to preview; the project has no function instances.")
		return
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, r := range addresses {
		fmt.Fprintf(tw, "  %d/%d/%d\t%s\n", r.MainGroup, r.Middle(), r.SubAddress(), r.Name)
	}
	tw.Flush() //nolint:errcheck // terminal output
}

// previewRows renders the first addresses of the project with the edited
// template, without touching the project itself.
func (s *Shell) previewRows() []generator.Row {
	m := *s.model
	m.ViewOptions.NameTemplate = s.template

	var out []generator.Row
	for _, r := range generator.Generate(&m) {
		if !r.IsAddress() {
			continue
		}
		out = append(out, r)
		if len(out) == s.preview {
			break
		}
	}
	return out
}

func (s *Shell) cmdSave() {
	previous := s.model.ViewOptions.NameTemplate
	s.model.ViewOptions.NameTemplate = s.template

	if s.save != nil {
		if err := s.save(s.model); err != nil {
			s.model.ViewOptions.NameTemplate = previous
			fmt.Fprintf(s.out, "Save failed: %v\n", err)
			return
		}
	}

	s.dirty = false
	fmt.Fprintln(s.out, "Saved.")
}

func (s *Shell) warnUnsaved() {
	if s.dirty {
		fmt.Fprintln(s.out, "Template not saved.")
	}
}
