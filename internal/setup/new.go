package setup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/yk/internal/models"
	"github.com/starford/yk/internal/selector"
)

var errNameEncodable = errors.New("must not contain line breaks or the selector delimiter")

// validateName checks that name can be stored and shown in the selector.
func validateName(name string) error {
	return validation.Validate(name,
		validation.Required.Error("command name cannot be empty"),
		validation.By(func(v interface{}) error {
			s, _ := v.(string)
			if strings.ContainsAny(s, "\r\n") || strings.Contains(s, selector.Delimiter) {
				return errNameEncodable
			}
			return nil
		}),
	)
}

// NewCommand asks for a simple command's fields and stores it in the
// simple-commands source. Other entries are kept as they are, including ones
// that would not load.
func (s *Setup) NewCommand() error {
	name, err := s.prompter.Ask("Enter command name: ")
	if err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return fmt.Errorf("setup: command name: %w", err)
	}

	labels, err := s.prompter.Fields("Enter command labels (space-separated): ")
	if err != nil {
		return err
	}
	description, err := s.prompter.Ask("Enter command description: ")
	if err != nil {
		return err
	}
	executable, err := s.prompter.Ask("Enter executable path (optional): ")
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Simple commands do not have entry points!")
	args, err := s.prompter.Fields("Enter command arguments (space-separated, optional): ")
	if err != nil {
		return err
	}
	shell, err := s.prompter.Confirm("Execute in shell? (y/N): ")
	if err != nil {
		return err
	}

	snippet := models.Snippet{
		Labels:      nonNil(labels),
		Description: description,
		Executable:  executable,
		Args:        nonNil(args),
		Shell:       shell,
	}

	existing, err := s.loadSimple()
	if err != nil {
		return err
	}

	if _, dup := existing[name]; dup {
		ok, err := s.prompter.Confirm(fmt.Sprintf("Command '%s' already exists, overwrite? (y/N): ", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(s.out, "Cancelled creation of command '%s'\n", name)
			return nil
		}
	}

	raw, err := json.Marshal(snippet)
	if err != nil {
		return fmt.Errorf("setup: encode command: %w", err)
	}
	existing[name] = raw

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("setup: encode simple commands: %w", err)
	}
	if err := s.store.Write(s.layout.SimpleCommandsFile, append(data, '\n')); err != nil {
		return err
	}

	path, _ := s.store.Abs(s.layout.SimpleCommandsFile)
	fmt.Fprintf(s.out, "Created simple command '%s' and saved to %s\n", name, path)
	return nil
}

// loadSimple reads the simple-commands source as raw members. A missing or
// blank file is an empty source.
func (s *Setup) loadSimple() (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage)
	exists, err := s.store.Exists(s.layout.SimpleCommandsFile)
	if err != nil || !exists {
		return out, err
	}
	data, err := s.store.Read(s.layout.SimpleCommandsFile)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("setup: parse simple commands: %w", err)
	}
	if out == nil {
		out = make(map[string]json.RawMessage)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
