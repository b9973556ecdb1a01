package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
	"gopkg.in/yaml.v3"
)

func loadDescriptorsFromDir(dir string) ([]model.AgentDescriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, xerrors.Wrap(xerrors.KindIO, err, "agent: read descriptors directory %s", dir)
	}
	var out []model.AgentDescriptor
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.KindIO, err, "agent: read %s", path)
		}
		var d model.AgentDescriptor
		if err := yaml.Unmarshal(data, &d); err != nil {
			// A malformed descriptor is skipped rather than failing registry
			// load entirely, matching the store's per-kind quarantine rule.
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func writeDescriptorYAML(dir string, d model.AgentDescriptor) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return xerrors.Wrap(xerrors.KindIO, err, "agent: create descriptors directory %s", dir)
	}
	data, err := yaml.Marshal(d)
	if err != nil {
		return xerrors.Wrap(xerrors.KindSchema, err, "agent: marshal descriptor %s", d.Name)
	}
	path := filepath.Join(dir, d.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return xerrors.Wrap(xerrors.KindIO, err, "agent: write %s", path)
	}
	return nil
}

const personaTemplate = `# {{.DisplayName}} {{.Emoji}}

- **Language:** {{.Language}}
- **Frameworks:** {{range .Frameworks}}{{.}} {{end}}
- **Test command:** ` + "`{{.TestCommand}}`" + `
- **Coverage command:** ` + "`{{.CoverageCommand}}`" + `

## Skills
{{range .SkillKeywords}}- {{.}}
{{end}}
`

var personaTmpl = template.Must(template.New("persona").Parse(personaTemplate))

// writeDescriptorMarkdown renders a human-readable persona sidecar next to
// the YAML descriptor, in the teacher's convention of pairing a machine
// config with a markdown artifact a person can skim.
func writeDescriptorMarkdown(dir string, d model.AgentDescriptor) error {
	path := filepath.Join(dir, d.Name+".md")
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Wrap(xerrors.KindIO, err, "agent: create %s", path)
	}
	defer f.Close()
	if err := personaTmpl.Execute(f, d); err != nil {
		return xerrors.Wrap(xerrors.KindIO, fmt.Errorf("render persona: %w", err), "agent: write %s", path)
	}
	return nil
}
