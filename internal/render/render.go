package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/cargonix/cargonix/internal/config"
	"github.com/cargonix/cargonix/internal/prefetch"
)

// Marker is the provenance line embedded in every generated descriptor file.
// Its presence is what allows cargonix to regenerate the file; files without
// it are treated as hand-authored and never overwritten.
const Marker = "@generated by cargonix"

const sourcesNixTemplate = `# {{ .Marker }}
#
# Out-of-tree sources for the Cargo workspace. Do not edit by hand;
# regenerate with 'cargonix generate'.
{ pkgs ? import <nixpkgs> { } }:
rec {
  sources = {
{{- range .Sources }}
    {{ .Name }} = {{ .Expr }};
{{- end }}
  };

  # One subdirectory per source, named after its declaration.
  fetchedSources = pkgs.linkFarm "cargonix-sources" [
{{- range .Sources }}
    { name = {{ .Name }}; path = sources.{{ .Name }}; }
{{- end }}
  ];
}
`

type renderedSource struct {
	Name string // quoted nix string
	Expr string
}

type templateData struct {
	Marker  string
	Sources []renderedSource
}

// SourcesNix renders the descriptor file for the given configuration.
// Sources are emitted in name order so unchanged declarations produce
// byte-identical output.
func SourcesNix(cfg *config.Config) ([]byte, error) {
	data := templateData{Marker: Marker}
	for _, name := range cfg.SourceNames() {
		expr, err := sourceExpr(cfg.Sources[name])
		if err != nil {
			return nil, fmt.Errorf("rendering source '%s': %w", name, err)
		}
		data.Sources = append(data.Sources, renderedSource{
			Name: nixString(name),
			Expr: expr,
		})
	}

	tmpl, err := template.New("sources.nix").Parse(sourcesNixTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing descriptor template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing descriptor template: %w", err)
	}
	return buf.Bytes(), nil
}

// sourceExpr builds the nix fetch expression for one declaration.
func sourceExpr(src config.Source) (string, error) {
	switch src.Type {
	case config.KindCratesIO:
		if src.Hash == "" {
			return "", fmt.Errorf("crates-io source has no hash; run hash completion first")
		}
		return fmt.Sprintf(
			"pkgs.fetchzip { url = %s; sha256 = %s; extension = \"tar.gz\"; }",
			nixString(prefetch.DownloadURL(src.Package, src.Version)), nixString(src.Hash)), nil
	case config.KindGit:
		if src.Hash == "" {
			return "", fmt.Errorf("git source has no hash; run hash completion first")
		}
		return fmt.Sprintf(
			"pkgs.fetchgit { url = %s; rev = %s; sha256 = %s; }",
			nixString(src.URL), nixString(src.Rev), nixString(src.Hash)), nil
	case config.KindNix:
		return nixExpr(src), nil
	default:
		return "", fmt.Errorf("unknown source type '%s'", src.Type)
	}
}

func nixExpr(src config.Source) string {
	base := src.Expr
	if src.File != "" {
		base = fmt.Sprintf("import %s { inherit pkgs; }", src.File)
	}
	if src.Attr != "" {
		return fmt.Sprintf("(%s).%s", base, src.Attr)
	}
	return fmt.Sprintf("(%s)", base)
}

// nixString quotes a Go string as a nix string literal.
func nixString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteString("\\$")
			} else {
				b.WriteByte(c)
			}
		case '\n':
			b.WriteString("\\n")
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
