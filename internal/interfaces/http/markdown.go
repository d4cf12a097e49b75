package http

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"wallet/internal/domain/portfolio"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

const motivation = `#### O que não quero para a minha vida:
- Não quero trabalhar a vida inteira.
- Não quero o que meus pais aspiravam para mim, que é a segurança no emprego e uma casa em um bairro de classe média alta.
- Não quero ser empregado.

#### O que quero para a minha vida:
- Quero ser financeiramente independente para viajar pelo mundo e viver o estilo de vida que gosto.
- Quero fazer isso ainda jovem.
- Quero controlar meu tempo e minha vida.
- Quero que o dinheiro trabalhe para mim.
- **Quero ser simplesmente livre.**
`

const goalQuote = `_**Quem não sabe onde quer chegar, qualquer lugar serve, ATÉ LUGAR NENHUM**._

> Prof. Mira
`

// renderMarkdown converts markdown to HTML. Raw HTML in src is not passed
// through.
func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// milestoneColumns renders the milestones as two markdown lists, achieved
// ones struck through.
func milestoneColumns(milestones []portfolio.Milestone) ([]template.HTML, error) {
	half := (len(milestones) + 1) / 2
	var out []template.HTML
	for _, part := range [][]portfolio.Milestone{milestones[:half], milestones[half:]} {
		var src strings.Builder
		for _, m := range part {
			label := formatMoney(m.Amount)
			if m.Achieved {
				label = "~~" + label + "~~"
			}
			fmt.Fprintf(&src, "- %s\n", label)
		}
		html, err := renderMarkdown(src.String())
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}
