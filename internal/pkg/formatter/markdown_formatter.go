package formatter

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(a *Answer) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n%s\n", a.Question, strings.TrimSpace(a.Result.AnswerText))

	buf.WriteString("\n## Sources\n\n")
	if !a.Result.HasSources() {
		buf.WriteString("_No source documents were returned._\n")
		return buf.Bytes(), nil
	}
	for _, doc := range a.Result.SourceDocuments {
		fmt.Fprintf(&buf, "### %s\n\n", sourceTitle(doc))
		for _, line := range strings.Split(strings.TrimSpace(doc.Content), "\n") {
			fmt.Fprintf(&buf, "> %s\n", line)
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
