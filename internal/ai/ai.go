package ai

import (
	"context"
	"strings"
)

// Improver abstracts the text-generation collaborator that rewrites resume
// content.
type Improver interface {
	ImproveResume(ctx context.Context, content string) (string, error)
}

// StaticImprover is the default offline implementation: it tags the content
// as improved without calling an external provider.
type StaticImprover struct{}

// ImproveResume returns the original content with an improvement marker.
func (StaticImprover) ImproveResume(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimRight(content, " ") + " [Improved]", nil
}
