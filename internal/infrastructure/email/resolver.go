package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
)

// TemplateResolver derives recipient addresses from a configured
// template, e.g. "u{{.UserID}}@mail.loam.dev" for deployments that
// route tenant mail through a per-user forwarding alias. Deployments
// with a user directory service supply their own RecipientResolver.
type TemplateResolver struct {
	tmpl *template.Template
}

func NewTemplateResolver(pattern string) (*TemplateResolver, error) {
	tmpl, err := template.New("recipient").Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient template: %w", err)
	}
	return &TemplateResolver{tmpl: tmpl}, nil
}

func (r *TemplateResolver) EmailForUser(_ context.Context, userID uint) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, struct{ UserID uint }{UserID: userID}); err != nil {
		return "", fmt.Errorf("failed to render recipient address: %w", err)
	}
	return buf.String(), nil
}
