package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

// ResetPasswordData carries the fields the reset_password template renders.
type ResetPasswordData struct {
	Name          string
	AppName       string
	ResetURL      string
	ExpiresInText string
}

// ToMap converts ResetPasswordData to a map[string]any for EmailJob.Data.
func (d ResetPasswordData) ToMap() map[string]any {
	return map[string]any{
		"Name":          d.Name,
		"AppName":       d.AppName,
		"ResetURL":      d.ResetURL,
		"ExpiresInText": d.ExpiresInText,
	}
}

// Render renders the named template with the given data and returns subject,
// text and HTML bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "reset_password":
		t, perr := htmpl.ParseFS(FS, "reset_password.tmpl")
		if perr != nil {
			return "", "", "", perr
		}
		var buf bytes.Buffer
		if rerr := t.Execute(&buf, data); rerr != nil {
			return "", "", "", rerr
		}
		subject = "Reset your password"
		if app, ok := data["AppName"].(string); ok && app != "" {
			subject = fmt.Sprintf("Reset your %s password", app)
		}
		text = fmt.Sprintf("Visit %v to reset your password. The link expires in %v.",
			data["ResetURL"], data["ExpiresInText"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
