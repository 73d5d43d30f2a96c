package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
)

// template names
const (
	TemplateWatchLink = "watch_link"
)

// renderTemplate renders an email template with the given data
func renderTemplate(templateName string, data interface{}) (EmailBody, error) {
	switch templateName {
	case TemplateWatchLink:
		return renderWatchLinkTemplate(data)
	default:
		return EmailBody{}, fmt.Errorf("unknown template: %s", templateName)
	}
}

// getTemplateSubject returns the subject for a given template
func getTemplateSubject(templateName string, data interface{}) string {
	switch templateName {
	case TemplateWatchLink:
		linkData, ok := data.(WatchLinkTemplateData)
		if ok {
			return fmt.Sprintf("Your %s access", linkData.AppName)
		}
		return "Your livestream access"
	default:
		return "PPV Gate Notification"
	}
}

// renderWatchLinkTemplate renders the watch-link email template
func renderWatchLinkTemplate(data interface{}) (EmailBody, error) {
	linkData, ok := data.(WatchLinkTemplateData)
	if !ok {
		return EmailBody{}, fmt.Errorf("invalid template data type for watch link")
	}

	// render HTML
	htmlTmpl, err := template.New("html").Parse(watchLinkTemplateHTML)
	if err != nil {
		return EmailBody{}, fmt.Errorf("failed to parse HTML template: %w", err)
	}

	var htmlBuf bytes.Buffer
	err = htmlTmpl.Execute(&htmlBuf, linkData)
	if err != nil {
		return EmailBody{}, fmt.Errorf("failed to execute HTML template: %w", err)
	}

	// render Text
	textTmpl, err := texttemplate.New("text").Parse(watchLinkTextTemplate)
	if err != nil {
		return EmailBody{}, fmt.Errorf("failed to parse text template: %w", err)
	}

	var textBuf bytes.Buffer
	err = textTmpl.Execute(&textBuf, linkData)
	if err != nil {
		return EmailBody{}, fmt.Errorf("failed to execute text template: %w", err)
	}

	return EmailBody{
		HTML: strings.TrimSpace(htmlBuf.String()),
		Text: strings.TrimSpace(textBuf.String()),
	}, nil
}
