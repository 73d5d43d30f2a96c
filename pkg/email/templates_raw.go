package email

const (
	watchLinkTemplateHTML string = `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>{{.AppName}} Access</title>
	</head>
	<body>
		<div>
			<h1>Your watch link is ready</h1>
			<p>Thank you for your purchase! Click the link below to watch:</p>
			<p>
				<a href="{{.WatchURL}}">Watch the livestream</a>
			</p>
			<p>Or copy and paste this link in your browser:</p>
			<p>{{.WatchURL}}</p>
			<p><b>Access is limited to {{.DeviceLimit}} devices only.</b></p>
			<p>Your access expires on {{.ExpiresAt}}.</p>
			<p>This email was sent by {{.AppName}}</p>
		</div>
	</body>
	</html>`

	watchLinkTextTemplate = `
		{{.AppName}} - Your watch link

		Thank you for your purchase! Watch the livestream here:
		{{.WatchURL}}

		Access is limited to {{.DeviceLimit}} devices only.
		Your access expires on {{.ExpiresAt}}.

		---
		This email was sent by {{.AppName}}
	`
)
