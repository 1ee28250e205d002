package emailqueue

import (
	"bytes"
	"fmt"
	"html/template"
)

type templateSpec struct {
	subject string
	body    *template.Template
}

type renderData struct {
	Name            string
	OfferCode       string
	DiscountPercent any
	Description     string
	DashboardURL    string
	PixelURL        string
}

var templates = map[Template]templateSpec{
	TemplateWelcome: {
		subject: "Welcome to the community!",
		body: template.Must(template.New("welcome").Parse(`<html><body>
<p>Hey {{.Name}},</p>
<p>Welcome aboard! Your community dashboard is ready at <a href="{{.DashboardURL}}">{{.DashboardURL}}</a>.</p>
{{if .PixelURL}}<img src="{{.PixelURL}}" width="1" height="1" alt=""/>{{end}}
</body></html>`)),
	},
	TemplateOnboarding: {
		subject: "Getting the most out of your membership",
		body: template.Must(template.New("onboarding").Parse(`<html><body>
<p>Hey {{.Name}},</p>
<p>A few tips to get started: connect your Discord, say hi in the lounge, and check this week's drops at <a href="{{.DashboardURL}}">{{.DashboardURL}}</a>.</p>
{{if .PixelURL}}<img src="{{.PixelURL}}" width="1" height="1" alt=""/>{{end}}
</body></html>`)),
	},
	TemplateRetention: {
		subject: "A little something before you go",
		body: template.Must(template.New("retention").Parse(`<html><body>
<p>Hey {{.Name}},</p>
<p>{{.Description}}</p>
<p>Use code <strong>{{.OfferCode}}</strong> at <a href="{{.DashboardURL}}/redeem">{{.DashboardURL}}/redeem</a>. It expires in 7 days.</p>
{{if .PixelURL}}<img src="{{.PixelURL}}" width="1" height="1" alt=""/>{{end}}
</body></html>`)),
	},
	TemplateChurnPrevention: {
		subject: "We miss you!",
		body: template.Must(template.New("churn_prevention").Parse(`<html><body>
<p>Hey {{.Name}},</p>
<p>The community hasn't been the same without you. {{.Description}}</p>
{{if .OfferCode}}<p>Your code: <strong>{{.OfferCode}}</strong></p>{{end}}
<p>Come back any time: <a href="{{.DashboardURL}}">{{.DashboardURL}}</a></p>
{{if .PixelURL}}<img src="{{.PixelURL}}" width="1" height="1" alt=""/>{{end}}
</body></html>`)),
	},
}

// Render produces the subject and HTML body for a job. Unknown templates
// error so the job retries and eventually lands in the failed set instead of
// silently disappearing.
func Render(job Job, dashboardURL, pixelURL string) (string, string, error) {
	spec, ok := templates[job.Template]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, job.Template)
	}

	data := renderData{
		Name:         stringField(job.Data, "name"),
		OfferCode:    stringField(job.Data, "offer_code"),
		Description:  stringField(job.Data, "description"),
		DashboardURL: dashboardURL,
		PixelURL:     pixelURL,
	}
	if data.Name == "" {
		data.Name = "there"
	}
	if v, ok := job.Data["discount_percent"]; ok {
		data.DiscountPercent = v
	}

	var body bytes.Buffer
	if err := spec.body.Execute(&body, data); err != nil {
		return "", "", err
	}

	subject := job.Subject
	if subject == "" {
		subject = spec.subject
	}
	return subject, body.String(), nil
}

func stringField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}
