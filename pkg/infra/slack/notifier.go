package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/lookout/pkg/domain/model"
)

// Notifier posts a short announcement of a published report to a Slack
// incoming webhook.
type Notifier struct {
	webhookURL string
}

// New creates a webhook-backed notifier
func New(webhookURL string) *Notifier {
	return &Notifier{webhookURL: webhookURL}
}

func (n *Notifier) Notify(ctx context.Context, report *model.Report) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%d new release(s) found* (%s)\n", len(report.Updates), report.GeneratedAt.UTC().Format("2006-01-02")))
	for _, u := range report.Updates {
		sb.WriteString(fmt.Sprintf("• <%s|%s %s>\n", u.Release.HTMLURL, u.Release.Repo, u.Release.TagName))
	}

	msg := &slack.WebhookMessage{Text: sb.String()}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification")
	}

	return nil
}
