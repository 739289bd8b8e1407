package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/younsl/tagsched/internal/models"
	"github.com/younsl/tagsched/pkg/formatter"
)

// TimeLayout is how the run time is shown in messages
const TimeLayout = "2006-01-02 15:04 MST"

// condensedThreshold is the change count above which Slack gets a single list section
const condensedThreshold = 20

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// accountLine returns "Account: .. | Region: .." with label wrapping each key,
// or "" when both are empty
func accountLine(account models.Account, label func(string) string) string {
	var parts []string
	if account.AccountID != "" {
		parts = append(parts, label("Account:")+" "+account.AccountID)
	}
	if account.Region != "" {
		parts = append(parts, label("Region:")+" "+account.Region)
	}
	return strings.Join(parts, " | ")
}

func plain(s string) string { return s }

// BuildText renders the plain text message used for Teams and the Slack fallback
func BuildText(account models.Account, changes []models.Change, now time.Time) string {
	lines := []string{
		"[Scheduler] " + account.Title(),
		"Time: " + now.Format(TimeLayout),
	}
	if line := accountLine(account, plain); line != "" {
		lines = append(lines, line)
	}

	lines = append(lines, fmt.Sprintf("Changes (%d):", len(changes)))
	if len(changes) > 0 {
		lines = append(lines, "```")
		lines = append(lines, formatter.RenderBoxTable(formatter.ChangeHeaders, formatter.ChangeRows(changes))...)
		lines = append(lines, "```")
	}
	return strings.Join(lines, "\n")
}

// BuildTelegram renders the HTML message sent with parse_mode HTML
func BuildTelegram(account models.Account, changes []models.Change, now time.Time) string {
	lines := []string{
		"<b>[Scheduler] " + escapeHTML(account.Title()) + "</b>",
		"Time: " + escapeHTML(now.Format(TimeLayout)),
	}
	if line := accountLine(account, plain); line != "" {
		lines = append(lines, escapeHTML(line))
	}

	lines = append(lines, fmt.Sprintf("Changes (%d):", len(changes)))
	if len(changes) > 0 {
		table := formatter.RenderBoxTable(formatter.ChangeHeaders, formatter.ChangeRows(changes))
		lines = append(lines, "<pre>", escapeHTML(strings.Join(table, "\n")), "</pre>")
	}
	return strings.Join(lines, "\n")
}

// SlackText is a Block Kit text object
type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SlackBlock is a Block Kit layout block
type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Elements []SlackText `json:"elements,omitempty"`
	Fields   []SlackText `json:"fields,omitempty"`
}

// SlackPayload is the body posted to a Slack incoming webhook
type SlackPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

func mrkdwn(text string) SlackText {
	return SlackText{Type: "mrkdwn", Text: text}
}

func mrkdwnSection(text string) SlackBlock {
	t := mrkdwn(text)
	return SlackBlock{Type: "section", Text: &t}
}

func bold(s string) string { return "*" + s + "*" }

// BuildSlack renders a Block Kit payload. Above condensedThreshold changes
// the per-change sections collapse into one bulleted list.
func BuildSlack(account models.Account, changes []models.Change, now time.Time) SlackPayload {
	contextElements := []SlackText{mrkdwn("*Time:* " + now.Format(TimeLayout))}
	if line := accountLine(account, bold); line != "" {
		contextElements = append(contextElements, mrkdwn(line))
	}

	blocks := []SlackBlock{
		{Type: "header", Text: &SlackText{Type: "plain_text", Text: "Scheduler | " + account.Title()}},
		{Type: "context", Elements: contextElements},
		{Type: "divider"},
		mrkdwnSection(fmt.Sprintf("*Changes (%d):*", len(changes))),
	}

	if len(changes) > condensedThreshold {
		lines := make([]string, 0, len(changes))
		for _, c := range changes {
			line := fmt.Sprintf("- %s %s `%s`", formatter.ActionLabel(c.Action), c.Kind.Label(), orDash(c.ResourceID))
			if extra := c.Extra(); extra != "" {
				line += " - " + extra
			}
			lines = append(lines, line)
		}
		blocks = append(blocks, mrkdwnSection(strings.Join(lines, "\n")))
	} else {
		for i, c := range changes {
			blocks = append(blocks, SlackBlock{
				Type: "section",
				Fields: []SlackText{
					mrkdwn("*Action*\n" + formatter.ActionLabel(c.Action)),
					mrkdwn("*Type*\n" + c.Kind.Label()),
					mrkdwn("*Id*\n`" + orDash(c.ResourceID) + "`"),
					mrkdwn("*Tags/Details*\n" + orDash(c.Extra())),
				},
			})
			if i != len(changes)-1 {
				blocks = append(blocks, SlackBlock{Type: "divider"})
			}
		}
	}

	return SlackPayload{
		Text:   BuildText(account, changes, now),
		Blocks: blocks,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
