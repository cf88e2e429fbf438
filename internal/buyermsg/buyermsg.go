// Package buyermsg cleans buyer-facing text inherited from the main bot so
// that main-bot contact details never leak into an agent's sub-bot, and
// builds the agent's own contacts block for template substitution.
package buyermsg

import (
	"regexp"
	"strings"

	"github.com/lumipay/agent-console/internal/i18n"
)

// contactLine matches a whole line carrying a main-bot contact marker:
// Chinese and English labels, with or without a leading emoji, plain or
// wrapped in <b> tags. Colons may be fullwidth or ASCII.
var contactLine = regexp.MustCompile(
	`(?mi)^(?:<b>\s*)?(?:[☎️📞📣📢🔔💬📖📚]+\s*)?` +
		`(?:客服|官方频道|频道|补货通知群|教程|Support|Official\s+Channel|Channel|Restock\s+Group|Tutorial)` +
		`[：:].*$`)

// separatorLine matches the horizontal rules that usually frame a contact
// block in the main bot's templates.
var separatorLine = regexp.MustCompile(`(?m)^[▬\-─]{8,}\s*$`)

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// Sanitize strips main-bot contact lines from text and tidies the gaps they
// leave behind. Empty input passes through unchanged.
func Sanitize(text string) string {
	if text == "" {
		return text
	}

	out := contactLine.ReplaceAllString(text, "")
	out = separatorLine.ReplaceAllString(out, "")
	out = excessBlankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// Contacts holds an agent's own contact settings; empty fields are omitted
// from the rendered block.
type Contacts struct {
	CustomerService string
	OfficialChannel string
	RestockGroup    string
	TutorialLink    string
}

var contactLabels = map[i18n.Locale][4]string{
	i18n.ZH: {"客服", "官方频道", "补货通知群", "教程"},
	i18n.EN: {"Support", "Official Channel", "Restock Group", "Tutorial"},
}

// ContactsBlock renders the agent's contact lines as HTML for use in buyer
// reminder templates. Returns "" when the agent has no contacts configured.
func ContactsBlock(c Contacts, loc i18n.Locale) string {
	labels, ok := contactLabels[loc]
	if !ok {
		labels = contactLabels[i18n.EN]
	}

	var lines []string
	for i, value := range []string{c.CustomerService, c.OfficialChannel, c.RestockGroup, c.TutorialLink} {
		if value == "" {
			continue
		}
		lines = append(lines, "<b>"+labels[i]+"：</b>"+value)
	}
	return strings.Join(lines, "\n")
}
