package discord

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/stake-plus/memberhub/src/api/types"
)

// Discord rejects message content longer than this many characters.
const maxMessageLen = 2000

var linkPattern = regexp.MustCompile(`(<?)(https?://[^\s\[\]()<>]+)`)

// Broadcaster posts urgent notices to one channel over the REST API; it
// never opens a gateway connection.
type Broadcaster struct {
	session   *discordgo.Session
	channelID string
}

func NewBroadcaster(token, channelID string) (*Broadcaster, error) {
	if token == "" || channelID == "" {
		return nil, errors.New("discord: token and channel id are required")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: %w", err)
	}
	return &Broadcaster{session: s, channelID: channelID}, nil
}

func (b *Broadcaster) Broadcast(ctx context.Context, n types.Notice) error {
	_, err := b.session.ChannelMessageSend(b.channelID, FormatNotice(n), discordgo.WithContext(ctx))
	return err
}

// FormatNotice renders a notice as message content, URLs unembedded and
// truncated to Discord's limit.
func FormatNotice(n types.Notice) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**[%s] %s**", strings.ToUpper(string(n.Priority)), n.Title)
	if n.Category != "" {
		fmt.Fprintf(&sb, " · %s", n.Category)
	}
	if n.TargetAudience == types.TargetConstituency && n.Constituency != "" {
		fmt.Fprintf(&sb, " · %s", n.Constituency)
	}
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(n.Content))
	return truncate(SuppressEmbeds(sb.String()), maxMessageLen)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// SuppressEmbeds puts bare links in angle brackets so Discord shows them
// without a preview card. Trailing sentence punctuation stays outside.
func SuppressEmbeds(text string) string {
	var sb strings.Builder
	last := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		open, link := m[3] > m[2], text[m[4]:m[5]]
		sb.WriteString(text[last:m[4]])
		last = m[5]
		if open && last < len(text) && text[last] == '>' {
			sb.WriteString(link)
			continue
		}
		core := strings.TrimRight(link, ".,;:!?")
		if core == "" || strings.HasSuffix(core, "://") {
			sb.WriteString(link)
			continue
		}
		sb.WriteString("<" + core + ">" + link[len(core):])
	}
	sb.WriteString(text[last:])
	return sb.String()
}
