package feed

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Dan9191/tweet-service/internal/models"
	"github.com/beevik/etree"
)

const titleRunes = 60

// Channel describes the feed itself
type Channel struct {
	Title       string
	Link        string
	Description string
}

// RenderRSS builds an RSS 2.0 document listing posts in the order given
func RenderRSS(ch Channel, posts []models.Post) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(ch.Title)
	channel.CreateElement("link").SetText(ch.Link)
	channel.CreateElement("description").SetText(ch.Description)
	if len(posts) > 0 {
		channel.CreateElement("lastBuildDate").SetText(posts[0].CreatedAt.UTC().Format(time.RFC1123Z))
	}

	for _, p := range posts {
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(fmt.Sprintf("%s: %s", p.Username, truncate(p.Content, titleRunes)))
		item.CreateElement("description").SetText(p.Content)
		item.CreateElement("author").SetText(p.Username)
		item.CreateElement("pubDate").SetText(p.CreatedAt.UTC().Format(time.RFC1123Z))
		guid := item.CreateElement("guid")
		guid.CreateAttr("isPermaLink", "false")
		guid.SetText(fmt.Sprintf("post-%d", p.ID))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render feed: %w", err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
