package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/config"
	"github.com/theunofficial-blog/core/internal/models"
	"github.com/theunofficial-blog/core/internal/modules/content/post"
)

const feedItemLimit = 20

// Handler serves the RSS and Atom feeds of published posts.
type Handler struct {
	posts    *post.Service
	baseURL  string
	siteName string
	logger   *zap.Logger
}

func NewHandler(posts *post.Service, cfg *config.AppConfig, logger *zap.Logger) *Handler {
	return &Handler{
		posts:    posts,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		siteName: cfg.SiteName,
		logger:   logger,
	}
}

// RegisterRoutes mounts the feed endpoints at the engine root.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/feed.xml", func(c *gin.Context) { h.render(c, "rss") })
	r.GET("/atom.xml", func(c *gin.Context) { h.render(c, "atom") })
}

type feedItem struct {
	Title   string
	Link    string
	GUID    string
	PubDate time.Time
	Content string
}

func (h *Handler) render(c *gin.Context, feedType string) {
	posts, err := h.posts.ListPublished(c.Request.Context(), feedItemLimit)
	if err != nil {
		h.logger.Error("loading feed posts", zap.Error(err))
		c.String(500, "feed unavailable")
		return
	}

	items := make([]feedItem, len(posts))
	for i := range posts {
		items[i] = h.toItem(&posts[i])
	}

	desc := fmt.Sprintf("Latest articles from %s", h.siteName)
	switch feedType {
	case "atom":
		c.Header("Content-Type", "application/atom+xml; charset=utf-8")
		c.String(200, buildAtom(h.siteName, desc, h.baseURL, items))
	default:
		c.Header("Content-Type", "application/rss+xml; charset=utf-8")
		c.String(200, buildRSS(h.siteName, desc, h.baseURL, items))
	}
}

func (h *Handler) toItem(p *models.PostModel) feedItem {
	content := p.Excerpt
	if p.Text != "" {
		content = renderMarkdown(p.Text)
	}
	return feedItem{
		Title:   p.Title,
		Link:    fmt.Sprintf("%s/posts/%s", h.baseURL, p.Slug),
		GUID:    p.ID,
		PubDate: p.CreatedAt,
		Content: content,
	}
}

func buildRSS(title, desc, link string, items []feedItem) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>%s</title>
    <link>%s</link>
    <description>%s</description>
    <lastBuildDate>%s</lastBuildDate>
`, escapeXML(title), escapeXML(link), escapeXML(desc), time.Now().Format(time.RFC1123Z)))

	for _, item := range items {
		b.WriteString(fmt.Sprintf(`    <item>
      <title>%s</title>
      <link>%s</link>
      <guid>%s</guid>
      <pubDate>%s</pubDate>
      <description><![CDATA[%s]]></description>
    </item>
`, escapeXML(item.Title), escapeXML(item.Link), item.GUID,
			item.PubDate.Format(time.RFC1123Z), item.Content))
	}

	b.WriteString(`  </channel>
</rss>`)
	return b.String()
}

func buildAtom(title, desc, link string, items []feedItem) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>%s</title>
  <subtitle>%s</subtitle>
  <link href="%s"/>
  <updated>%s</updated>
  <id>%s</id>
`, escapeXML(title), escapeXML(desc), escapeXML(link), time.Now().Format(time.RFC3339), escapeXML(link)))

	for _, item := range items {
		b.WriteString(fmt.Sprintf(`  <entry>
    <title>%s</title>
    <link href="%s"/>
    <id>%s</id>
    <updated>%s</updated>
    <content type="html"><![CDATA[%s]]></content>
  </entry>
`, escapeXML(item.Title), escapeXML(item.Link), item.GUID,
			item.PubDate.Format(time.RFC3339), item.Content))
	}

	b.WriteString(`</feed>`)
	return b.String()
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
