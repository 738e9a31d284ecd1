package tasks

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/lysyi3m/rss-merge/internal/config"
	"github.com/lysyi3m/rss-merge/internal/feed"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	bodies map[string]string
}

func (f *fakeFetcher) Run(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("HTTP error: 503 Service Unavailable")
	}
	return []byte(body), nil
}

const radioA = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Radio A</title>
    <item>
      <title>Culture Today</title>
      <link>https://a.example.com/culture</link>
      <guid>urn:uuid:1234-5678</guid>
      <description>Arts and books</description>
      <pubDate>Sat, 09 Mar 2024 10:00:00 +0000</pubDate>
      <enclosure url="//cdn.example.com/img.jpg" length="100" type="image/jpeg" />
    </item>
    <item>
      <title>Sports Update</title>
      <link>https://a.example.com/sports</link>
      <guid>sports-1</guid>
      <pubDate>Sat, 09 Mar 2024 11:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Culture Archive</title>
      <link>https://a.example.com/archive</link>
      <guid>archive-1</guid>
      <pubDate>Thu, 01 Feb 2024 10:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

const radioB = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Radio B</title>
  <id>urn:uuid:feed-b</id>
  <updated>2024-03-09T12:00:00Z</updated>
  <entry>
    <title>Culture Today (syndicated)</title>
    <id>urn:uuid:1234-5678</id>
    <link href="https://b.example.com/culture"/>
    <updated>2024-03-09T12:00:00Z</updated>
    <summary>Same episode, later copy</summary>
  </entry>
  <entry>
    <title>History Hour</title>
    <link href="//b.example.com/history"/>
    <link rel="enclosure" type="image/png" href="//cdn.example.com/history.png"/>
    <published>2024-03-08T09:00:00Z</published>
    <content type="html">&lt;p&gt;&lt;img src="x.png"&gt;A culture episode&lt;/p&gt;</content>
  </entry>
</feed>`

func testConfig() *config.Config {
	return &config.Config{
		WindowDays: 7,
		MaxItems:   400,
		Sources: []config.Source{
			{URL: "https://a.example.com/rss", Label: "Radio A", Match: []string{"culture"}, TitleOnly: true},
			{URL: "https://down.example.com/rss", Label: "Down", Match: []string{"culture"}},
			{URL: "https://b.example.com/atom", Label: "Radio B", Match: []string{"Culture"}, TakeImageEnclosure: true},
		},
	}
}

func testFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: map[string]string{
		"https://a.example.com/rss":  radioA,
		"https://b.example.com/atom": radioB,
	}}
}

func TestRunnerMergesSources(t *testing.T) {
	runner := NewRunner(testFetcher(), feed.NewParser(), feed.NewFilterer(), 1)
	result := runner.Run(context.Background(), testConfig(), testNow)

	if len(result.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d: %+v", len(result.Items), result.Items)
	}

	first := result.Items[0]
	if first.GUID != "1234-5678" {
		t.Errorf("Expected newest item '1234-5678', got '%s'", first.GUID)
	}
	if first.Category != "Radio A" {
		t.Errorf("Expected first occurrence from 'Radio A' to win, got '%s'", first.Category)
	}
	if first.ImageURL != "" {
		t.Errorf("Expected no image for source without opt-in, got '%s'", first.ImageURL)
	}

	second := result.Items[1]
	if second.Title != "History Hour" {
		t.Errorf("Expected 'History Hour', got '%s'", second.Title)
	}
	if second.Category != "Radio B" {
		t.Errorf("Expected category 'Radio B', got '%s'", second.Category)
	}
	if second.Link != "https://b.example.com/history" {
		t.Errorf("Expected normalized link, got '%s'", second.Link)
	}
	if second.ImageURL != "https://cdn.example.com/history.png" {
		t.Errorf("Expected image from enclosure link, got '%s'", second.ImageURL)
	}
	if second.HTML != "<p>A culture episode</p>" {
		t.Errorf("Expected body without img tag, got '%s'", second.HTML)
	}
	// sha1("//b.example.com/history||History Hour")
	if second.GUID != "d77b5055810280f097e85b7409e1263c58581286" {
		t.Errorf("Expected hashed GUID for entry without id, got '%s'", second.GUID)
	}
}

func TestRunnerReportsSources(t *testing.T) {
	runner := NewRunner(testFetcher(), feed.NewParser(), feed.NewFilterer(), 1)
	result := runner.Run(context.Background(), testConfig(), testNow)

	if len(result.Sources) != 3 {
		t.Fatalf("Expected 3 source reports, got %d", len(result.Sources))
	}

	a, down, b := result.Sources[0], result.Sources[1], result.Sources[2]

	if a.Err != nil || a.Total != 3 || a.Unmatched != 1 || a.Expired != 1 || a.Added != 1 {
		t.Errorf("Unexpected report for Radio A: %+v", a)
	}
	if down.Err == nil || down.Label != "Down" {
		t.Errorf("Expected failed report for unreachable source, got %+v", down)
	}
	if b.Err != nil || b.Total != 2 || b.Duplicates != 1 || b.Added != 1 {
		t.Errorf("Unexpected report for Radio B: %+v", b)
	}
}

func TestRunnerOutputIndependentOfWorkers(t *testing.T) {
	sequential := NewRunner(testFetcher(), feed.NewParser(), feed.NewFilterer(), 1).
		Run(context.Background(), testConfig(), testNow)
	concurrent := NewRunner(testFetcher(), feed.NewParser(), feed.NewFilterer(), 8).
		Run(context.Background(), testConfig(), testNow)

	if !reflect.DeepEqual(sequential.Items, concurrent.Items) {
		t.Errorf("Expected identical items for 1 and 8 workers\nsequential: %+v\nconcurrent: %+v",
			sequential.Items, concurrent.Items)
	}
}

func TestRunnerIsIdempotent(t *testing.T) {
	runner := NewRunner(testFetcher(), feed.NewParser(), feed.NewFilterer(), 2)

	first := runner.Run(context.Background(), testConfig(), testNow)
	second := runner.Run(context.Background(), testConfig(), testNow)

	if !reflect.DeepEqual(first.Items, second.Items) {
		t.Error("Expected repeated runs over unchanged data to yield identical items")
	}
}

func TestRunnerTruncates(t *testing.T) {
	c := testConfig()
	c.MaxItems = 1

	result := NewRunner(testFetcher(), feed.NewParser(), feed.NewFilterer(), 1).Run(context.Background(), c, testNow)
	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].GUID != "1234-5678" {
		t.Errorf("Expected newest item to survive truncation, got '%s'", result.Items[0].GUID)
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewRunner(testFetcher(), feed.NewParser(), feed.NewFilterer(), 2).Run(ctx, testConfig(), testNow)

	if len(result.Items) != 0 {
		t.Errorf("Expected no items from a cancelled run, got %d", len(result.Items))
	}
	for _, src := range result.Sources {
		if !errors.Is(src.Err, context.Canceled) {
			t.Errorf("Expected context.Canceled for %s, got %v", src.URL, src.Err)
		}
	}
}

func TestRuleFor(t *testing.T) {
	rule := RuleFor(config.Source{
		URL:                "https://example.com/rss",
		Label:              "Label",
		Match:              []string{"a", "b"},
		TitleOnly:          true,
		TakeImageEnclosure: true,
	})

	if rule.Label != "Label" || len(rule.Terms) != 2 || !rule.TitleOnly || !rule.TakeImageEnclosure {
		t.Errorf("Unexpected rule: %+v", rule)
	}
}
