package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shortify/shortify/internal/domain"
)

// Commands provides command-line operations for the client
type Commands struct {
	client *Client
}

// NewCommands creates a new Commands instance
func NewCommands(client *Client) *Commands {
	return &Commands{
		client: client,
	}
}

// Shorten creates a short link and displays the result
func (c *Commands) Shorten(ctx context.Context, longURL, customAlias, topic string) error {
	result, err := c.client.Shorten(ctx, longURL, customAlias, topic)
	if err != nil {
		return err
	}

	fmt.Printf("Short link created:\n")
	fmt.Printf("Short URL: %s\n", result.ShortURL)
	fmt.Printf("Created At: %s\n", result.CreatedAt.Format(time.RFC3339))

	return nil
}

// Resolve displays the redirect target of an alias
func (c *Commands) Resolve(ctx context.Context, alias string) error {
	target, err := c.client.Resolve(ctx, alias)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			fmt.Printf("Alias '%s' not found\n", alias)
			return nil
		}
		return err
	}

	fmt.Printf("%s -> %s\n", alias, target)
	return nil
}

// AliasAnalytics displays the analytics for one alias
func (c *Commands) AliasAnalytics(ctx context.Context, alias string) error {
	result, err := c.client.AliasAnalytics(ctx, alias)
	if err != nil {
		return err
	}

	fmt.Printf("Analytics for '%s':\n", alias)
	fmt.Printf("Total Clicks: %d\n", result.TotalClicks)
	fmt.Printf("Unique Users: %d\n", result.UniqueUsers)
	printHistogram(result.ClicksByDate)
	printBreakdown("OS", result.OSType)
	printBreakdown("Device", result.DeviceType)

	return nil
}

// TopicAnalytics displays the aggregated analytics for a topic
func (c *Commands) TopicAnalytics(ctx context.Context, topic string) error {
	result, err := c.client.TopicAnalytics(ctx, topic)
	if err != nil {
		return err
	}

	fmt.Printf("Analytics for topic '%s':\n", topic)
	fmt.Printf("Total URLs: %d\n", result.TotalURLs)
	fmt.Printf("Total Clicks: %d\n", result.TotalClicks)
	fmt.Printf("Unique Users: %d\n", result.UniqueUsers)
	printHistogram(result.ClicksByDate)

	if len(result.URLs) == 0 {
		return nil
	}

	fmt.Printf("\n%-50s %-15s %s\n", "Short URL", "Total Clicks", "Unique Users")
	fmt.Println(strings.Repeat("-", 80))
	for _, url := range result.URLs {
		fmt.Printf("%-50s %-15d %d\n", url.ShortURL, url.TotalClicks, url.UniqueUsers)
	}

	return nil
}

// OverallAnalytics displays the aggregated analytics for the caller's links
func (c *Commands) OverallAnalytics(ctx context.Context) error {
	result, err := c.client.OverallAnalytics(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Overall analytics:\n")
	fmt.Printf("Total URLs: %d\n", result.TotalURLs)
	fmt.Printf("Total Clicks: %d\n", result.TotalClicks)
	fmt.Printf("Unique Users: %d\n", result.UniqueUsers)
	printHistogram(result.ClicksByDate)
	printBreakdown("OS", result.OSType)
	printBreakdown("Device", result.DeviceType)

	return nil
}

func printHistogram(buckets []domain.ClickDateCount) {
	if len(buckets) == 0 {
		return
	}
	fmt.Printf("Clicks by date:\n")
	for _, bucket := range buckets {
		fmt.Printf("  %s: %d\n", bucket.Date, bucket.ClickCount)
	}
}

func printBreakdown(label string, breakdown []domain.FieldBreakdown) {
	if len(breakdown) == 0 {
		return
	}
	fmt.Printf("%s breakdown:\n", label)
	for _, entry := range breakdown {
		fmt.Printf("  %s: %d clicks, %d users\n", entry.Name, entry.UniqueClicks, entry.UniqueUsers)
	}
}
