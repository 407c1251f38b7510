// Package docs holds the documentation topics of the ukcgt command, one
// markdown file per topic. readme is the index and is not a topic itself.
package docs

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed *.md
var files embed.FS

const index = "readme"

// ErrUnknownTopic is returned for a topic without a markdown file.
var ErrUnknownTopic = errors.New("unknown topic")

// GetTopic returns the markdown of a topic, or of every topic for "*".
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		all, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		return GetTopics(all...)
	}
	content, err := files.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("%w %q, run 'ukcgt topic' for the list", ErrUnknownTopic, topic)
	}
	return string(content), nil
}

// GetTopics concatenates the markdown of topics.
func GetTopics(topics ...string) (string, error) {
	parts := make([]string, 0, len(topics))
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.TrimRight(content, "\n"))
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// GetAllTopics returns the topic names in alphabetical order.
func GetAllTopics() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".md")
		if ok && name != index {
			topics = append(topics, name)
		}
	}
	return topics, nil
}

// Title returns the first heading of a topic.
func Title(topic string) (string, error) {
	content, err := GetTopic(topic)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(content, "\n") {
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title), nil
		}
	}
	return topic, nil
}
